package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/iossign/internal/core/devicetab"
	"github.com/colonyops/iossign/internal/core/styles"
	"github.com/colonyops/iossign/pkg/iojson"
)

type ShowCmd struct {
	flags *Flags

	// flags
	launch     string
	jsonOutput bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show the signing settings of a launch configuration",
		UsageText: "iossign show [--launch NAME] [--json]",
		Description: `Restores the stored signing identity and provisioning profile against the
current catalog and prints what is selected.

An identity or profile that no longer exists (revoked, expired) shows as Auto.`,
		Flags: []cli.Flag{
			launchFlag(&cmd.launch),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// showOutput is the JSON output format for iossign show --json.
type showOutput struct {
	Launch string `json:"launch"`
	Stored bool   `json:"stored"`
	devicetab.Summary
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	_, sess, err := cmd.flags.openSession(ctx, cmd.launch)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	summary := sess.tab.Summary()

	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, showOutput{
			Launch:  sess.name,
			Stored:  sess.exists,
			Summary: summary,
		})
	}

	writeSummary(out, sess.name, sess.exists, summary)
	return nil
}

func writeSummary(w io.Writer, name string, stored bool, s devicetab.Summary) {
	title := styles.TextPrimaryBoldStyle.Render(name)
	if !stored {
		title += " " + styles.TextMutedStyle.Render("(not saved yet)")
	}
	_, _ = fmt.Fprintln(w, title)

	_, _ = fmt.Fprintf(w, "  Signing identity:     %s\n", formatChoice(s.Identity))

	profile := formatChoice(s.Profile)
	if !s.ProfileEnabled {
		profile = styles.TextMutedStyle.Render(s.Profile.Label + " (unused while signing is skipped)")
	}
	_, _ = fmt.Fprintf(w, "  Provisioning profile: %s\n", profile)
}

func formatChoice(c devicetab.Choice) string {
	s := fmt.Sprintf("[%d] %s", c.Index, c.Label)
	if c.Key != "" {
		s += " " + styles.TextMutedStyle.Render(c.Key)
	}
	return s
}

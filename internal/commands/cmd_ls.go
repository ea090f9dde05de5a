package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/iossign/internal/core/styles"
	"github.com/colonyops/iossign/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List signing identities or provisioning profiles",
		UsageText: "iossign ls identities|profiles [--json]",
		Description: `Lists the entries a launch configuration can choose from, in display order.

The INDEX column is the value accepted by 'iossign set --identity' and
'iossign set --profile'. Index 0 is Auto; for identities index 1 is Skip Signing.`,
		Commands: []*cli.Command{
			{
				Name:    "identities",
				Aliases: []string{"id"},
				Usage:   "List signing identities",
				Flags:   []cli.Flag{cmd.jsonFlag()},
				Action:  cmd.runIdentities,
			},
			{
				Name:    "profiles",
				Aliases: []string{"pp"},
				Usage:   "List provisioning profiles",
				Flags:   []cli.Flag{cmd.jsonFlag()},
				Action:  cmd.runProfiles,
			},
		},
	})

	return app
}

func (cmd *LsCmd) jsonFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "json",
		Usage:       "output as JSON lines",
		Destination: &cmd.jsonOutput,
	}
}

// lsEntry is the JSON line format for iossign ls --json.
type lsEntry struct {
	Index     int    `json:"index"`
	Label     string `json:"label"`
	Key       string `json:"key,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

func (cmd *LsCmd) runIdentities(ctx context.Context, c *cli.Command) error {
	_, sess, err := cmd.flags.openSession(ctx, "")
	if err != nil {
		return err
	}

	items := sess.tab.IdentityItems()
	sentinels := len(items) - len(sess.tab.Identities())

	entries := make([]lsEntry, 0, len(items))
	for i, label := range items {
		e := lsEntry{Index: i, Label: label}
		if i >= sentinels {
			e.Key = sess.tab.Identities()[i-sentinels].Key()
		}
		entries = append(entries, e)
	}

	return cmd.write(c, entries, false)
}

func (cmd *LsCmd) runProfiles(ctx context.Context, c *cli.Command) error {
	_, sess, err := cmd.flags.openSession(ctx, "")
	if err != nil {
		return err
	}

	items := sess.tab.ProfileItems()
	sentinels := len(items) - len(sess.tab.Profiles())

	entries := make([]lsEntry, 0, len(items))
	for i, label := range items {
		e := lsEntry{Index: i, Label: label}
		if i >= sentinels {
			p := sess.tab.Profiles()[i-sentinels]
			e.Key = p.Key()
			if !p.ExpirationDate.IsZero() {
				e.ExpiresAt = p.ExpirationDate.Format(time.DateOnly)
			}
		}
		entries = append(entries, e)
	}

	return cmd.write(c, entries, true)
}

func (cmd *LsCmd) write(c *cli.Command, entries []lsEntry, expiry bool) error {
	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, e := range entries {
			if err := iojson.WriteLine(out, e); err != nil {
				return err
			}
		}
		return nil
	}

	if !hasCatalogEntries(entries) {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, styles.TextMutedStyle.Render("catalog is empty; only automatic choices are available"))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := "INDEX\tLABEL\tKEY"
	if expiry {
		header += "\tEXPIRES"
	}
	_, _ = fmt.Fprintln(w, header)

	for _, e := range entries {
		key := e.Key
		if key == "" {
			key = "-"
		}
		line := fmt.Sprintf("%d\t%s\t%s", e.Index, e.Label, key)
		if expiry {
			exp := e.ExpiresAt
			if exp == "" {
				exp = "-"
			}
			line += "\t" + exp
		}
		_, _ = fmt.Fprintln(w, line)
	}

	return w.Flush()
}

func hasCatalogEntries(entries []lsEntry) bool {
	for _, e := range entries {
		if e.Key != "" {
			return true
		}
	}
	return false
}

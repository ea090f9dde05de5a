package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/iossign/internal/core/launch"
	"github.com/colonyops/iossign/internal/core/logging"
	"github.com/colonyops/iossign/internal/printer"
	"github.com/colonyops/iossign/pkg/iojson"
)

type LaunchCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	importFile iojson.FileReader[launch.Config]
}

// NewLaunchCmd creates a new launch command
func NewLaunchCmd(flags *Flags) *LaunchCmd {
	return &LaunchCmd{flags: flags}
}

// Register adds the launch command to the application
func (cmd *LaunchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "launch",
		Usage: "Manage stored launch configurations",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List launch configurations",
				UsageText: "iossign launch ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:          "rm",
				Usage:         "Delete a launch configuration",
				UsageText:     "iossign launch rm NAME",
				ShellComplete: LaunchNameCompleter(cmd.flags),
				Action:        cmd.runRemove,
			},
			{
				Name:          "export",
				Usage:         "Print a launch configuration as JSON",
				UsageText:     "iossign launch export NAME",
				ShellComplete: LaunchNameCompleter(cmd.flags),
				Action:        cmd.runExport,
			},
			{
				Name:      "import",
				Usage:     "Create or replace a launch configuration from JSON",
				UsageText: "iossign launch import [-f FILE]",
				Description: `Reads a launch configuration in the format written by 'iossign launch export'
from a file or stdin. An existing configuration with the same name is replaced.`,
				Flags:  []cli.Flag{cmd.importFile.Flag()},
				Action: cmd.runImport,
			},
		},
	})

	return app
}

// launchEntry is the JSON line format for iossign launch ls --json.
type launchEntry struct {
	Name        string `json:"name"`
	SigningID   string `json:"signing_id,omitempty"`
	Profile     string `json:"provisioning_profile,omitempty"`
	SkipSigning bool   `json:"skip_signing"`
}

func (cmd *LaunchCmd) runList(ctx context.Context, c *cli.Command) error {
	configs, err := cmd.flags.Launches.List(ctx)
	if err != nil {
		return fmt.Errorf("list launch configurations: %w", err)
	}

	slices.SortFunc(configs, func(a, b launch.Config) int {
		return strings.Compare(a.Name, b.Name)
	})

	entries := make([]launchEntry, 0, len(configs))
	for _, cfg := range configs {
		entries = append(entries, toLaunchEntry(ctx, cfg))
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, e := range entries {
			if err := iojson.WriteLine(out, e); err != nil {
				return err
			}
		}
		return nil
	}

	if len(entries) == 0 {
		printer.Ctx(ctx).Infof("No launch configurations found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tSIGNING ID\tPROFILE\tSKIP")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", e.Name, orDash(e.SigningID), orDash(e.Profile), e.SkipSigning)
	}
	return w.Flush()
}

// toLaunchEntry reads the raw signing attributes. Unreadable values are
// logged and shown as unset.
func toLaunchEntry(ctx context.Context, cfg launch.Config) launchEntry {
	log := logging.Component("launch")
	e := launchEntry{Name: cfg.Name}

	var err error
	if e.SigningID, err = cfg.String(launch.AttrSigningID, ""); err != nil {
		log.Warn().Ctx(ctx).Err(err).Str("launch_config", cfg.Name).Msg("read attribute")
	}
	if e.Profile, err = cfg.String(launch.AttrProvisioningProfile, ""); err != nil {
		log.Warn().Ctx(ctx).Err(err).Str("launch_config", cfg.Name).Msg("read attribute")
	}
	if e.SkipSigning, err = cfg.Bool(launch.AttrSkipSigning, false); err != nil {
		log.Warn().Ctx(ctx).Err(err).Str("launch_config", cfg.Name).Msg("read attribute")
	}
	return e
}

func (cmd *LaunchCmd) runRemove(ctx context.Context, c *cli.Command) error {
	name, err := requireName(c)
	if err != nil {
		return err
	}

	if err := cmd.flags.Launches.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete launch configuration: %w", err)
	}

	printer.Ctx(ctx).Success("Deleted", name)
	return nil
}

func (cmd *LaunchCmd) runExport(ctx context.Context, c *cli.Command) error {
	name, err := requireName(c)
	if err != nil {
		return err
	}

	cfg, err := cmd.flags.Launches.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("load launch configuration: %w", err)
	}

	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, cfg)
}

func (cmd *LaunchCmd) runImport(ctx context.Context, c *cli.Command) error {
	cfg, err := cmd.importFile.Read()
	if err != nil {
		return err
	}

	if err := launch.ValidateName(cfg.Name); err != nil {
		return err
	}
	if cfg.Attributes == nil {
		cfg.Attributes = map[string]any{}
	}

	if err := cmd.flags.Launches.Save(ctx, cfg); err != nil {
		return fmt.Errorf("save launch configuration: %w", err)
	}

	printer.Ctx(ctx).Success("Imported", cfg.Name)
	return nil
}

func requireName(c *cli.Command) (string, error) {
	if c.Args().Len() != 1 {
		return "", fmt.Errorf("expected exactly one launch configuration name")
	}
	return c.Args().First(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/iossign/internal/printer"
)

type ResetCmd struct {
	flags *Flags

	// flags
	launch string
}

// NewResetCmd creates a new reset command
func NewResetCmd(flags *Flags) *ResetCmd {
	return &ResetCmd{flags: flags}
}

// Register adds the reset command to the application
func (cmd *ResetCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "reset",
		Usage:     "Reset signing settings to defaults",
		UsageText: "iossign reset [--launch NAME]",
		Description: `Clears the signing identity, provisioning profile and skip-signing flag of a
launch configuration so that both choices are Auto again.`,
		Flags: []cli.Flag{
			launchFlag(&cmd.launch),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ResetCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	ctx, sess, err := cmd.flags.openSession(ctx, cmd.launch)
	if err != nil {
		return err
	}

	saved, err := sess.reset(ctx, cmd.flags.Launches)
	if err != nil {
		return err
	}

	if saved {
		p.Success("Reset", sess.name)
	} else {
		p.Infof("%s already uses defaults", sess.name)
	}

	return nil
}

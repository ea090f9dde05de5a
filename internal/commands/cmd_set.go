package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/iossign/internal/printer"
)

type SetCmd struct {
	flags *Flags

	// flags
	launch      string
	identity    string
	profile     string
	skipSigning bool
}

// NewSetCmd creates a new set command
func NewSetCmd(flags *Flags) *SetCmd {
	return &SetCmd{flags: flags}
}

// Register adds the set command to the application
func (cmd *SetCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "set",
		Usage:     "Choose the signing identity and provisioning profile",
		UsageText: "iossign set [--launch NAME] [--identity VALUE] [--profile VALUE] [--skip-signing]",
		Description: `Updates the signing settings of a launch configuration. Settings that are
not given keep their current (restored) value.

--identity accepts "auto", "skip", an index from 'iossign ls identities',
a fingerprint, or the start of an identity name.

--profile accepts "auto", an index from 'iossign ls profiles', a UUID, or a
profile name. The profile is not written while signing is skipped.`,
		Flags: []cli.Flag{
			launchFlag(&cmd.launch),
			&cli.StringFlag{
				Name:        "identity",
				Aliases:     []string{"i"},
				Usage:       "signing identity (auto, skip, index, fingerprint or name prefix)",
				Destination: &cmd.identity,
			},
			&cli.StringFlag{
				Name:        "profile",
				Aliases:     []string{"p"},
				Usage:       "provisioning profile (auto, index, UUID or name)",
				Destination: &cmd.profile,
			},
			&cli.BoolFlag{
				Name:        "skip-signing",
				Usage:       "skip code signing (same as --identity skip)",
				Destination: &cmd.skipSigning,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SetCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.identity == "" && cmd.profile == "" && !cmd.skipSigning {
		return fmt.Errorf("nothing to set; pass --identity, --profile or --skip-signing")
	}
	if cmd.skipSigning && cmd.identity != "" {
		return fmt.Errorf("--skip-signing cannot be combined with --identity")
	}

	ctx, sess, err := cmd.flags.openSession(ctx, cmd.launch)
	if err != nil {
		return err
	}

	if cmd.skipSigning {
		sess.tab.SkipSigning()
	}
	if cmd.identity != "" {
		if err := selectIdentity(sess.tab, cmd.identity); err != nil {
			return fmt.Errorf("identity: %w", err)
		}
	}
	if cmd.profile != "" {
		if err := selectProfile(sess.tab, cmd.profile); err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		if !sess.tab.ProfileEnabled() {
			p.Warnf("signing is skipped; the provisioning profile is not saved")
		}
	}

	saved, err := sess.apply(ctx, cmd.flags.Launches)
	if err != nil {
		return err
	}

	if saved {
		p.Success("Saved", sess.name)
	} else {
		p.Infof("No changes to %s", sess.name)
	}
	writeSummary(c.Root().Writer, sess.name, true, sess.tab.Summary())

	return nil
}

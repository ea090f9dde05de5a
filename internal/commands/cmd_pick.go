package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/iossign/internal/core/devicetab"
	"github.com/colonyops/iossign/internal/core/styles"
	"github.com/colonyops/iossign/internal/printer"
)

type PickCmd struct {
	flags *Flags

	// flags
	launch string
}

// NewPickCmd creates a new pick command
func NewPickCmd(flags *Flags) *PickCmd {
	return &PickCmd{flags: flags}
}

// Register adds the pick command to the application
func (cmd *PickCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "pick",
		Usage:     "Choose signing settings interactively",
		UsageText: "iossign pick [--launch NAME]",
		Description: `Opens a form with the signing identity and provisioning profile lists,
preselected from the stored launch configuration. The profile question is
skipped when Skip Signing is chosen.`,
		Flags: []cli.Flag{
			launchFlag(&cmd.launch),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PickCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("pick needs an interactive terminal; use 'iossign set' instead")
	}

	ctx, sess, err := cmd.flags.openSession(ctx, cmd.launch)
	if err != nil {
		return err
	}

	identityIdx, profileIdx := sess.tab.IdentityIndex(), sess.tab.ProfileIndex()
	if err := runPickForm(sess.name, sess.tab, &identityIdx, &profileIdx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("form: %w", err)
	}

	if err := sess.tab.SelectIdentity(identityIdx); err != nil {
		return err
	}
	if sess.tab.ProfileEnabled() {
		if err := sess.tab.SelectProfile(profileIdx); err != nil {
			return err
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

func runPickForm(name string, tab *devicetab.DeviceTab, identityIdx, profileIdx *int) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Signing identity").
				Description("Launch configuration " + name).
				Options(indexedOptions(tab.IdentityItems())...).
				Value(identityIdx),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Provisioning profile").
				Options(indexedOptions(tab.ProfileItems())...).
				Value(profileIdx),
		).WithHideFunc(func() bool {
			return tab.IsSkipIndex(*identityIdx)
		}),
	).
		WithTheme(styles.FormTheme()).
		WithProgramOptions(tea.WithOutput(os.Stderr)).
		Run()
}

// indexedOptions turns display items into select options valued by index.
func indexedOptions(items []string) []huh.Option[int] {
	opts := make([]huh.Option[int], len(items))
	for i, label := range items {
		opts[i] = huh.NewOption(label, i)
	}
	return opts
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/iossign/internal/core/devicetab"
	"github.com/colonyops/iossign/internal/core/launch"
	"github.com/colonyops/iossign/internal/core/logging"
)

// editSession is one device tab opened on one stored launch configuration.
type editSession struct {
	name   string
	stored launch.Config
	exists bool
	tab    *devicetab.DeviceTab
}

// launchFlag returns the --launch flag writing into dest.
func launchFlag(dest *string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "launch",
		Aliases:     []string{"l"},
		Usage:       "launch configuration name (defaults to launch.default from config)",
		Destination: dest,
	}
}

func (f *Flags) launchName(name string) string {
	if name != "" {
		return name
	}
	return f.Config.Launch.Default
}

func (f *Flags) labels() devicetab.Labels {
	return devicetab.Labels{
		AutoIdentity: f.Config.Labels.AutoIdentity,
		SkipSigning:  f.Config.Labels.SkipSigning,
		AutoProfile:  f.Config.Labels.AutoProfile,
	}
}

// openSession loads the named configuration, or starts a new one if it does
// not exist yet, and initializes a device tab from it.
func (f *Flags) openSession(ctx context.Context, name string) (context.Context, *editSession, error) {
	name = f.launchName(name)
	if err := launch.ValidateName(name); err != nil {
		return ctx, nil, err
	}

	ctx = logging.WithLaunchConfig(ctx, name)

	stored, err := f.Launches.Get(ctx, name)
	exists := true
	switch {
	case errors.Is(err, launch.ErrNotFound):
		log.Debug().Ctx(ctx).Msg("launch configuration not found, starting a new one")
		stored, exists = launch.New(name), false
	case err != nil:
		return ctx, nil, fmt.Errorf("load launch configuration: %w", err)
	}

	tab := devicetab.New(f.Catalog, f.labels(), logging.Component("devicetab"))
	tab.OnCreate()
	if err := tab.OnInitialize(ctx, stored); err != nil {
		return ctx, nil, fmt.Errorf("initialize device settings: %w", err)
	}

	return ctx, &editSession{name: name, stored: stored, exists: exists, tab: tab}, nil
}

// apply writes the tab's selection into a working copy and saves it when
// anything changed. Returns whether a save happened.
func (s *editSession) apply(ctx context.Context, store launch.Store) (bool, error) {
	wc := s.stored.WorkingCopy()
	s.tab.OnApply(wc)
	return s.save(ctx, store, wc)
}

// reset clears the signing attributes and saves.
func (s *editSession) reset(ctx context.Context, store launch.Store) (bool, error) {
	wc := s.stored.WorkingCopy()
	s.tab.OnSetDefaults(wc)
	return s.save(ctx, store, wc)
}

func (s *editSession) save(ctx context.Context, store launch.Store, wc *launch.WorkingCopy) (bool, error) {
	if !wc.Dirty() && s.exists {
		return false, nil
	}

	if err := store.Save(ctx, wc.Config); err != nil {
		return false, fmt.Errorf("save launch configuration: %w", err)
	}

	s.stored, s.exists = wc.Config, true
	log.Info().Ctx(ctx).Msg("launch configuration saved")
	return true, nil
}

// Choice keywords accepted by --identity and --profile.
const (
	choiceAuto = "auto"
	choiceSkip = "skip"
)

// selectIdentity applies an --identity value: "auto", "skip", a display
// index, or a fingerprint / name prefix. A value equal to a fingerprint is
// never read as an index.
func selectIdentity(tab *devicetab.DeviceTab, value string) error {
	switch strings.ToLower(value) {
	case choiceAuto:
		return tab.SelectIdentity(0)
	case choiceSkip:
		tab.SkipSigning()
		return nil
	}

	if idx, err := strconv.Atoi(value); err == nil && !hasKey(tab.Identities(), value) {
		return tab.SelectIdentity(idx)
	}
	return tab.SelectIdentityKey(value)
}

// selectProfile applies a --profile value: "auto", a display index, or a UUID
// / exact name. A value equal to a UUID is never read as an index.
func selectProfile(tab *devicetab.DeviceTab, value string) error {
	if strings.EqualFold(value, choiceAuto) {
		return tab.SelectProfile(0)
	}

	if idx, err := strconv.Atoi(value); err == nil && !hasKey(tab.Profiles(), value) {
		return tab.SelectProfile(idx)
	}
	return tab.SelectProfileKey(value)
}

func hasKey[T interface{ Key() string }](items []T, key string) bool {
	return slices.ContainsFunc(items, func(item T) bool { return item.Key() == key })
}

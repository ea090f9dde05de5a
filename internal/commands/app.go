package commands

import (
	"github.com/urfave/cli/v3"
)

// NewApp builds the root command with global flags and all subcommands
// registered. Lifecycle hooks are left to the caller.
func NewApp(flags *Flags, version string) *cli.Command {
	app := &cli.Command{
		Name:      "iossign",
		Usage:     "Choose code signing settings for iOS device launches",
		UsageText: "iossign [global options] command [command options]",
		Description: `iossign keeps the signing identity, provisioning profile and skip-signing
choice of named launch configurations in sync with the identities and profiles
that currently exist.

A choice that no longer exists (revoked certificate, expired profile) quietly
falls back to Auto the next time it is read.

Run 'iossign ls identities' to see what can be chosen.
Run 'iossign set --identity N' or 'iossign pick' to choose.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("IOSSIGN_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file, '-' for stderr",
				Sources:     cli.EnvVars("IOSSIGN_LOG_FILE"),
				Value:       DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("IOSSIGN_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("IOSSIGN_DATA_DIR"),
				Value:       DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		EnableShellCompletion: true,
	}

	app = NewLsCmd(flags).Register(app)
	app = NewShowCmd(flags).Register(app)
	app = NewSetCmd(flags).Register(app)
	app = NewPickCmd(flags).Register(app)
	app = NewResetCmd(flags).Register(app)
	app = NewLaunchCmd(flags).Register(app)
	app = NewDoctorCmd(flags).Register(app)
	app = NewConfigValidateCmd(flags).Register(app)

	return app
}

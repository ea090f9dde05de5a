package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// LaunchNameCompleter returns a ShellCompleteFunc that suggests stored launch
// configuration names as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func LaunchNameCompleter(flags *Flags) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if flags.Launches == nil {
			return
		}

		configs, err := flags.Launches.List(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, c := range configs {
			_, _ = fmt.Fprintln(w, c.Name)
		}
	}
}

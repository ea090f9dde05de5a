// Package logging holds the zerolog helpers shared by iossign components:
// child loggers tagged with a "cmp" field and a hook that copies the launch
// configuration and command from the context onto each event.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns a child of the global logger tagged with cmp=name.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

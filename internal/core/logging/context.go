package logging

import "context"

type contextKey string

const (
	launchConfigKey contextKey = "launch_config"
	commandKey      contextKey = "command"
)

// WithLaunchConfig adds the name of the launch configuration being edited to
// the context.
func WithLaunchConfig(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, launchConfigKey, name)
}

// WithCommand adds the CLI command name to the context.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// GetLaunchConfig retrieves the launch configuration name from the context.
// Returns empty string if not present.
func GetLaunchConfig(ctx context.Context) string {
	if name, ok := ctx.Value(launchConfigKey).(string); ok {
		return name
	}
	return ""
}

// GetCommand retrieves the command name from the context.
// Returns empty string if not present.
func GetCommand(ctx context.Context) string {
	if name, ok := ctx.Value(commandKey).(string); ok {
		return name
	}
	return ""
}

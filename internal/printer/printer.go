// Package printer writes styled status lines for CLI commands.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/colonyops/iossign/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines. Errors and warnings go to the error writer;
// everything else goes to the output writer.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New creates a printer.
func New(out, err io.Writer) *Printer {
	return &Printer{out: out, err: err}
}

// NewContext returns a context carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stdout/stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout, os.Stderr)
}

// Success prints a success title followed by a muted detail.
func (p *Printer) Success(title, detail string) {
	line := styles.TextSuccessStyle.Render("✔ " + title)
	if detail != "" {
		line += " " + styles.TextMutedStyle.Render(detail)
	}
	_, _ = fmt.Fprintln(p.out, line)
}

// Successf prints a formatted success line.
func (p *Printer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, styles.TextSuccessStyle.Render("✔ "+fmt.Sprintf(format, args...)))
}

// Infof prints a formatted informational line.
func (p *Printer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, styles.TextPrimaryStyle.Render("● "+fmt.Sprintf(format, args...)))
}

// Warnf prints a formatted warning line.
func (p *Printer) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.err, styles.TextWarningStyle.Render("● "+fmt.Sprintf(format, args...)))
}

// Errorf prints a formatted error line.
func (p *Printer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.err, styles.TextErrorStyle.Render("✘ "+fmt.Sprintf(format, args...)))
}

// Printf prints an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/jsamuelsen/quotebook/internal/domain"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// printer writes status lines to w, coloured unless disabled.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer, color bool) *printer {
	return &printer{w: w, color: color}
}

// isTerminal reports whether w is a terminal. Buffers and pipes are not, so
// their output never carries escape codes.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *printer) colorize(color, text string) string {
	if !p.color {
		return text
	}

	return color + text + colorReset
}

func (p *printer) successf(format string, args ...any) {
	fmt.Fprintln(p.w, p.colorize(colorGreen, "✓ "+fmt.Sprintf(format, args...)))
}

func (p *printer) errorf(format string, args ...any) {
	fmt.Fprintln(p.w, p.colorize(colorRed, "✗ "+fmt.Sprintf(format, args...)))
}

func (p *printer) warnf(format string, args ...any) {
	fmt.Fprintln(p.w, p.colorize(colorYellow, "⚠ "+fmt.Sprintf(format, args...)))
}

// quote writes a quote as two lines: the text, then its category.
func (p *printer) quote(q domain.Quote) {
	fmt.Fprintf(p.w, "%s\n    %s\n", q.Text, p.colorize(colorCyan, "["+q.Category+"]"))
}

// post writes one post as "id  title".
func (p *printer) post(post domain.Post) {
	fmt.Fprintf(p.w, "%s  %s\n", p.colorize(colorBold, fmt.Sprintf("%4d", post.ID)), post.Title)
}

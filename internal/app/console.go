package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"cronba/internal/backup"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

// consoleReporter writes the human-readable run trail. Colors are only
// emitted when color is set.
type consoleReporter struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// newConsoleReporter creates a console reporter for w, enabling colors when w
// is a terminal.
func newConsoleReporter(w io.Writer) *consoleReporter {
	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &consoleReporter{w: w, color: color}
}

func (c *consoleReporter) paint(code, s string) string {
	if !c.color || s == "" {
		return s
	}
	return code + s + ansiReset
}

func (c *consoleReporter) line(code, text, detail string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parts := []string{c.paint(code, text)}
	if detail != "" {
		parts = append(parts, detail)
	}
	fmt.Fprintln(c.w, strings.Join(parts, " "))
}

func (c *consoleReporter) Title(text, detail string) {
	c.line(ansiBold, "\n"+text, detail)
}
func (c *consoleReporter) Log(text, detail string)      { c.line("", text, detail) }
func (c *consoleReporter) Progress(text, detail string) { c.line(ansiCyan, text, detail) }
func (c *consoleReporter) Success(text, detail string)  { c.line(ansiGreen, text, detail) }
func (c *consoleReporter) Warn(text, detail string)     { c.line(ansiYellow, text, detail) }
func (c *consoleReporter) Error(err error)              { c.line(ansiRed, "Error:", err.Error()) }

// multiReporter sends every call to each reporter in order.
type multiReporter []backup.Reporter

func (m multiReporter) Title(text, detail string) {
	for _, r := range m {
		r.Title(text, detail)
	}
}

func (m multiReporter) Log(text, detail string) {
	for _, r := range m {
		r.Log(text, detail)
	}
}

func (m multiReporter) Progress(text, detail string) {
	for _, r := range m {
		r.Progress(text, detail)
	}
}

func (m multiReporter) Success(text, detail string) {
	for _, r := range m {
		r.Success(text, detail)
	}
}

func (m multiReporter) Warn(text, detail string) {
	for _, r := range m {
		r.Warn(text, detail)
	}
}

func (m multiReporter) Error(err error) {
	for _, r := range m {
		r.Error(err)
	}
}

var (
	_ backup.Reporter = (*consoleReporter)(nil)
	_ backup.Reporter = multiReporter(nil)
)

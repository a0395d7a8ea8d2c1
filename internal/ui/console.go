package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"rptconv/pkg/types"

	"github.com/mitchellh/colorstring"
)

var statusStyles = map[types.StatusKind]string{
	types.StatusNeutral: "[cyan]•",
	types.StatusSuccess: "[green][bold]✓",
	types.StatusError:   "[red][bold]✗",
}

// ConsoleUI renders the status line of the current operation
type ConsoleUI struct {
	mu       sync.Mutex
	out      io.Writer
	colorize colorstring.Colorize
	current  types.StatusMessage
}

// NewConsoleUI creates a console UI writing to stdout
func NewConsoleUI() *ConsoleUI {
	return NewConsoleUIWithWriter(os.Stdout, true)
}

// NewConsoleUIWithWriter creates a console UI writing to out
func NewConsoleUIWithWriter(out io.Writer, color bool) *ConsoleUI {
	return &ConsoleUI{
		out: out,
		colorize: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !color,
			Reset:   true,
		},
	}
}

// ReportStatus replaces the displayed status. kind only changes styling.
func (c *ConsoleUI) ReportStatus(message string, kind types.StatusKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = types.StatusMessage{Text: message, Kind: kind}
	fmt.Fprintf(c.out, "%s %s\n", c.colorize.Color(statusStyles[kind]), message)
}

// Current returns the last reported status
func (c *ConsoleUI) Current() types.StatusMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

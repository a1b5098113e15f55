package color

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ANSI color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Bold   = "\033[1m"
)

// Color represents a colorizer that can be enabled or disabled
type Color struct {
	enabled bool
}

// New creates a Color for standard output
func New(enabled bool) *Color {
	return For(os.Stdout, enabled)
}

// For creates a Color for w. Colors are only used when w is a terminal.
func For(w io.Writer, enabled bool) *Color {
	return &Color{enabled: enabled && shouldEnableColor(w)}
}

// Enabled reports whether escape codes are emitted
func (c *Color) Enabled() bool {
	return c.enabled
}

// shouldEnableColor determines if color should be enabled based on environment
func shouldEnableColor(w io.Writer) bool {
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if term := os.Getenv("TERM"); term == "dumb" || term == "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *Color) wrap(code, text string) string {
	if !c.enabled {
		return text
	}
	return code + text + Reset
}

// Add colors a string to indicate created objects
func (c *Color) Add(text string) string { return c.wrap(Green, text) }

// Change colors a string to indicate altered objects
func (c *Color) Change(text string) string { return c.wrap(Yellow, text) }

// Destroy colors a string to indicate dropped objects
func (c *Color) Destroy(text string) string { return c.wrap(Red, text) }

// Bold makes text bold
func (c *Color) Bold(text string) string { return c.wrap(Bold, text) }

// Cyan colors labels
func (c *Color) Cyan(text string) string { return c.wrap(Cyan, text) }

// PlanSymbol returns the symbol of a plan action
func (c *Color) PlanSymbol(action string) string {
	switch action {
	case "create":
		return c.Add("+")
	case "update":
		return c.Change("~")
	case "delete":
		return c.Destroy("-")
	default:
		return " "
	}
}

// FormatSummaryLine formats the counts of one object type
func (c *Color) FormatSummaryLine(objectType string, added, modified, dropped int) string {
	return fmt.Sprintf("  %s: %s", objectType, c.counts(added, modified, dropped))
}

// FormatPlanHeader formats the main plan header
func (c *Color) FormatPlanHeader(added, modified, dropped int) string {
	return fmt.Sprintf("Plan: %s.", c.counts(added, modified, dropped))
}

// counts always shows all three categories, even if zero
func (c *Color) counts(added, modified, dropped int) string {
	parts := []string{
		c.Add(fmt.Sprintf("%d to add", added)),
		c.Change(fmt.Sprintf("%d to modify", modified)),
		c.Destroy(fmt.Sprintf("%d to drop", dropped)),
	}
	return strings.Join(parts, ", ")
}

package common

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const ruleWidth = 60

// Console writes human-facing diagnostic and summary text. Structured events
// go through arbor; this is for the report a person reads at the end.
type Console struct {
	out io.Writer
	mu  sync.Mutex

	passStyle   lipgloss.Style
	failStyle   lipgloss.Style
	warnStyle   lipgloss.Style
	dimStyle    lipgloss.Style
	headerStyle lipgloss.Style
}

// NewConsole writes to stdout
func NewConsole() *Console {
	return NewConsoleWithOutput(os.Stdout)
}

// NewConsoleWithOutput writes to out
func NewConsoleWithOutput(out io.Writer) *Console {
	return &Console{
		out: out,

		passStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"}).
			Bold(true),
		failStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}).
			Bold(true),
		warnStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFAA00"}),
		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
		headerStyle: lipgloss.NewStyle().Bold(true),
	}
}

// Println writes one formatted line
func (c *Console) Println(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Section writes a ruled heading
func (c *Console) Section(title string) {
	rule := strings.Repeat("=", ruleWidth)
	c.Println("\n%s\n%s\n%s", rule, c.headerStyle.Render(title), rule)
}

// Check writes a ✓ or ✗ line
func (c *Console) Check(ok bool, format string, args ...interface{}) {
	mark := c.failStyle.Render("✗")
	if ok {
		mark = c.passStyle.Render("✓")
	}
	c.Println("%s %s", mark, fmt.Sprintf(format, args...))
}

// Hint writes an indented secondary line
func (c *Console) Hint(format string, args ...interface{}) {
	c.Println("  %s", c.dimStyle.Render(fmt.Sprintf(format, args...)))
}

// Warn writes a highlighted warning line
func (c *Console) Warn(format string, args ...interface{}) {
	c.Println("%s", c.warnStyle.Render(fmt.Sprintf(format, args...)))
}

// Status renders a PASS or FAIL label
func (c *Console) Status(ok bool) string {
	if ok {
		return c.passStyle.Render("✓ PASS")
	}
	return c.failStyle.Render("✗ FAIL")
}

// Label renders text in the pass or fail color
func (c *Console) Label(ok bool, text string) string {
	if ok {
		return c.passStyle.Render(text)
	}
	return c.failStyle.Render(text)
}

package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"golang.org/x/term"
)

const DefaultWidth = 100

type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAuto, ColorOn, ColorOff:
		return m, nil
	case "":
		return ColorAuto, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto|on|off)", s)
}

// ApplyColorMode sets fatih/color's global switch. Auto enables color only
// when f is a terminal.
func ApplyColorMode(mode ColorMode, f *os.File) {
	switch mode {
	case ColorOn:
		color.NoColor = false
	case ColorOff:
		color.NoColor = true
	default:
		color.NoColor = !IsTerminal(f)
	}
}

func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of f, or fallback when f is not a terminal.
func Width(f *os.File, fallback int) int {
	if !IsTerminal(f) {
		return fallback
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

type Options struct {
	// Plain skips glamour and returns markdown as-is.
	Plain bool
	// TTY selects the auto style instead of notty.
	TTY   bool
	Width int
}

type Markdown struct {
	tr    *glamour.TermRenderer
	plain bool
}

func NewMarkdown(opts Options) (*Markdown, error) {
	if opts.Plain {
		return &Markdown{plain: true}, nil
	}

	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	style := glamour.WithStandardStyle("notty")
	if opts.TTY {
		style = glamour.WithAutoStyle()
	}

	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Markdown{tr: tr}, nil
}

func (m *Markdown) Plain() bool {
	return m.plain
}

func (m *Markdown) Render(md string) (string, error) {
	if m.plain {
		return md, nil
	}
	out, err := m.tr.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// Status writes one-line colored status messages.
type Status struct {
	out io.Writer
}

func NewStatus(out io.Writer) *Status {
	return &Status{out: out}
}

func (s *Status) Success(format string, args ...any) {
	s.line(successColor, "✅", format, args...)
}

func (s *Status) Warn(format string, args ...any) {
	s.line(warnColor, "⚠️", format, args...)
}

func (s *Status) Error(format string, args ...any) {
	s.line(errorColor, "❌", format, args...)
}

func (s *Status) Info(format string, args ...any) {
	s.line(infoColor, "ℹ️", format, args...)
}

func (s *Status) line(c *color.Color, icon, format string, args ...any) {
	fmt.Fprintln(s.out, c.Sprintf("%s %s", icon, fmt.Sprintf(format, args...)))
}

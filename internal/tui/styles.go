package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true).
			Underline(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// ConfigureColor applies the color mode ("auto", "always" or "never") to
// f's renderer and reports whether output to f should be styled.
func ConfigureColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
		return true
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
		return false
	}
	fd := f.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return true
	}
	lipgloss.SetColorProfile(termenv.Ascii)
	return false
}

// Highlight styles a rendered text report line by line.
func Highlight(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = highlightLine(line)
	}
	return strings.Join(lines, "\n")
}

func highlightLine(line string) string {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return line
	case line == "Sumar comparativ:":
		return titleStyle.Render(line)
	case strings.HasPrefix(trimmed, "Total general:"):
		return successStyle.Render(line)
	case strings.HasPrefix(trimmed, "Total perioadă:"):
		return highlightStyle.Render(line)
	case trimmed == "Săptămâni:" || trimmed == "Zile:":
		return dimStyle.Render(line)
	case !strings.HasPrefix(line, " "):
		return titleStyle.Render(line)
	case hasOvertime(line):
		return warningStyle.Render(line)
	}
	return line
}

// hasOvertime reports whether a week or day line shows non-zero overtime.
func hasOvertime(line string) bool {
	return strings.Contains(line, "Supl: ") &&
		!strings.Contains(line, "Supl: 0 h 00 m") &&
		!strings.Contains(line, "Supl: 0.00 h")
}

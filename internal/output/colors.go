package output

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// palette renders the level prefix of a diagnostic line, colored when the
// target is a terminal that supports it
type palette struct {
	enabled bool
	info    lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	debug   lipgloss.Style
}

func newPalette(writer *os.File) *palette {
	enabled := isatty.IsTerminal(writer.Fd()) && termenv.EnvColorProfile() != termenv.Ascii
	return &palette{
		enabled: enabled,
		info:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		debug:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (p *palette) render(level slog.Level) string {
	var prefix string
	var style lipgloss.Style

	switch {
	case level >= slog.LevelError:
		prefix, style = "error:", p.err
	case level >= slog.LevelWarn:
		prefix, style = "warning:", p.warning
	case level >= slog.LevelInfo:
		prefix, style = "info:", p.info
	default:
		prefix, style = "debug:", p.debug
	}

	if !p.enabled {
		return prefix
	}
	return style.Render(prefix)
}

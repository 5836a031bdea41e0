package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// NoColor reports whether colored output is disabled through NO_COLOR
// (https://no-color.org/).
func NoColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

var (
	ColorSuccess = lipgloss.Color("#2ECC71")
	ColorWarning = lipgloss.Color("#F39C12")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#95A5A6")
	ColorAccent  = lipgloss.Color("#9B59B6")
)

var (
	StyleBold    = lipgloss.NewStyle().Bold(true)
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// plainStyles strips level colors for NO_COLOR mode.
func plainStyles() *log.Styles {
	styles := log.DefaultStyles()
	for level := range styles.Levels {
		styles.Levels[level] = styles.Levels[level].UnsetForeground().UnsetBackground()
	}
	return styles
}

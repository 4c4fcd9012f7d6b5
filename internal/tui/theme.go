package tui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TermTheme holds the colors used for terminal output.
type TermTheme struct {
	Name string

	Accent  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Primary lipgloss.Color
	Dim     lipgloss.Color
}

// DarkTheme is the default dark terminal theme.
var DarkTheme = TermTheme{
	Name:    "dark",
	Accent:  lipgloss.Color("#f97316"),
	Success: lipgloss.Color("#22c55e"),
	Error:   lipgloss.Color("#ef4444"),
	Primary: lipgloss.Color("#e0e0e8"),
	Dim:     lipgloss.Color("#5a5a70"),
}

// LightTheme is the light terminal theme.
var LightTheme = TermTheme{
	Name:    "light",
	Accent:  lipgloss.Color("#c2410c"),
	Success: lipgloss.Color("#15803d"),
	Error:   lipgloss.Color("#b91c1c"),
	Primary: lipgloss.Color("#0f172a"),
	Dim:     lipgloss.Color("#4b5563"),
}

// DetectTheme returns the theme named by the flag, then COMMITMIRROR_THEME,
// then the COLORFGBG hint, defaulting to dark.
func DetectTheme(flagVal string) TermTheme {
	if t, ok := themeByName(flagVal); ok {
		return t
	}
	if t, ok := themeByName(os.Getenv("COMMITMIRROR_THEME")); ok {
		return t
	}

	// COLORFGBG is "fg;bg"; 7 and 15 are light backgrounds.
	if colorfgbg := os.Getenv("COLORFGBG"); colorfgbg != "" {
		parts := strings.Split(colorfgbg, ";")
		if bg := parts[len(parts)-1]; len(parts) >= 2 && (bg == "15" || bg == "7") {
			return LightTheme
		}
	}
	return DarkTheme
}

func themeByName(name string) (TermTheme, bool) {
	switch strings.ToLower(name) {
	case "dark":
		return DarkTheme, true
	case "light":
		return LightTheme, true
	}
	return TermTheme{}, false
}

// StyleSet holds lipgloss styles derived from a theme for one output.
type StyleSet struct {
	Theme TermTheme

	Title      lipgloss.Style
	AccentTxt  lipgloss.Style
	DimTxt     lipgloss.Style
	SuccessTxt lipgloss.Style
	ErrorTxt   lipgloss.Style
	PrimaryTxt lipgloss.Style
}

// NewStyleSet creates styles for w. Colors are dropped automatically when w
// is not a color-capable terminal.
func NewStyleSet(theme TermTheme, w io.Writer) *StyleSet {
	r := lipgloss.NewRenderer(w)
	return &StyleSet{
		Theme:      theme,
		Title:      r.NewStyle().Foreground(theme.Accent).Bold(true),
		AccentTxt:  r.NewStyle().Foreground(theme.Accent),
		DimTxt:     r.NewStyle().Foreground(theme.Dim),
		SuccessTxt: r.NewStyle().Foreground(theme.Success),
		ErrorTxt:   r.NewStyle().Foreground(theme.Error).Bold(true),
		PrimaryTxt: r.NewStyle().Foreground(theme.Primary),
	}
}

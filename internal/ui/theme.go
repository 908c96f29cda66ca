package ui

import (
	"sort"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/ktopo/internal/topology"
)

// Theme defines the color scheme and styles for the TUI
type Theme struct {
	Name string

	Primary    lipgloss.AdaptiveColor
	Secondary  lipgloss.AdaptiveColor
	Accent     lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Error      lipgloss.AdaptiveColor
	Success    lipgloss.AdaptiveColor
	Warning    lipgloss.AdaptiveColor
	Border     lipgloss.AdaptiveColor
	Background lipgloss.AdaptiveColor

	Table  table.Styles
	Header lipgloss.Style
	Help   lipgloss.Style
}

// palette is the raw color set of a theme; pairs are {light, dark}
type palette struct {
	primary, secondary, accent, foreground, muted [2]string
	errorColor, success, warning, border, bg      [2]string
	selectedFg, selectedBg                        string
}

var palettes = map[string]palette{
	"charm": {
		primary: [2]string{"#5A56E0", "#7571F9"}, secondary: [2]string{"#02BA84", "#02BF87"},
		accent: [2]string{"#F780E2", "#F780E2"}, foreground: [2]string{"235", "252"},
		muted: [2]string{"243", "243"}, errorColor: [2]string{"#FF4672", "#ED567A"},
		success: [2]string{"#02BA84", "#02BF87"}, warning: [2]string{"#FFAA00", "#FFAA00"},
		border: [2]string{"240", "240"}, bg: [2]string{"254", "235"},
		selectedFg: "229", selectedBg: "57",
	},
	"dracula": {
		primary: [2]string{"#bd93f9", "#bd93f9"}, secondary: [2]string{"#8be9fd", "#8be9fd"},
		accent: [2]string{"#ff79c6", "#ff79c6"}, foreground: [2]string{"#282a36", "#f8f8f2"},
		muted: [2]string{"#6272a4", "#6272a4"}, errorColor: [2]string{"#ff5555", "#ff5555"},
		success: [2]string{"#50fa7b", "#50fa7b"}, warning: [2]string{"#f1fa8c", "#f1fa8c"},
		border: [2]string{"61", "61"}, bg: [2]string{"#f8f8f2", "#282a36"},
		selectedFg: "#282a36", selectedBg: "#bd93f9",
	},
	"catppuccin": {
		primary: [2]string{"#8839ef", "#cba6f7"}, secondary: [2]string{"#179299", "#89dceb"},
		accent: [2]string{"#ea76cb", "#f5c2e7"}, foreground: [2]string{"#4c4f69", "#cdd6f4"},
		muted: [2]string{"#9ca0b0", "#7f849c"}, errorColor: [2]string{"#d20f39", "#f38ba8"},
		success: [2]string{"#40a02b", "#a6e3a1"}, warning: [2]string{"#df8e1d", "#f9e2af"},
		border: [2]string{"#9ca0b0", "#45475a"}, bg: [2]string{"#eff1f5", "#1e1e2e"},
		selectedFg: "#1e1e2e", selectedBg: "#cba6f7",
	},
	"nord": {
		primary: [2]string{"#5e81ac", "#88c0d0"}, secondary: [2]string{"#81a1c1", "#81a1c1"},
		accent: [2]string{"#b48ead", "#b48ead"}, foreground: [2]string{"#2e3440", "#eceff4"},
		muted: [2]string{"#4c566a", "#4c566a"}, errorColor: [2]string{"#bf616a", "#bf616a"},
		success: [2]string{"#a3be8c", "#a3be8c"}, warning: [2]string{"#ebcb8b", "#ebcb8b"},
		border: [2]string{"#d8dee9", "#3b4252"}, bg: [2]string{"#eceff4", "#2e3440"},
		selectedFg: "#2e3440", selectedBg: "#88c0d0",
	},
	"gruvbox": {
		primary: [2]string{"#af3a03", "#fe8019"}, secondary: [2]string{"#79740e", "#b8bb26"},
		accent: [2]string{"#b16286", "#d3869b"}, foreground: [2]string{"#3c3836", "#ebdbb2"},
		muted: [2]string{"#7c6f64", "#928374"}, errorColor: [2]string{"#9d0006", "#fb4934"},
		success: [2]string{"#79740e", "#b8bb26"}, warning: [2]string{"#b57614", "#fabd2f"},
		border: [2]string{"#d5c4a1", "#504945"}, bg: [2]string{"#fbf1c7", "#282828"},
		selectedFg: "#282828", selectedBg: "#fe8019",
	},
}

const defaultTheme = "charm"

func adaptive(c [2]string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: c[0], Dark: c[1]}
}

func newTheme(name string, p palette) *Theme {
	t := &Theme{
		Name:       name,
		Primary:    adaptive(p.primary),
		Secondary:  adaptive(p.secondary),
		Accent:     adaptive(p.accent),
		Foreground: adaptive(p.foreground),
		Muted:      adaptive(p.muted),
		Error:      adaptive(p.errorColor),
		Success:    adaptive(p.success),
		Warning:    adaptive(p.warning),
		Border:     adaptive(p.border),
		Background: adaptive(p.bg),
	}

	t.Table = table.Styles{
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(t.Border).
			BorderBottom(true).
			Foreground(t.Primary).
			PaddingLeft(1).
			PaddingRight(1),
		Cell: lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.selectedFg)).
			Background(lipgloss.Color(p.selectedBg)),
	}
	t.Header = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	t.Help = lipgloss.NewStyle().Foreground(t.Muted)
	return t
}

// GetTheme returns a theme by name, defaulting to charm
func GetTheme(name string) *Theme {
	p, ok := palettes[name]
	if !ok {
		name = defaultTheme
		p = palettes[defaultTheme]
	}
	return newTheme(name, p)
}

// AvailableThemes returns the theme names, sorted
func AvailableThemes() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StatusStyle colors a pod or rollup status
func (t *Theme) StatusStyle(status string) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch status {
	case topology.StatusFailed, topology.StatusCrashLoopBackOff, topology.StatusWarning:
		return style.Foreground(t.Error)
	case topology.StatusPending, topology.StatusNotReady, topology.StatusTerminating:
		return style.Foreground(t.Warning)
	case topology.StatusRunning, topology.StatusSucceeded:
		return style.Foreground(t.Success)
	default:
		return style.Foreground(t.Muted)
	}
}

package screens

import (
	"github.com/renato0307/ktopo/internal/keyboard"
	"github.com/renato0307/ktopo/internal/pipeline"
	"github.com/renato0307/ktopo/internal/types"
)

// HelpEntry represents a keyboard shortcut entry
type HelpEntry struct {
	Section     string
	Shortcut    string
	Description string
}

// helpEntries returns the shortcuts organized by section
func helpEntries(keys *keyboard.Keys) []HelpEntry {
	return []HelpEntry{
		{"Navigation", keys.FilterActivate, "Filter current list (prefix ! to negate)"},
		{"Navigation", keys.Back, "Back/clear filter"},
		{"Navigation", "↑/↓ or " + keys.Up + "/" + keys.Down, "Move selection up/down"},
		{"Navigation", keys.JumpTop, "Jump to top of list"},
		{"Navigation", keys.JumpBottom, "Jump to bottom of list"},
		{"Navigation", keys.NextScreen, "Cycle nodes, edges and groups"},
		{"Navigation", keys.ScreenPicker, "Pick a screen"},

		{"Nodes", keys.YAML, "View YAML"},
		{"Nodes", keys.Describe, "Describe selected resource"},
		{"Nodes", keys.CopyURL, "Copy route URL"},
		{"Nodes", keys.CopyEdit, "Copy edit URL"},
		{"Nodes", keys.ToggleEventSources, "Show/hide event sources"},
		{"Nodes", keys.ToggleKnativeServices, "Show/hide knative services"},

		{"Global", keys.Refresh, "Refresh now"},
		{"Global", keys.Help, "Show this help"},
		{"Global", keys.Quit + " or q", "Quit application"},
	}
}

// NewHelpScreen lists the keyboard shortcuts
func NewHelpScreen(ctx *types.AppContext) *TableScreen {
	entries := helpEntries(ctx.Keys)
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Key: e.Section + e.Shortcut, Cells: []string{e.Section, e.Shortcut, e.Description}}
	}

	s := NewTableScreen(
		HelpScreenID,
		"Help - Keyboard Shortcuts",
		"esc: back • /: filter",
		[]Column{
			{Title: "Section", Width: 12},
			{Title: "Shortcut", Width: 16},
			{Title: "Description", Width: 0},
		},
		func(*pipeline.Result) []Row { return rows },
		ctx.Theme,
	)
	s.SetRows(rows)
	return s
}

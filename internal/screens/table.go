package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/renato0307/ktopo/internal/pipeline"
	"github.com/renato0307/ktopo/internal/types"
	"github.com/renato0307/ktopo/internal/ui"
)

// Column defines a table column
type Column struct {
	Title string
	Width int // 0 = dynamic (fills remaining space)
}

// Row is one table entry
type Row struct {
	// Key identifies the entry across refreshes, e.g. a node UID
	Key   string
	Cells []string
}

// RowsFunc builds the rows of a screen from a pipeline run
type RowsFunc func(result *pipeline.Result) []Row

// TableScreen is a fuzzy filtered list of rows that keeps the selection on
// the same key across refreshes
type TableScreen struct {
	id       string
	title    string
	help     string
	columns  []Column
	rowsFunc RowsFunc

	table    table.Model
	rows     []Row
	filtered []Row
	filter   string
	theme    *ui.Theme
	width    int
	height   int

	selectedKey string
}

// NewTableScreen creates a table screen
func NewTableScreen(id, title, help string, columns []Column, rowsFunc RowsFunc, theme *ui.Theme) *TableScreen {
	cols := make([]table.Column, len(columns))
	for i, col := range columns {
		cols[i] = table.Column{Title: col.Title, Width: col.Width}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(theme.Table)

	return &TableScreen{
		id:       id,
		title:    title,
		help:     help,
		columns:  columns,
		rowsFunc: rowsFunc,
		table:    t,
		theme:    theme,
	}
}

func (s *TableScreen) ID() string {
	return s.id
}

func (s *TableScreen) Title() string {
	return s.title
}

func (s *TableScreen) HelpText() string {
	return s.help
}

func (s *TableScreen) Init() tea.Cmd {
	return nil
}

func (s *TableScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return s, s.update(msg)
}

// update is shared with the screens embedding TableScreen
func (s *TableScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case types.RefreshCompleteMsg:
		s.SetRows(s.rowsFunc(msg.Result))
		return nil

	case types.FilterUpdateMsg:
		s.SetFilter(msg.Filter)
		return nil

	case types.ClearFilterMsg:
		s.SetFilter("")
		return nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		s.table, cmd = s.table.Update(msg)
		s.updateSelectedKey()
		return cmd
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (s *TableScreen) View() string {
	return s.table.View()
}

// SetSize updates dimensions and recalculates dynamic column widths
func (s *TableScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.table.SetHeight(height)

	fixedTotal := 0
	dynamicCount := 0
	for _, col := range s.columns {
		if col.Width > 0 {
			fixedTotal += col.Width
		} else {
			dynamicCount++
		}
	}

	// cell padding is one space on each side
	padding := len(s.columns) * 2
	dynamicWidth := minDynamicWidth
	if dynamicCount > 0 {
		dynamicWidth = max(minDynamicWidth, (width-fixedTotal-padding)/dynamicCount)
	}

	columns := make([]table.Column, len(s.columns))
	for i, col := range s.columns {
		w := col.Width
		if w == 0 {
			w = dynamicWidth
		}
		columns[i] = table.Column{Title: col.Title, Width: w}
	}

	s.table.SetColumns(columns)
	s.table.SetWidth(width)
}

// SetRows replaces the rows and re-applies the filter
func (s *TableScreen) SetRows(rows []Row) {
	s.rows = rows
	s.applyFilter()
	s.restoreCursorPosition()
}

// SetFilter applies a fuzzy filter; a leading ! keeps the rows that do not match
func (s *TableScreen) SetFilter(filter string) {
	s.filter = filter
	s.applyFilter()
	s.restoreCursorPosition()
}

// Rows returns the rows currently shown
func (s *TableScreen) Rows() []Row {
	return s.filtered
}

// Selected returns the row under the cursor
func (s *TableScreen) Selected() (Row, bool) {
	cursor := s.table.Cursor()
	if cursor < 0 || cursor >= len(s.filtered) {
		return Row{}, false
	}
	return s.filtered[cursor], true
}

func (s *TableScreen) applyFilter() {
	if s.filter == "" {
		s.filtered = s.rows
		s.updateTable()
		return
	}

	searchStrings := make([]string, len(s.rows))
	for i, row := range s.rows {
		searchStrings[i] = strings.ToLower(strings.Join(row.Cells, " "))
	}

	if negate, ok := strings.CutPrefix(s.filter, "!"); ok {
		matchSet := make(map[int]bool)
		for _, m := range fuzzy.Find(strings.ToLower(negate), searchStrings) {
			matchSet[m.Index] = true
		}

		s.filtered = make([]Row, 0, len(s.rows))
		for i, row := range s.rows {
			if !matchSet[i] {
				s.filtered = append(s.filtered, row)
			}
		}
	} else {
		matches := fuzzy.Find(strings.ToLower(s.filter), searchStrings)
		s.filtered = make([]Row, len(matches))
		for i, m := range matches {
			s.filtered[i] = s.rows[m.Index]
		}
	}

	s.updateTable()
}

func (s *TableScreen) updateTable() {
	rows := make([]table.Row, len(s.filtered))
	for i, row := range s.filtered {
		rows[i] = table.Row(row.Cells)
	}
	s.table.SetRows(rows)
	if s.table.Cursor() >= len(rows) {
		s.table.SetCursor(max(0, len(rows)-1))
	}
}

func (s *TableScreen) updateSelectedKey() {
	if row, ok := s.Selected(); ok {
		s.selectedKey = row.Key
	}
}

// restoreCursorPosition moves the cursor back to the previously selected key
func (s *TableScreen) restoreCursorPosition() {
	if s.selectedKey == "" {
		return
	}
	for i, row := range s.filtered {
		if row.Key == s.selectedKey {
			s.table.SetCursor(i)
			return
		}
	}
}

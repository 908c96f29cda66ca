package types

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScreen struct {
	id string
}

func (s stubScreen) Init() tea.Cmd                       { return nil }
func (s stubScreen) Update(tea.Msg) (tea.Model, tea.Cmd) { return s, nil }
func (s stubScreen) View() string                        { return s.id }
func (s stubScreen) ID() string                          { return s.id }
func (s stubScreen) Title() string                       { return s.id }
func (s stubScreen) HelpText() string                    { return "" }

func TestScreenRegistry(t *testing.T) {
	r := NewScreenRegistry()

	_, ok := r.Next("nodes")
	assert.False(t, ok)

	r.Register(stubScreen{id: "nodes"})
	r.Register(stubScreen{id: "edges"})
	r.Register(stubScreen{id: "groups"})
	r.Register(stubScreen{id: "edges"})

	require.Len(t, r.All(), 3)
	assert.Equal(t, "edges", r.All()[1].ID())

	s, ok := r.Get("groups")
	require.True(t, ok)
	assert.Equal(t, "groups", s.ID())

	_, ok = r.Get("pods")
	assert.False(t, ok)

	next, ok := r.Next("nodes")
	require.True(t, ok)
	assert.Equal(t, "edges", next.ID())

	next, _ = r.Next("groups")
	assert.Equal(t, "nodes", next.ID())

	next, _ = r.Next("unknown")
	assert.Equal(t, "nodes", next.ID())
}

func TestStatusHelpers(t *testing.T) {
	assert.Equal(t, StatusMsg{Message: "a", Type: MessageTypeInfo}, InfoMsg("a"))
	assert.Equal(t, StatusMsg{Message: "b", Type: MessageTypeSuccess}, SuccessMsg("b"))
	assert.Equal(t, StatusMsg{Message: "c", Type: MessageTypeError}, ErrorStatusMsg("c"))
}

func TestDetailKind(t *testing.T) {
	assert.Equal(t, "YAML", DetailYAML.String())
	assert.Equal(t, "Describe", DetailDescribe.String())
}

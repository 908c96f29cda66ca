package types

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/ktopo/internal/pipeline"
)

// Screen represents a view in the application
type Screen interface {
	tea.Model
	ID() string
	Title() string
	HelpText() string
}

// ScreenWithSize is implemented by screens that lay themselves out
type ScreenWithSize interface {
	SetSize(width, height int)
}

// ScreenRegistry manages available screens
type ScreenRegistry struct {
	screens map[string]Screen
	order   []string
}

func NewScreenRegistry() *ScreenRegistry {
	return &ScreenRegistry{
		screens: make(map[string]Screen),
		order:   []string{},
	}
}

func (r *ScreenRegistry) Register(screen Screen) {
	id := screen.ID()
	if _, exists := r.screens[id]; !exists {
		r.order = append(r.order, id)
	}
	r.screens[id] = screen
}

func (r *ScreenRegistry) Get(id string) (Screen, bool) {
	screen, ok := r.screens[id]
	return screen, ok
}

func (r *ScreenRegistry) All() []Screen {
	result := make([]Screen, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.screens[id])
	}
	return result
}

// Next returns the screen registered after id, wrapping around
func (r *ScreenRegistry) Next(id string) (Screen, bool) {
	if len(r.order) == 0 {
		return nil, false
	}
	for i, sid := range r.order {
		if sid == id {
			return r.screens[r.order[(i+1)%len(r.order)]], true
		}
	}
	return r.screens[r.order[0]], true
}

// AppState holds shared application state
type AppState struct {
	CurrentScreen string
	LastRefresh   time.Time
	RefreshTime   time.Duration
	Width         int
	Height        int
}

// Messages

type ScreenSwitchMsg struct {
	ScreenID string
}

// RefreshTickMsg asks for a new pipeline run
type RefreshTickMsg time.Time

// RefreshRequestMsg asks for an immediate run outside the tick schedule
type RefreshRequestMsg struct{}

// RefreshCompleteMsg carries a finished pipeline run to every screen
type RefreshCompleteMsg struct {
	Result *pipeline.Result
}

// MessageType defines the type of status message
type MessageType int

const (
	MessageTypeInfo MessageType = iota
	MessageTypeSuccess
	MessageTypeError
)

type StatusMsg struct {
	Message string
	Type    MessageType
}

type ClearStatusMsg struct {
	MessageID int // Only clear if this matches the current message ID
}

// InfoMsg creates an info status message
func InfoMsg(message string) StatusMsg {
	return StatusMsg{Message: message, Type: MessageTypeInfo}
}

// SuccessMsg creates a success status message
func SuccessMsg(message string) StatusMsg {
	return StatusMsg{Message: message, Type: MessageTypeSuccess}
}

// ErrorStatusMsg creates an error status message
func ErrorStatusMsg(message string) StatusMsg {
	return StatusMsg{Message: message, Type: MessageTypeError}
}

type FilterUpdateMsg struct {
	Filter string
}

type ClearFilterMsg struct{}

// DetailKind is the kind of content a detail view shows
type DetailKind int

const (
	DetailYAML DetailKind = iota
	DetailDescribe
)

func (k DetailKind) String() string {
	if k == DetailDescribe {
		return "Describe"
	}
	return "YAML"
}

// ShowDetailMsg opens the full-screen detail view
type ShowDetailMsg struct {
	Kind    DetailKind
	Name    string
	Content string
}

// ExitDetailMsg returns from the detail view to the list
type ExitDetailMsg struct{}

// ClosePickerMsg closes the screen picker without switching
type ClosePickerMsg struct{}

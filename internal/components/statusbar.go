package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/ktopo/internal/types"
	"github.com/renato0307/ktopo/internal/ui"
)

// StatusBar displays status messages (success, errors, info)
type StatusBar struct {
	message     string
	messageType types.MessageType
	messageID   int
	width       int
	theme       *ui.Theme
}

// NewStatusBar creates a new status bar
func NewStatusBar(theme *ui.Theme) *StatusBar {
	return &StatusBar{
		theme: theme,
	}
}

// SetMessage sets the status message and returns its ID; pass the ID to
// ClearMessage so a newer message is not cleared by an older timer
func (sb *StatusBar) SetMessage(msg string, msgType types.MessageType) int {
	sb.messageID++
	sb.message = msg
	sb.messageType = msgType
	return sb.messageID
}

// ClearMessage clears the message if id is still the current one
func (sb *StatusBar) ClearMessage(id int) {
	if id != sb.messageID {
		return
	}
	sb.message = ""
	sb.messageType = types.MessageTypeInfo
}

// Message returns the current message
func (sb *StatusBar) Message() string {
	return sb.message
}

// SetWidth sets the status bar width
func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// GetHeight returns the height (always 1 line to reserve space)
func (sb *StatusBar) GetHeight() int {
	return 1
}

// View renders the status bar
func (sb *StatusBar) View() string {
	baseStyle := lipgloss.NewStyle().
		Width(sb.width).
		Padding(0, 1)

	if sb.message == "" {
		return baseStyle.Render("")
	}

	background := sb.theme.Primary
	prefix := "ℹ "
	switch sb.messageType {
	case types.MessageTypeSuccess:
		background = sb.theme.Success
		prefix = "✓ "
	case types.MessageTypeError:
		background = sb.theme.Error
		prefix = "✗ "
	}

	return baseStyle.
		Background(background).
		Foreground(sb.theme.Background).
		Bold(true).
		Render(prefix + sb.message)
}

package types

import (
	"github.com/renato0307/ktopo/internal/commands"
	"github.com/renato0307/ktopo/internal/keyboard"
	"github.com/renato0307/ktopo/internal/pipeline"
	"github.com/renato0307/ktopo/internal/ui"
)

// AppContext holds app-wide configuration and dependencies
type AppContext struct {
	Theme    *ui.Theme
	Pipeline *pipeline.Pipeline
	Keys     *keyboard.Keys
	Copy     commands.CopyFunc
	// Context is the kubeconfig context name shown in the header
	Context string
}

// NewAppContext creates a new application context with the default keys and
// the system clipboard
func NewAppContext(theme *ui.Theme, p *pipeline.Pipeline, contextName string) *AppContext {
	return &AppContext{
		Theme:    theme,
		Pipeline: p,
		Keys:     keyboard.Default(),
		Copy:     commands.SystemClipboard,
		Context:  contextName,
	}
}

// Package commands holds the side effects the TUI triggers outside itself
package commands

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// CopyFunc writes text somewhere the user can paste it from
type CopyFunc func(text string) error

// SystemClipboard is the CopyFunc backed by the OS clipboard
func SystemClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// CopyToClipboard copies text and returns a user-friendly message
func CopyToClipboard(copyFn CopyFunc, what, text string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("no %s to copy", what)
	}
	if err := copyFn(text); err != nil {
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return fmt.Sprintf("Copied %s to clipboard: %s", what, text), nil
}

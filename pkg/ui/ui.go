// Package ui renders command outcomes as rich terminal output, plain text
// or JSON.
package ui

import (
	"io"
	"os"
	"sort"

	"github.com/arthur-debert/postgen/pkg/errors"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderSummary renders the outcome of a command
	RenderSummary(s *Summary) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format. FormatAuto inspects output
// when it is a file and otherwise falls back to the terminal renderer.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatTerminal, output)
	case FormatTerminal:
		return NewTerminalRenderer(output, DefaultStyles()), nil
	case FormatText:
		return NewTextRenderer(output), nil
	case FormatJSON:
		return NewJSONRenderer(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

// sortedDetails returns an error's details keys in a stable order
func sortedDetails(err error) ([]string, map[string]interface{}) {
	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, details
}

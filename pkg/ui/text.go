package ui

import (
	"fmt"
	"io"
	"strings"
)

// TextRenderer renders plain text for pipes and NO_COLOR terminals
type TextRenderer struct {
	output io.Writer
}

// NewTextRenderer creates a plain text renderer
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{output: w}
}

func (r *TextRenderer) RenderSummary(s *Summary) error {
	var b strings.Builder
	b.WriteString(s.Title + "\n")
	for _, item := range s.Items {
		fmt.Fprintf(&b, "  [%s] %s: %s\n", item.Status, item.Label, item.Value)
	}
	if s.NextSteps != "" {
		b.WriteString("\n" + s.NextSteps)
		if !strings.HasSuffix(s.NextSteps, "\n") {
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

func (r *TextRenderer) RenderError(err error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", err.Error())
	keys, details := sortedDetails(err)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %v\n", k, details[k])
	}
	_, werr := io.WriteString(r.output, b.String())
	return werr
}

func (r *TextRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

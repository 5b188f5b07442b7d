package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// TerminalRenderer renders styled output for interactive terminals
type TerminalRenderer struct {
	output io.Writer
	styles Styles
	// Width wraps the next steps markdown, 0 keeps glamour's default
	Width int
}

// NewTerminalRenderer creates a terminal renderer using styles
func NewTerminalRenderer(w io.Writer, styles Styles) *TerminalRenderer {
	return &TerminalRenderer{output: w, styles: styles, Width: 80}
}

func (r *TerminalRenderer) RenderSummary(s *Summary) error {
	var b strings.Builder
	b.WriteString(r.styles.Get("Header").Render(s.Title))
	b.WriteString("\n")

	for _, item := range s.Items {
		fmt.Fprintf(&b, "%s %s %s\n",
			prefix(item.Status),
			r.styles.Get("Label").Render(item.Label),
			r.valueStyle(item.Status).Render(item.Value))
	}

	if s.NextSteps != "" {
		b.WriteString("\n")
		b.WriteString(r.markdown(s.NextSteps))
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

func (r *TerminalRenderer) RenderError(err error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n",
		pterm.Error.Prefix.Style.Sprint(" "+pterm.Error.Prefix.Text+" "),
		r.styles.Get("Error").Render(err.Error()))

	keys, details := sortedDetails(err)
	for _, k := range keys {
		b.WriteString(r.styles.Get("Detail").Render(fmt.Sprintf("%s: %v", k, details[k])))
		b.WriteString("\n")
	}

	_, werr := io.WriteString(r.output, b.String())
	return werr
}

func (r *TerminalRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintf(r.output, "%s %s\n",
		pterm.Info.Prefix.Style.Sprint(" "+pterm.Info.Prefix.Text+" "), msg)
	return err
}

func (r *TerminalRenderer) valueStyle(status Status) lipgloss.Style {
	switch status {
	case StatusWarning:
		return r.styles.Get("Warning")
	case StatusFailed:
		return r.styles.Get("Error")
	case StatusSkipped:
		return r.styles.Get("Muted")
	default:
		return r.styles.Get("Value")
	}
}

// markdown renders content with glamour, returning it unchanged on error
func (r *TerminalRenderer) markdown(content string) string {
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

func prefix(status Status) string {
	printer := pterm.Success
	switch status {
	case StatusWarning:
		printer = pterm.Warning
	case StatusFailed:
		printer = pterm.Error
	case StatusSkipped:
		printer = pterm.Info
	}
	return printer.Prefix.Style.Sprint(" " + printer.Prefix.Text + " ")
}

package ui

import (
	_ "embed"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/postgen/pkg/errors"
)

//go:embed theme.yaml
var defaultTheme []byte

// ColorDef is an adaptive color definition
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style definition in the theme file
type StyleDef struct {
	Bold         bool   `yaml:"bold,omitempty"`
	Italic       bool   `yaml:"italic,omitempty"`
	Underline    bool   `yaml:"underline,omitempty"`
	Foreground   string `yaml:"foreground,omitempty"`
	Background   string `yaml:"background,omitempty"`
	Width        int    `yaml:"width,omitempty"`
	MarginBottom int    `yaml:"marginBottom,omitempty"`
	PaddingLeft  int    `yaml:"paddingLeft,omitempty"`
}

// Theme is the parsed theme file
type Theme struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Styles maps semantic names to lipgloss styles
type Styles map[string]lipgloss.Style

// Get returns the named style, or an unstyled one
func (s Styles) Get(name string) lipgloss.Style {
	if style, ok := s[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// DefaultStyles builds the styles of the embedded theme
func DefaultStyles() Styles {
	styles, err := ParseTheme(defaultTheme)
	if err != nil {
		panic("embedded theme is invalid: " + err.Error())
	}
	return styles
}

// ParseTheme builds styles from YAML theme data
func ParseTheme(data []byte) (Styles, error) {
	var theme Theme
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to parse theme")
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(theme.Colors))
	for name, def := range theme.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	styles := make(Styles, len(theme.Styles))
	for name, def := range theme.Styles {
		styles[name] = buildStyle(def, colors)
	}
	return styles, nil
}

func buildStyle(def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := lipgloss.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}

	if color, ok := colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if color, ok := colors[def.Background]; ok {
		style = style.Background(color)
	}

	if def.Width > 0 {
		style = style.Width(def.Width)
	}
	if def.MarginBottom > 0 {
		style = style.MarginBottom(def.MarginBottom)
	}
	if def.PaddingLeft > 0 {
		style = style.PaddingLeft(def.PaddingLeft)
	}
	return style
}

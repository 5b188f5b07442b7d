package ui

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/postgen/pkg/errors"
)

// FormatEnv overrides the output format when --format is left at auto
const FormatEnv = "POSTGEN_FORMAT"

// Format is the output format of a renderer
type Format int

const (
	// FormatAuto resolves to terminal or text from the output's capabilities
	FormatAuto Format = iota
	// FormatTerminal renders styled terminal output
	FormatTerminal
	// FormatText renders plain text
	FormatText
	// FormatJSON renders machine-readable JSON
	FormatJSON
)

var formatNames = []string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
	FormatJSON:     "json",
}

var formatAliases = map[string]Format{
	"":         FormatAuto,
	"terminal": FormatTerminal,
	"plain":    FormatText,
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f]
}

// ParseFormat accepts a format name or alias, case-insensitively
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for f, name := range formatNames {
		if name == key {
			return Format(f), nil
		}
	}
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s).
		WithDetail("format", s)
}

// SelectFormat resolves the --format flag value. An explicit flag wins;
// auto or empty defers to POSTGEN_FORMAT when it is set.
func SelectFormat(flag string) (Format, error) {
	f, err := ParseFormat(flag)
	if err != nil || f != FormatAuto {
		return f, err
	}
	env, ok := os.LookupEnv(FormatEnv)
	if !ok {
		return FormatAuto, nil
	}
	f, err = ParseFormat(env)
	if err != nil {
		return FormatAuto, errors.Wrapf(err, errors.ErrInvalidInput, "invalid %s", FormatEnv)
	}
	return f, nil
}

// DetectFormat picks terminal output only for a color-capable terminal.
// NO_COLOR and TERM=dumb force plain text.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/postgen/pkg/bootstrap"
	"github.com/arthur-debert/postgen/pkg/envfile"
	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/iderules"
	"github.com/arthur-debert/postgen/pkg/promote"
	"github.com/arthur-debert/postgen/pkg/setup"
	"github.com/arthur-debert/postgen/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSetup() *setup.Result {
	return &setup.Result{
		ProjectDir:     "/work/proj",
		Env:            envfile.OutcomeKeyWritten,
		Rules:          &iderules.Result{Removed: []string{".windsurfrules"}},
		Bootstrap:      &bootstrap.Result{VenvCreated: true, Installed: true},
		ActivationHint: "source venv/bin/activate",
	}
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name        string
		format      ui.Format
		expectError bool
	}{
		{name: "terminal", format: ui.FormatTerminal},
		{name: "text", format: ui.FormatText},
		{name: "json", format: ui.FormatJSON},
		{name: "auto with buffer", format: ui.FormatAuto},
		{name: "invalid format", format: ui.Format(999), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer, err := ui.NewRenderer(tt.format, &bytes.Buffer{})
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, renderer)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, renderer)
		})
	}
}

func TestSummarizeSetup(t *testing.T) {
	s := ui.SummarizeSetup(sampleSetup(), "None")

	assert.Equal(t, "Project setup completed", s.Title)
	assert.Contains(t, s.Items, ui.Item{Label: "Env file", Value: "API key stored", Status: ui.StatusOK})
	assert.Contains(t, s.Items, ui.Item{Label: "IDE rules", Value: "removed .windsurfrules", Status: ui.StatusOK})
	assert.Contains(t, s.NextSteps, "source venv/bin/activate")
	assert.Contains(t, s.NextSteps, "No LLM provider was configured")
}

func TestSummarizeSetup_BootstrapWarning(t *testing.T) {
	r := sampleSetup()
	r.BootstrapErr = errors.New(errors.ErrBootstrap, "no python")

	s := ui.SummarizeSetup(r, "OpenAI")

	assert.Contains(t, s.Items, ui.Item{Label: "Virtualenv", Value: "[BOOTSTRAP] no python", Status: ui.StatusWarning})
	assert.NotContains(t, s.NextSteps, "No LLM provider")
}

func TestSummarizePromotion(t *testing.T) {
	s := ui.SummarizePromotion(&promote.Result{
		TargetDir: "/work",
		Moved:     []string{"a", "b"},
		Clobbered: []string{"a"},
		Failed:    []string{"c"},
	})

	assert.Equal(t, []ui.Item{
		{Label: "Promotion", Value: "2 entries moved into /work", Status: ui.StatusOK},
		{Label: "Replaced", Value: "a", Status: ui.StatusWarning},
		{Label: "Left behind", Value: "c", Status: ui.StatusFailed},
	}, s.Items)

	inPlace := ui.SummarizePromotion(&promote.Result{TargetDir: "/work", InPlace: true})
	require.Len(t, inPlace.Items, 1)
	assert.Equal(t, ui.StatusSkipped, inPlace.Items[0].Status)
}

func TestTextRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	r := ui.NewTextRenderer(buf)

	require.NoError(t, r.RenderSummary(ui.SummarizeMerge("/a", "/b")))
	assert.Equal(t, "Merge completed\n  [ok] Source: /a\n  [ok] Destination: /b\n", buf.String())

	buf.Reset()
	err := errors.New(errors.ErrResolutionFailure, "not found").WithDetail("target", "/work")
	require.NoError(t, r.RenderError(err))
	assert.Equal(t, "Error: [RESOLUTION_FAILURE] not found\n  target: /work\n", buf.String())
}

func TestTerminalRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	r := ui.NewTerminalRenderer(buf, ui.DefaultStyles())

	require.NoError(t, r.RenderSummary(ui.SummarizeSetup(sampleSetup(), "None")))
	out := buf.String()
	assert.Contains(t, out, "Project setup completed")
	assert.Contains(t, out, "/work/proj")
	assert.Contains(t, out, "Next steps")

	buf.Reset()
	require.NoError(t, r.RenderError(errors.New(errors.ErrIOFailure, "disk full")))
	assert.Contains(t, buf.String(), "disk full")
}

func TestJSONRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	r := ui.NewJSONRenderer(buf)

	require.NoError(t, r.RenderSummary(ui.SummarizeMerge("/a", "/b")))
	var summary ui.Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &summary))
	assert.Equal(t, "Merge completed", summary.Title)
	assert.Len(t, summary.Items, 2)

	buf.Reset()
	require.NoError(t, r.RenderError(errors.New(errors.ErrInvalidInput, "bad").WithDetail("path", "/x")))
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "INVALID_INPUT", payload["code"])
	assert.Equal(t, map[string]interface{}{"path": "/x"}, payload["details"])
}

func TestParseTheme(t *testing.T) {
	styles, err := ui.ParseTheme([]byte("colors:\n  red: {light: \"#f00\", dark: \"#f00\"}\nstyles:\n  Alert: {bold: true, foreground: red}\n"))
	require.NoError(t, err)
	assert.True(t, styles.Get("Alert").GetBold())
	assert.False(t, styles.Get("Missing").GetBold())

	_, err = ui.ParseTheme([]byte("styles: [unclosed"))
	assert.Error(t, err)
}

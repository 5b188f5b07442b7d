package ui

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/envfile"
	"github.com/arthur-debert/postgen/pkg/promote"
	"github.com/arthur-debert/postgen/pkg/setup"
)

//go:embed nextsteps.md
var nextStepsTemplate string

var nextSteps = template.Must(template.New("nextsteps").Parse(nextStepsTemplate))

// Status classifies a summary line
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// Item is one line of a summary
type Item struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Status Status `json:"status"`
}

// Summary is what every renderer knows how to display
type Summary struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
	// NextSteps is markdown
	NextSteps string `json:"next_steps,omitempty"`
}

func (s *Summary) add(label, value string, status Status) {
	s.Items = append(s.Items, Item{Label: label, Value: value, Status: status})
}

// SummarizeSetup describes a pipeline run
func SummarizeSetup(r *setup.Result, provider string) *Summary {
	s := &Summary{Title: "Project setup completed"}
	s.add("Project", r.ProjectDir, StatusOK)

	switch r.Env {
	case envfile.OutcomeKeyWritten:
		s.add("Env file", "API key stored", StatusOK)
	case envfile.OutcomeLocal:
		s.add("Env file", "local endpoint configured", StatusOK)
	default:
		s.add("Env file", "unchanged", StatusSkipped)
	}

	if r.Rules != nil {
		switch {
		case len(r.Rules.Removed) > 0:
			s.add("IDE rules", "removed "+strings.Join(r.Rules.Removed, ", "), StatusOK)
		default:
			s.add("IDE rules", "unchanged", StatusSkipped)
		}
		if r.Rules.Annotated != "" {
			s.add("IDE rules", "notice added to "+r.Rules.Annotated, StatusOK)
		}
	}

	switch {
	case r.BootstrapErr != nil:
		s.add("Virtualenv", r.BootstrapErr.Error(), StatusWarning)
	case r.Bootstrap == nil:
	case r.Bootstrap.Installed:
		s.add("Virtualenv", "created, requirements installed", StatusOK)
	case r.Bootstrap.VenvCreated:
		s.add("Virtualenv", "created, "+r.Bootstrap.SkipReason, StatusOK)
	default:
		s.add("Virtualenv", r.Bootstrap.SkipReason, StatusSkipped)
	}

	if r.Promotion != nil {
		s.Items = append(s.Items, promotionItems(r.Promotion)...)
	}

	s.NextSteps = renderNextSteps(r, provider)
	return s
}

// SummarizePromotion describes a standalone promotion
func SummarizePromotion(r *promote.Result) *Summary {
	s := &Summary{Title: "Promotion completed"}
	s.Items = promotionItems(r)
	return s
}

// SummarizeMerge describes a completed merge
func SummarizeMerge(src, dst string) *Summary {
	s := &Summary{Title: "Merge completed"}
	s.add("Source", src, StatusOK)
	s.add("Destination", dst, StatusOK)
	return s
}

func promotionItems(r *promote.Result) []Item {
	if r.InPlace {
		return []Item{{Label: "Promotion", Value: r.TargetDir + " already in place", Status: StatusSkipped}}
	}
	items := []Item{{
		Label:  "Promotion",
		Value:  fmt.Sprintf("%d entries moved into %s", len(r.Moved), r.TargetDir),
		Status: StatusOK,
	}}
	if r.UsedFallback {
		items = append(items, Item{Label: "Found at", Value: r.GeneratedDir, Status: StatusWarning})
	}
	if len(r.Clobbered) > 0 {
		items = append(items, Item{Label: "Replaced", Value: strings.Join(r.Clobbered, ", "), Status: StatusWarning})
	}
	if len(r.Failed) > 0 {
		items = append(items, Item{Label: "Left behind", Value: strings.Join(r.Failed, ", "), Status: StatusFailed})
	}
	return items
}

func renderNextSteps(r *setup.Result, provider string) string {
	var buf bytes.Buffer
	err := nextSteps.Execute(&buf, map[string]interface{}{
		"ActivationHint":  r.ActivationHint,
		"ProjectDir":      r.ProjectDir,
		"ProviderMissing": provider == "" || provider == config.ProviderNone,
	})
	if err != nil {
		return ""
	}
	return buf.String()
}

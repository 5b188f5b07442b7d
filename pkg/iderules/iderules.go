// Package iderules trims a generated project down to the rules files of the
// chosen IDE assistant.
package iderules

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/types"
)

const (
	CursorRules      = ".cursorrules"
	WindsurfRules    = ".windsurfrules"
	Scratchpad       = "scratchpad.md"
	CopilotInstructs = ".github/copilot-instructions.md"

	// ScreenshotHeading marks where the no-provider notice goes
	ScreenshotHeading = "## Screenshot Verification"
)

// NoticeLines are inserted ahead of the screenshot section when no LLM
// provider is configured. The blank line after them is part of the notice.
var NoticeLines = []string{
	"[NOTE TO ASSISTANT: No API key is configured, so skip the Screenshot Verification and LLM sections below.]",
	"[NOTE TO USER: Once an API key is configured, delete these two notice lines to enable those features.]",
	"",
}

// Profile describes which rules file a project type keeps and which
// files belonging to other assistants it drops.
type Profile struct {
	Rules  string
	Remove []string
}

// Profiles is keyed by the lowercased project type
var Profiles = map[string]Profile{
	"cursor": {
		Rules:  CursorRules,
		Remove: []string{WindsurfRules, Scratchpad, CopilotInstructs},
	},
	"windsurf": {
		Rules:  WindsurfRules,
		Remove: []string{CursorRules, CopilotInstructs},
	},
	"github copilot": {
		Rules:  CopilotInstructs,
		Remove: []string{CursorRules, WindsurfRules, Scratchpad},
	},
}

// Result lists what Prune changed
type Result struct {
	Removed   []string
	Annotated string
}

// Prune removes the rules files that do not belong to projectType and, when
// provider is None, annotates the kept rules file. Unknown project types
// leave the directory untouched.
func Prune(fsys types.FS, dir, projectType, provider string) (*Result, error) {
	logger := logging.GetLogger("iderules")
	result := &Result{}

	profile, ok := Profiles[strings.ToLower(strings.TrimSpace(projectType))]
	if !ok {
		logger.Debug().Str("projectType", projectType).Msg("No rules profile for project type")
		return result, nil
	}

	for _, rel := range profile.Remove {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		err := fsys.Remove(path)
		switch {
		case err == nil:
			result.Removed = append(result.Removed, rel)
			logger.Debug().Str("file", rel).Msg("Removed rules file")
		case stderrors.Is(err, fs.ErrNotExist):
		default:
			return result, errors.Wrapf(errors.FromOS(err, "remove", path), errors.ErrIDERules,
				"failed to remove %s", rel)
		}
	}

	if provider != "" && provider != config.ProviderNone {
		return result, nil
	}

	path := filepath.Join(dir, filepath.FromSlash(profile.Rules))
	changed, err := annotate(fsys, path)
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrIDERules, "failed to annotate %s", profile.Rules)
	}
	if changed {
		result.Annotated = profile.Rules
		logger.Info().Str("file", profile.Rules).Msg("Added no-provider notice")
	}
	return result, nil
}

// annotate inserts NoticeLines before the first screenshot heading. Files
// without the heading, or that already carry the notice, are left alone.
func annotate(fsys types.FS, path string) (bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.FromOS(err, "read", path)
	}

	content := string(data)
	if strings.Contains(content, NoticeLines[0]) {
		return false, nil
	}

	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if !strings.Contains(line, ScreenshotHeading) {
			continue
		}
		notice := strings.Join(NoticeLines, "\n") + "\n"
		out := strings.Join(lines[:i], "") + notice + strings.Join(lines[i:], "")

		info, err := fsys.Stat(path)
		if err != nil {
			return false, errors.FromOS(err, "stat", path)
		}
		if err := fsys.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return false, errors.FromOS(err, "write", path)
		}
		return true, nil
	}
	return false, nil
}

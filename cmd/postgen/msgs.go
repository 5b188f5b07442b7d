package postgen

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Finish a freshly generated project"
	MsgRunShort        = "Run the post-generation setup"
	MsgPromoteShort    = "Flatten a generated directory into the target directory"
	MsgMergeShort      = "Merge one directory into another"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgVersionFormat = "postgen version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrNoCommand = "no command specified"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat      = "Output format: auto, term, text or json"
	MsgFlagAnswers     = "Template answers file (.json, .toml, .yaml)"
	MsgFlagTarget      = "Directory the project is generated into (default: current directory)"
	MsgFlagProjectName = "Name of the generated project directory"
	MsgFlagProjectType = "IDE assistant: cursor, windsurf or github copilot"
	MsgFlagProvider    = "LLM provider, None to skip"
	MsgFlagUseCurrent  = "Move the generated project into the target directory"
	MsgFlagNoBootstrap = "Skip creating the virtual environment"
	MsgFlagDefaults    = "Print the built-in defaults instead of the effective configuration"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/promote-long.txt
	msgPromoteLongRaw string
	MsgPromoteLong    = strings.TrimSpace(msgPromoteLongRaw)

	//go:embed msgs/merge-long.txt
	msgMergeLongRaw string
	MsgMergeLong    = strings.TrimSpace(msgMergeLongRaw)
)

// MsgCompletionLong explains how to load completions
const MsgCompletionLong = `To load completions:

Bash:
  $ source <(postgen completion bash)

Zsh:
  $ postgen completion zsh > "${fpath[1]}/_postgen"

Fish:
  $ postgen completion fish | source

PowerShell:
  PS> postgen completion powershell | Out-String | Invoke-Expression
`

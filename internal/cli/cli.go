// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/jeranaias/rigchat-tui/internal/config"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdRegister
	CmdLogout
	CmdREPL
	CmdHistory
	CmdExport
	CmdVersion
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLogin:
		return "login"
	case CmdRegister:
		return "register"
	case CmdLogout:
		return "logout"
	case CmdREPL:
		return "repl"
	case CmdHistory:
		return "history"
	case CmdExport:
		return "export"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	APIURL     string
	Verbose    bool

	// Command-specific
	Username string
	// Pages limits the history command; zero prints every page.
	Pages int
	// ChatID, Format and OutDir configure the export command.
	ChatID string
	Format string
	OutDir string

	// Unknown is set when the command name was not recognized.
	Unknown string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `rigchat - terminal client for the chat service

Usage:
  rigchat                      Start the TUI (default)
  rigchat login [username]     Sign in and remember the user
  rigchat register [username]  Create an account and sign in
  rigchat logout               Forget the stored user
  rigchat repl                 Line-mode chat
  rigchat history [--pages N]  Print the conversation list
  rigchat export <chat-id> [--format md|json|html] [--out DIR]
                               Write a full transcript to a file
  rigchat version              Show version information
  rigchat help                 Show this help

Global flags:
  --config PATH    Config file (default ~/.rigchat/config.toml)
  --api-url URL    Chat service base URL
  -v, --verbose    Debug logging

TUI keys:
  tab              Switch between sidebar and input
  enter            Open the selected conversation / send
  ctrl+n           New conversation
  ctrl+l           Log out
  ctrl+c           Quit

Version: %s
`

// PrintUsage writes the usage text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "rigchat version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses command-line arguments (without the program name).
func Parse(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs
	case "login":
		parseAuthArgs(&parsedArgs, remaining)
		return CmdLogin, parsedArgs
	case "register", "signup":
		parseAuthArgs(&parsedArgs, remaining)
		return CmdRegister, parsedArgs
	case "logout":
		return CmdLogout, parsedArgs
	case "repl", "chat":
		return CmdREPL, parsedArgs
	case "history", "ls":
		parseHistoryArgs(&parsedArgs, remaining)
		return CmdHistory, parsedArgs
	case "export":
		parseExportArgs(&parsedArgs, remaining)
		return CmdExport, parsedArgs
	case "version", "--version":
		return CmdVersion, parsedArgs
	case "help", "-h", "--help":
		return CmdHelp, parsedArgs
	default:
		parsedArgs.Unknown = cmd
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
// Global flags may appear anywhere on the command line.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "-v" || arg == "--verbose":
			parsedArgs.Verbose = true
		case arg == "--config" && i+1 < len(args):
			i++
			parsedArgs.ConfigPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--api-url" && i+1 < len(args):
			i++
			parsedArgs.APIURL = args[i]
		case strings.HasPrefix(arg, "--api-url="):
			parsedArgs.APIURL = strings.TrimPrefix(arg, "--api-url=")
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsedArgs
}

func parseAuthArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining)
	args.Username = p.FlagOrDefault("username", p.Positional(0))
}

func parseHistoryArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining)
	if n, err := p.FlagInt("pages"); err == nil && n > 0 {
		args.Pages = n
	}
}

func parseExportArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining)
	args.ChatID = p.FlagOrDefault("chat", p.Positional(0))
	args.Format = p.FlagOrDefault("format", "md")
	args.OutDir = p.FlagOrDefault("out", ".")
}

// LoadConfig loads configuration and applies command-line overrides.
func LoadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return nil, err
	}
	if args.APIURL != "" {
		cfg.API.BaseURL = strings.TrimRight(args.APIURL, "/")
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

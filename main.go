// rigchat - a terminal client for the rigchat conversation service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat-tui/internal/api"
	"github.com/jeranaias/rigchat-tui/internal/cli"
	"github.com/jeranaias/rigchat-tui/internal/config"
	"github.com/jeranaias/rigchat-tui/internal/logging"
	"github.com/jeranaias/rigchat-tui/internal/storage"
	"github.com/jeranaias/rigchat-tui/internal/ui/app"
	"github.com/jeranaias/rigchat-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	cmd, args := cli.Parse(argv)

	switch cmd {
	case cli.CmdHelp:
		if args.Unknown != "" {
			cli.DisplayError(os.Stderr, &cli.UsageError{Message: fmt.Sprintf("unknown command %q", args.Unknown)})
			cli.PrintUsage(os.Stderr)
			return cli.ExitUsageError
		}
		cli.PrintUsage(os.Stdout)
		return cli.ExitSuccess
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return cli.ExitSuccess
	}

	cfg, err := cli.LoadConfig(args)
	if err != nil {
		cli.DisplayError(os.Stderr, err)
		return cli.ExitCode(err)
	}

	logger, closer, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		cli.DisplayError(os.Stderr, err)
		return cli.ExitConfigError
	}
	defer closer.Close()

	env := cli.NewEnv(cfg, logger)
	logger.Debug("starting", "command", cmd.String(), "api", cfg.API.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case cli.CmdLogin:
		err = cli.HandleAuth(ctx, env, api.AuthLogin, args)
	case cli.CmdRegister:
		err = cli.HandleAuth(ctx, env, api.AuthRegister, args)
	case cli.CmdLogout:
		err = cli.HandleLogout(env)
	case cli.CmdREPL:
		err = cli.HandleREPL(ctx, env)
	case cli.CmdHistory:
		err = cli.HandleHistory(ctx, env, args)
	case cli.CmdExport:
		err = cli.HandleExport(ctx, env, args)
	default:
		err = runTUI(env, cfg)
	}

	if err != nil {
		logger.Error("command failed", "command", cmd.String(), "err", err)
		cli.DisplayError(os.Stderr, err)
	}
	return cli.ExitCode(err)
}

// runTUI starts the Bubble Tea program, reopening the stored session when
// one exists.
func runTUI(env *cli.Env, cfg *config.Config) error {
	restored, err := env.Store.Load()
	switch {
	case errors.Is(err, storage.ErrNoState):
		restored = nil
	case err != nil:
		env.Logger.Warn("ignoring stored state", "err", err)
		restored = nil
	}

	m := app.New(app.Options{
		Config:     cfg,
		Theme:      styles.NewTheme(styles.ParseMode(cfg.UI.Theme)),
		Auth:       env.Client,
		Store:      env.Store,
		NewSession: env.NewSession,
		Restored:   restored,
		Logger:     env.Logger,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running rigchat: %w", err)
	}
	return nil
}

// Package main is the entry point for the tree-sync application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/tree-sync/internal/config"
	"github.com/joe/tree-sync/internal/syncengine"
	"github.com/joe/tree-sync/internal/tui"
	"github.com/joe/tree-sync/internal/tui/shared"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engineCfg := syncengine.FromAppConfig(cfg)
	engine := syncengine.NewEngine(engineCfg)

	if cfg.DebugLogPath != "" {
		err = engine.EnableFileLogging(cfg.DebugLogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}

		defer engine.CloseLog()
	}

	interactive := !cfg.Plain && term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // fd fits in int

	var result syncengine.Result

	if interactive {
		result, err = tui.Run(ctx, engine, engineCfg, tea.WithAltScreen())
	} else {
		result, err = tui.RunPlain(ctx, engine, engineCfg, os.Stdout)
	}

	if interactive && result.State.Terminal() {
		// The alt screen is gone; leave the outcome on the normal screen
		fmt.Println(shared.FormatCounts(result.Counters))
		fmt.Println(shared.FormatSummary(result))
	}

	if err != nil && !errors.Is(err, syncengine.ErrStopped) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if result.State == syncengine.StateFailed {
		return 1
	}

	return 0
}

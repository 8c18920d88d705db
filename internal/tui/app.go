package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/tree-sync/internal/syncengine"
	"github.com/joe/tree-sync/internal/tui/shared"
)

// Run starts engine and drives the interactive view until the user quits.
// The returned error is the run's own error, or the terminal program's if it
// failed.
func Run(ctx context.Context, engine *syncengine.Engine, cfg syncengine.Config, opts ...tea.ProgramOption) (syncengine.Result, error) {
	bridge := shared.NewEventBridge()
	defer bridge.Close()

	err := engine.Configure(cfg)
	if err != nil {
		return syncengine.Result{}, err //nolint:wrapcheck // sentinel checked by callers
	}

	engine.SetEventEmitter(bridge)

	err = engine.Start(ctx)
	if err != nil {
		return syncengine.Result{}, err //nolint:wrapcheck // typed config errors are returned as is
	}

	opts = append(opts, tea.WithContext(ctx))
	program := tea.NewProgram(NewModel(engine, bridge, cfg), opts...)

	_, programErr := program.Run()

	// The view may be gone before the run is: stop it and unblock its emitter
	engine.Stop()
	bridge.Close()

	result, runErr := engine.Wait()

	if programErr != nil && !errors.Is(programErr, tea.ErrProgramKilled) {
		return result, fmt.Errorf("terminal UI failed: %w", programErr)
	}

	return result, runErr
}

package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/joe/tree-sync/internal/syncengine"
	"github.com/joe/tree-sync/internal/tui/shared"
)

// LineReporter prints run events as plain lines, for pipes and dumb terminals.
type LineReporter struct {
	out          io.Writer
	errorLogPath string
	failures     []shared.FailedFile
}

// NewLineReporter creates a reporter writing to out.
func NewLineReporter(out io.Writer, errorLogPath string) *LineReporter {
	return &LineReporter{out: out, errorLogPath: errorLogPath}
}

// Emit implements syncengine.EventEmitter.
func (r *LineReporter) Emit(event syncengine.Event) {
	switch ev := event.(type) {
	case syncengine.CountingStarted:
		r.printf("Counting files in %s...\n", ev.SourceRoot)
	case syncengine.CountingComplete:
		r.printf("Found %d files\n", ev.TotalFiles)
	case syncengine.DirectoryEntered:
		r.printf("Directory: %s\n", ev.Path)
	case syncengine.FileCopied:
		r.printf("  %-11s %s\n", ev.Decision.String()+":", ev.DestPath)
	case syncengine.FileFailed:
		if len(r.failures) == 0 {
			r.printf("Errors encountered. See log.\n")
		}

		r.failures = append(r.failures, shared.FailedFile{SourcePath: ev.SourcePath, DestPath: ev.DestPath, Err: ev.Err})
		r.printf("  %-11s %s: %v\n", "error:", ev.SourcePath, ev.Err)
	case syncengine.RunFinished:
		r.finish(ev)
	}
}

func (r *LineReporter) finish(ev syncengine.RunFinished) {
	r.printf("%s\n", shared.FormatCounts(ev.Counters))
	r.printf("%s\n", shared.FormatSummary(syncengine.Result{State: ev.State, Counters: ev.Counters}))

	if ev.State == syncengine.StateFailed && ev.Err != nil {
		r.printf("Error: %v\n", ev.Err)
	}

	if len(r.failures) > 0 {
		r.printf("%d error(s) written to %s\n", len(r.failures), r.errorLogPath)
		r.printf("%s", shared.RenderErrorList(shared.ErrorListConfig{
			Errors:  r.failures,
			Context: shared.ContextComplete,
		}))
	}
}

func (r *LineReporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// RunPlain runs engine to completion, reporting to out line by line.
func RunPlain(ctx context.Context, engine *syncengine.Engine, cfg syncengine.Config, out io.Writer) (syncengine.Result, error) {
	err := engine.Configure(cfg)
	if err != nil {
		return syncengine.Result{}, err //nolint:wrapcheck // sentinel checked by callers
	}

	engine.SetEventEmitter(NewLineReporter(out, cfg.ErrorLogPath))

	err = engine.Start(ctx)
	if err != nil {
		return syncengine.Result{}, err //nolint:wrapcheck // typed config errors are returned as is
	}

	return engine.Wait()
}

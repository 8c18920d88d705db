// Package syncengine replicates a source directory tree into a destination
// tree under a copy policy, with pause, resume, stop, directory exclusion and
// per-file error recovery.
package syncengine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/joe/tree-sync/internal/config"
	"github.com/joe/tree-sync/pkg/fileops"
	"github.com/joe/tree-sync/pkg/filesystem"
)

// Config describes one run. The engine copies it at Start.
type Config struct {
	SourceRoot      string
	DestRoot        string
	Mode            config.Mode
	ExcludedDirs    []string // absolute, or relative to SourceRoot
	ExcludePatterns []string // doublestar globs over source-relative directory paths
	ErrorLogPath    string   // defaults to config.DefaultErrorLogPath
}

// FromAppConfig converts parsed command line options into an engine Config.
func FromAppConfig(cfg *config.Config) Config {
	return Config{
		SourceRoot:      cfg.SourcePath,
		DestRoot:        cfg.DestPath,
		Mode:            cfg.Mode,
		ExcludedDirs:    slices.Clone(cfg.Exclude),
		ExcludePatterns: slices.Clone(cfg.ExcludePatterns),
		ErrorLogPath:    cfg.ErrorLogPath,
	}
}

// Counters are the running totals of a run.
type Counters struct {
	FilesProcessed   int // files skipped or copied successfully
	NewFiles         int
	OverwrittenFiles int
	Errors           int
	TotalFiles       int // set by the counting pass
}

// Percent returns FilesProcessed as a share of TotalFiles, clamped to 100.
// An empty tree is 100% done.
func (c Counters) Percent() float64 {
	if c.TotalFiles <= 0 {
		return 100 //nolint:mnd // percent
	}

	return min(float64(c.FilesProcessed)/float64(c.TotalFiles)*100, 100) //nolint:mnd // percent
}

// State is the lifecycle state of the engine.
type State int

// Engine states.
const (
	StateIdle State = iota
	StateCounting
	StateCopying
	StateCompleted
	StateStopped
	StateFailed
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCounting:
		return "counting"
	case StateCopying:
		return "copying"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateStopped || s == StateFailed
}

// Result is the outcome of a run.
type Result struct {
	State    State
	Counters Counters
}

// Engine handles the synchronization process. One run is active at a time.
type Engine struct {
	FS filesystem.FileSystem

	mu      sync.Mutex
	cfg     Config
	emitter EventEmitter
	state   State
	active  bool
	control *Control
	result  Result
	runErr  error
	done    chan struct{}

	logFile *os.File   // Optional log file for debugging
	logMu   sync.Mutex // Mutex for log file writes
}

// NewEngine creates a new sync engine on the real filesystem.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		FS:  filesystem.NewRealFileSystem(),
		cfg: cfg,
	}
}

// SetEventEmitter sets the receiver of run events. Events are delivered
// synchronously from the worker goroutine; a nil emitter discards them.
func (e *Engine) SetEventEmitter(emitter EventEmitter) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.emitter = emitter
}

// Configure replaces the configuration used by the next Start.
func (e *Engine) Configure(cfg Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active {
		return ErrRunActive
	}

	e.cfg = cfg

	return nil
}

// Start validates the configuration, truncates the error log and launches
// the run in the background. Cancelling ctx has the same effect as Stop.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active {
		return ErrRunActive
	}

	cfg, err := resolveConfig(e.cfg)
	if err != nil {
		return err
	}

	errorLog := NewErrorLog(cfg.ErrorLogPath)

	err = errorLog.Reset()
	if err != nil {
		return err
	}

	control := NewControl()

	fsys := e.FS
	if fsys == nil {
		fsys = filesystem.NewRealFileSystem()
	}

	r := &run{
		engine:   e,
		cfg:      cfg,
		fs:       fsys,
		filter:   NewPathFilter(cfg.SourceRoot, cfg.ExcludedDirs, cfg.ExcludePatterns),
		control:  control,
		errorLog: errorLog,
		transfer: NewTransfer(fileops.NewFileOps(fsys)),
		emitter:  e.emitter,
	}

	e.active = true
	e.state = StateCounting
	e.control = control
	e.result = Result{State: StateCounting}
	e.runErr = nil
	e.done = make(chan struct{})

	stopOnCancel := context.AfterFunc(ctx, control.Stop)

	go e.execute(r, stopOnCancel, e.done)

	return nil
}

// Pause suspends the active run at the next file boundary.
func (e *Engine) Pause() {
	if c := e.activeControl(); c != nil {
		c.Pause()
		e.logToFile("Paused")
	}
}

// Resume continues a paused run.
func (e *Engine) Resume() {
	if c := e.activeControl(); c != nil {
		c.Resume()
		e.logToFile("Resumed")
	}
}

// TogglePause flips between paused and running and returns whether the run
// is now paused. It returns false when no run is active.
func (e *Engine) TogglePause() bool {
	c := e.activeControl()
	if c == nil {
		return false
	}

	paused := c.TogglePause()
	e.logToFile(fmt.Sprintf("Pause toggled: paused=%v", paused))

	return paused
}

// Stop asks the active run to finish after the file in flight. It is safe to
// call at any time, including while paused.
func (e *Engine) Stop() {
	if c := e.activeControl(); c != nil {
		c.Stop()
		e.logToFile("Stop requested")
	}
}

// Wait blocks until the current run has finished and returns its result.
// The error is nil on completion, ErrStopped after a stop and a *RunError
// after a traversal failure. Without a started run it returns immediately.
func (e *Engine) Wait() (Result, error) {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()

	if done != nil {
		<-done
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.result, e.runErr
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Paused reports whether the active run is paused.
func (e *Engine) Paused() bool {
	c := e.activeControl()

	return c != nil && c.Paused()
}

// Result returns the latest published result. Counters are final once the
// run has finished and stay readable until the next Start.
func (e *Engine) Result() Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.result
}

func (e *Engine) activeControl() *Control {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return nil
	}

	return e.control
}

func (e *Engine) setState(state State) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = state
	e.result.State = state
}

func (e *Engine) publish(counters Counters) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.result.Counters = counters
}

// execute runs r to completion. RunFinished is emitted before the engine
// becomes idle, so a caller that saw it can rely on Wait returning at once.
func (e *Engine) execute(r *run, stopOnCancel func() bool, done chan struct{}) {
	state, runErr := r.execute()

	stopOnCancel()
	r.errorLog.Close()

	e.logToFile(fmt.Sprintf("Run finished: state=%v processed=%d/%d new=%d overwritten=%d errors=%d err=%v",
		state, r.counters.FilesProcessed, r.counters.TotalFiles,
		r.counters.NewFiles, r.counters.OverwrittenFiles, r.counters.Errors, runErr))

	r.emit(RunFinished{Counters: r.counters, State: state, Err: runErr})

	e.mu.Lock()
	e.state = state
	e.result = Result{State: state, Counters: r.counters}
	e.runErr = runErr
	e.active = false
	e.mu.Unlock()

	close(done)
}

// resolveConfig validates cfg and makes its paths absolute, with symbolic
// links resolved so a linked source root is walked as its target.
func resolveConfig(cfg Config) (Config, error) {
	if cfg.SourceRoot == "" {
		return Config{}, &ConfigError{Field: "source", Err: ErrSourceRequired}
	}

	if cfg.DestRoot == "" {
		return Config{}, &ConfigError{Field: "destination", Err: ErrDestRequired}
	}

	source, err := filepath.Abs(cfg.SourceRoot)
	if err != nil {
		return Config{}, &ConfigError{Field: "source", Err: err}
	}

	dest, err := filepath.Abs(cfg.DestRoot)
	if err != nil {
		return Config{}, &ConfigError{Field: "destination", Err: err}
	}

	source = realPath(source)
	dest = realPath(dest)

	if source == dest {
		return Config{}, &ConfigError{Field: "destination", Err: ErrSameRoot}
	}

	resolved := Config{
		SourceRoot:      source,
		DestRoot:        dest,
		Mode:            cfg.Mode,
		ExcludedDirs:    make([]string, 0, len(cfg.ExcludedDirs)+1),
		ExcludePatterns: slices.Clone(cfg.ExcludePatterns),
		ErrorLogPath:    cfg.ErrorLogPath,
	}

	for _, dir := range cfg.ExcludedDirs {
		if filepath.IsAbs(dir) {
			dir = realPath(dir)
		}

		resolved.ExcludedDirs = append(resolved.ExcludedDirs, dir)
	}

	// A destination nested in the source would otherwise be copied into itself
	if isWithin(dest, source) {
		resolved.ExcludedDirs = append(resolved.ExcludedDirs, dest)
	}

	if resolved.ErrorLogPath == "" {
		resolved.ErrorLogPath = config.DefaultErrorLogPath
	}

	return resolved, nil
}

// realPath follows symbolic links in path. Paths that do not exist yet are
// returned unchanged.
func realPath(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}

	return resolved
}

// run is the state of one execution, owned by the worker goroutine.
type run struct {
	engine   *Engine
	cfg      Config
	fs       filesystem.FileSystem
	filter   *PathFilter
	control  *Control
	errorLog *ErrorLog
	transfer *Transfer
	emitter  EventEmitter
	counters Counters
}

func (r *run) emit(event Event) {
	if r.emitter != nil {
		r.emitter.Emit(event)
	}
}

func (r *run) execute() (State, error) {
	r.engine.logToFile("Counting files in " + r.cfg.SourceRoot)
	r.emit(CountingStarted{SourceRoot: r.cfg.SourceRoot})

	err := walkTree(r.fs, r.cfg.SourceRoot, r.filter, func(_ string, files []os.FileInfo) error {
		if r.control.StopRequested() {
			return errStopWalk
		}

		r.counters.TotalFiles += len(files)

		return nil
	}, nil)
	if state, done := r.finished(err); done {
		return state, r.terminalError(state, err)
	}

	r.engine.logToFile(fmt.Sprintf("Counted %d files", r.counters.TotalFiles))
	r.engine.publish(r.counters)
	r.emit(CountingComplete{TotalFiles: r.counters.TotalFiles})
	r.engine.setState(StateCopying)

	err = walkTree(r.fs, r.cfg.SourceRoot, r.filter, r.copyDirectory, r.skipDirectory)
	if state, done := r.finished(err); done {
		return state, r.terminalError(state, err)
	}

	return StateCompleted, nil
}

// finished maps a walk result to a terminal state, if it is one.
func (r *run) finished(err error) (State, bool) {
	switch {
	case errors.Is(err, errStopWalk):
		return StateStopped, true
	case err != nil:
		return StateFailed, true
	default:
		return StateIdle, false
	}
}

func (r *run) terminalError(state State, err error) error {
	if state == StateStopped {
		return ErrStopped
	}

	return err
}

func (r *run) copyDirectory(dir string, files []os.FileInfo) error {
	r.engine.logToFile("Entering " + dir)
	r.emit(DirectoryEntered{Path: dir})

	for _, info := range files {
		if r.control.WaitWhilePaused() {
			return errStopWalk
		}

		r.copyOne(r.fs.Join(dir, info.Name()))
	}

	return nil
}

// skipDirectory records a directory the copying pass could not read. Its files
// were never counted, so only Errors moves.
func (r *run) skipDirectory(dir string, err error) {
	task, taskErr := NewFileTask(r.cfg.SourceRoot, r.cfg.DestRoot, dir)
	if taskErr != nil {
		task = FileTask{SourcePath: dir}
	}

	r.fail(task, &IOError{SourcePath: task.SourcePath, DestPath: task.DestPath, Err: err})
}

// copyOne evaluates and applies the policy to one file. Failures are recorded
// and never end the run.
func (r *run) copyOne(sourcePath string) {
	task, err := NewFileTask(r.cfg.SourceRoot, r.cfg.DestRoot, sourcePath)
	if err != nil {
		r.fail(FileTask{SourcePath: sourcePath}, &IOError{SourcePath: sourcePath, Err: err})

		return
	}

	decision, err := r.decide(task)
	if err != nil {
		r.fail(task, err)

		return
	}

	if decision == Skip {
		r.engine.logToFile("Skipped " + task.SourcePath)
		r.advance()

		return
	}

	stats, err := r.transfer.Copy(task)
	if err != nil {
		r.fail(task, err)

		return
	}

	r.engine.logToFile(fmt.Sprintf("Copied %s -> %s (%s, %d bytes, read %v, write %v)",
		task.SourcePath, task.DestPath, decision, stats.BytesCopied, stats.ReadTime, stats.WriteTime))

	if decision == CopyAsNew {
		r.counters.NewFiles++
	} else {
		r.counters.OverwrittenFiles++
	}

	r.emit(FileCopied{SourcePath: task.SourcePath, DestPath: task.DestPath, Decision: decision})
	r.advance()
}

func (r *run) decide(task FileTask) (Decision, error) {
	srcInfo, err := r.fs.Stat(task.SourcePath)
	if err != nil {
		return Skip, &IOError{SourcePath: task.SourcePath, DestPath: task.DestPath, Err: err}
	}

	destInfo, err := r.fs.Stat(task.DestPath)

	switch {
	case err == nil:
		return Decide(r.cfg.Mode, true, srcInfo.ModTime(), destInfo.ModTime()), nil
	case errors.Is(err, os.ErrNotExist):
		return Decide(r.cfg.Mode, false, srcInfo.ModTime(), srcInfo.ModTime()), nil
	default:
		return Skip, &IOError{SourcePath: task.SourcePath, DestPath: task.DestPath, Err: err}
	}
}

func (r *run) advance() {
	r.counters.FilesProcessed++
	r.engine.publish(r.counters)
	r.emit(Progress{Counters: r.counters, Percent: r.counters.Percent()})
}

func (r *run) fail(task FileTask, err error) {
	message := err.Error()

	var ioErr *IOError
	if errors.As(err, &ioErr) {
		message = ioErr.Err.Error()
	}

	r.errorLog.Append(ErrorRecord{SourcePath: task.SourcePath, DestPath: task.DestPath, Message: message})
	r.counters.Errors++
	r.engine.publish(r.counters)
	r.engine.logToFile(fmt.Sprintf("ERROR: %v", err))
	r.emit(FileFailed{SourcePath: task.SourcePath, DestPath: task.DestPath, Err: err})
}

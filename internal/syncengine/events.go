package syncengine

import "context"

// Event is the interface implemented by all sync engine events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
// Emit is called synchronously from the run's worker goroutine, in order.
type EventEmitter interface {
	Emit(event Event)
}

// ChannelEmitter forwards events to a buffered channel. Sends block when the
// buffer is full, so no event is ever dropped; the consumer must keep reading
// until RunFinished arrives or cancel ctx.
type ChannelEmitter struct {
	ctx    context.Context //nolint:containedctx // bounds blocking sends
	events chan Event
}

// NewChannelEmitter creates a ChannelEmitter with the given buffer size.
func NewChannelEmitter(ctx context.Context, buffer int) *ChannelEmitter {
	return &ChannelEmitter{ctx: ctx, events: make(chan Event, buffer)}
}

// Emit implements EventEmitter.
func (c *ChannelEmitter) Emit(event Event) {
	select {
	case c.events <- event:
	case <-c.ctx.Done():
	}
}

// Events returns the receive side of the channel.
func (c *ChannelEmitter) Events() <-chan Event {
	return c.events
}

// Counting phase events

// CountingStarted is emitted when the counting pass begins.
type CountingStarted struct {
	SourceRoot string
}

func (CountingStarted) isEvent() {}

// CountingComplete is emitted once the denominator for progress is known.
type CountingComplete struct {
	TotalFiles int
}

func (CountingComplete) isEvent() {}

// Copying phase events

// DirectoryEntered is emitted when the copying pass enters a source
// directory, before any event for files inside it.
type DirectoryEntered struct {
	Path string
}

func (DirectoryEntered) isEvent() {}

// FileCopied is emitted after a file was written to the destination.
type FileCopied struct {
	SourcePath string
	DestPath   string
	Decision   Decision
}

func (FileCopied) isEvent() {}

// Progress is emitted each time FilesProcessed advances.
type Progress struct {
	Counters

	Percent float64
}

func (Progress) isEvent() {}

// FileFailed is emitted when a file could not be copied, or a directory below
// the source root could not be read and was skipped. The run continues in a
// degraded state; the failure is also written to the error log.
type FileFailed struct {
	SourcePath string
	DestPath   string
	Err        error
}

func (FileFailed) isEvent() {}

// RunFinished is the terminal event of a run, emitted exactly once and last.
// Err is nil for StateCompleted, ErrStopped for StateStopped and a
// *RunError for StateFailed.
type RunFinished struct {
	Counters

	State State
	Err   error
}

func (RunFinished) isEvent() {}

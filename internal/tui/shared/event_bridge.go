package shared

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/tree-sync/internal/syncengine"
)

// EventBufferSize is the number of events queued before Emit blocks.
const EventBufferSize = 100

// EngineEventMsg wraps a syncengine.Event for use as a tea.Msg.
type EngineEventMsg struct {
	Event syncengine.Event
}

// EventBridge adapts syncengine events to bubble tea messages.
// It implements syncengine.EventEmitter. Emit blocks while the buffer is full
// so the terminal event always reaches the UI; Close releases a blocked Emit.
type EventBridge struct {
	eventChan chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
}

// NewEventBridge creates a new event bridge.
func NewEventBridge() *EventBridge {
	return &EventBridge{
		eventChan: make(chan tea.Msg, EventBufferSize),
		done:      make(chan struct{}),
	}
}

// Emit implements syncengine.EventEmitter.
func (b *EventBridge) Emit(event syncengine.Event) {
	select {
	case b.eventChan <- EngineEventMsg{Event: event}:
	case <-b.done:
	}
}

// Subscribe returns the event channel for receiving events.
func (b *EventBridge) Subscribe() <-chan tea.Msg {
	return b.eventChan
}

// ListenCmd returns a tea.Cmd that blocks until an event is received.
// Issue it again after handling each event. It yields nil once the bridge is closed.
func (b *EventBridge) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.eventChan:
			return msg
		case <-b.done:
			return nil
		}
	}
}

// Close stops delivery. The event channel itself is never closed, so a
// concurrent Emit cannot panic.
func (b *EventBridge) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}

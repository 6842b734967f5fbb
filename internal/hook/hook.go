// Package hook implements the Event-Hook Demultiplexer of spec §4.3: it
// subscribes to the platform's window lifecycle events and coalesces any
// number of them, arriving from arbitrary worker threads, into at most one
// pending refresh request the UI thread's Refresh channel will ever see per
// tick.
package hook

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/1broseidon/borderd/internal/platform"
)

// eventClasses are the eight classes spec §4.3 subscribes to.
var eventClasses = []platform.EventClass{
	platform.EventShow,
	platform.EventHide,
	platform.EventLocationChange,
	platform.EventMinimizeStart,
	platform.EventMinimizeEnd,
	platform.EventForeground,
	platform.EventReorder,
	platform.EventDestroy,
}

// RefreshRequest is the single coalesced signal posted to the UI thread.
// CorrelationID identifies the triggering burst of OS events for diagnostic
// logging; it has no semantic effect on scheduling.
type RefreshRequest struct {
	CorrelationID string
}

// Demultiplexer owns the platform subscription and the coalescing channel.
// Subscribe's callback runs on an arbitrary worker thread (spec §5); it must
// never call back into the cache, renderer, or config — it only posts to
// Refresh.
type Demultiplexer struct {
	ws           platform.WindowSystem
	subscription platform.Subscription
	logger       *slog.Logger

	// Refresh receives at most one pending RefreshRequest at a time: the
	// buffered capacity of 1 plus the non-blocking send in onEvent is what
	// implements the coalescing policy (spec §4.3) — a send that would block
	// because a request is already pending is simply dropped.
	Refresh chan RefreshRequest

	mu        sync.Mutex
	pendingID string
}

// New wires a Demultiplexer to ws. Start must be called to install the
// platform subscription.
func New(ws platform.WindowSystem, logger *slog.Logger) *Demultiplexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Demultiplexer{
		ws:      ws,
		logger:  logger,
		Refresh: make(chan RefreshRequest, 1),
	}
}

// Start installs the OS event hook. Calling Start twice without an
// intervening Stop is an error in the caller, not guarded against here
// (mirrors spec §4.3's subscription being a one-shot resource).
func (d *Demultiplexer) Start() error {
	sub, err := d.ws.Subscribe(eventClasses, d.onEvent)
	if err != nil {
		return err
	}
	d.subscription = sub
	return nil
}

// onEvent runs on an arbitrary worker thread. It never touches cache,
// renderer, or config state (spec §5) — only the buffered Refresh channel.
func (d *Demultiplexer) onEvent(ev platform.Event) {
	d.mu.Lock()
	if d.pendingID == "" {
		d.pendingID = uuid.NewString()
	}
	id := d.pendingID
	d.mu.Unlock()

	select {
	case d.Refresh <- RefreshRequest{CorrelationID: id}:
		d.mu.Lock()
		if d.pendingID == id {
			d.pendingID = ""
		}
		d.mu.Unlock()
	default:
		// A refresh is already pending; this event collapses into it.
	}
}

// Stop unhooks the platform subscription. Idempotent: calling Stop more
// than once, or before Start, is a no-op (spec §4.3 cancellation).
func (d *Demultiplexer) Stop() {
	if d.subscription == nil {
		return
	}
	d.subscription.Unsubscribe()
	d.subscription = nil
}

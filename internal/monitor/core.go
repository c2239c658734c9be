package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aerolith-io/groundwatch/internal/lib/logger/sl"
	"github.com/aerolith-io/groundwatch/internal/mavlink"
	"github.com/aerolith-io/groundwatch/internal/severity"
)

// Receiver is the non-blocking side of the decoder boundary. (nil, nil)
// means no data is pending; a non-nil error is one undecodable frame.
type Receiver interface {
	TryReceive() (mavlink.Message, error)
}

// Core is the dispatch core: it owns the status log and the vehicle
// state, drives one non-blocking receive attempt per tick, and routes
// decoded messages to exactly one of them. All mutation happens on the
// goroutine running Run; the UI requests clears through a channel so
// they execute there too.
type Core struct {
	log      *slog.Logger
	receiver Receiver
	catalog  severity.Catalog
	sink     Sink

	statusLog *StatusLog
	state     *VehicleState

	clearCh chan struct{}

	mu        sync.Mutex
	lastMsgAt time.Time
}

func NewCore(log *slog.Logger, receiver Receiver, sink Sink, maxMessages int) *Core {
	catalog := severity.NewCatalog()
	sink.ConfigureStyles(catalog.StyleKeys())

	return &Core{
		log:       log,
		receiver:  receiver,
		catalog:   catalog,
		sink:      sink,
		statusLog: NewStatusLog(maxMessages),
		state:     NewVehicleState(),
		clearCh:   make(chan struct{}, 1),
	}
}

// Run drives the dispatch loop: one Tick per interval until ctx is
// cancelled. Clear requests are serviced between ticks on this same
// goroutine.
func (c *Core) Run(ctx context.Context, interval time.Duration) {
	c.log.Info("dispatch loop started", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("dispatch loop stopped")
			return
		case <-c.clearCh:
			c.Clear()
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Tick performs exactly one receive-and-route cycle. It never blocks:
// absence of data returns immediately with no side effects, and no
// failure is raised to the caller.
func (c *Core) Tick() {
	msg, err := c.receiver.TryReceive()
	if err != nil {
		c.log.Warn("dropping undecodable frame", sl.Err(err))
		return
	}
	if msg == nil {
		return
	}

	c.mu.Lock()
	c.lastMsgAt = time.Now()
	c.mu.Unlock()

	switch m := msg.(type) {
	case *mavlink.StatusText:
		entry, evicted := c.statusLog.Insert(m.Severity, m.Text)
		c.sink.AppendStatusLine(entry.Line(c.catalog), c.catalog.Resolve(m.Severity).StyleKey)
		if evicted {
			c.sink.DropOldestStatusLine()
		}

	case *mavlink.Heartbeat:
		c.sink.ReplaceSnapshotLines(c.state.ApplyHeartbeat(m))

	case *mavlink.SysStatus:
		c.sink.ReplaceSnapshotLines(c.state.ApplySysStatus(m))

	default:
		c.log.Info("unknown message type received",
			slog.Uint64("id", uint64(msg.MsgID())),
			slog.String("name", msg.Name()),
		)
	}
}

// Clear empties the status log and the vehicle state and tells the
// sink to wipe its display, exactly once per call. Idempotent.
func (c *Core) Clear() {
	c.statusLog.Clear()
	c.state.Clear()
	c.sink.ClearAll()
}

// RequestClear schedules a clear on the dispatch goroutine. Safe to
// call from any goroutine; coalesces when one is already pending.
func (c *Core) RequestClear() {
	select {
	case c.clearCh <- struct{}{}:
	default:
	}
}

// StatusLog exposes the log read model for the API layer.
func (c *Core) StatusLog() *StatusLog {
	return c.statusLog
}

// State exposes the vehicle state read model for the API layer.
func (c *Core) State() *VehicleState {
	return c.state
}

// LastMessageAt reports when the last telemetry message was routed,
// zero if none has been.
func (c *Core) LastMessageAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastMsgAt
}

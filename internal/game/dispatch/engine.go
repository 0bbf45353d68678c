package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// ErrEngineStopped is returned by Submit once Run has returned.
var ErrEngineStopped = errors.New("engine stopped")

// Engine serializes events onto a single goroutine that owns the Dispatcher
// and publishes a Snapshot after each one.
type Engine struct {
	d      *Dispatcher
	events chan Event
	done   chan struct{}

	snap      atomic.Pointer[Snapshot]
	processed atomic.Uint64
}

// NewEngine creates an engine with room for buffer queued events.
func NewEngine(d *Dispatcher, buffer int) *Engine {
	if buffer < 1 {
		buffer = 1
	}
	e := &Engine{
		d:      d,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
	e.snap.Store(d.Snapshot())
	return e
}

// Submit queues ev. It blocks while the queue is full.
func (e *Engine) Submit(ctx context.Context, ev Event) error {
	if ev == nil {
		return errors.New("nil event")
	}
	select {
	case <-e.done:
		return ErrEngineStopped
	default:
	}

	select {
	case e.events <- ev:
		return nil
	case <-e.done:
		return ErrEngineStopped
	case <-ctx.Done():
		return fmt.Errorf("submit %T: %w", ev, ctx.Err())
	}
}

// Run processes events until ctx is canceled, then drops every timer.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)

	slog.Info("timer engine started", "buffer", cap(e.events))

	for {
		select {
		case <-ctx.Done():
			e.d.Shutdown()
			e.publish()
			slog.Info("timer engine stopped", "processed", e.processed.Load())
			return nil

		case ev := <-e.events:
			e.d.Handle(ctx, ev)
			e.processed.Add(1)
			e.publish()
		}
	}
}

// RunTicker submits a Tick every interval until ctx is canceled. Used when
// the host does not send ticks itself.
func (e *Engine) RunTicker(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("local tick source started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := e.Submit(ctx, Tick{}); err != nil {
				if errors.Is(err, ErrEngineStopped) || ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// Snapshot returns the state published after the last processed event.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// Processed is the number of events handled so far.
func (e *Engine) Processed() uint64 {
	return e.processed.Load()
}

// Done is closed when Run returns.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

func (e *Engine) publish() {
	e.snap.Store(e.d.Snapshot())
}

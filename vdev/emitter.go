package vdev

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/NetPad/wire"
)

// ErrDeviceUnavailable is returned when the virtual device cannot be created.
var ErrDeviceUnavailable = errors.New("virtual device unavailable")

// Sink accepts events for one virtual device.
type Sink interface {
	WriteEvent(ev Event) error
	Close() error
}

// Opener registers a device with the given layout.
type Opener func(l Layout) (Sink, error)

// Policy decides what happens when the device cannot be created.
type Policy int

const (
	// PolicyRequired makes a missing device fatal.
	PolicyRequired Policy = iota
	// PolicyDegraded keeps running and drops all output.
	PolicyDegraded
)

// EmitterStats counts emitter activity.
type EmitterStats struct {
	Batches     uint64
	Dropped     uint64
	WriteErrors uint64
}

// Emitter owns the virtual device handle and submits one batch per frame.
// It is not safe for concurrent use.
type Emitter struct {
	layout Layout
	open   Opener
	policy Policy
	logger *slog.Logger
	now    func() time.Time

	sink   Sink
	opened bool
	batch  []Event
	stats  EmitterStats
}

// NewEmitter returns an emitter that registers its device on Open or on the
// first Emit, whichever comes first.
func NewEmitter(l Layout, open Opener, policy Policy, logger *slog.Logger) *Emitter {
	return &Emitter{
		layout: l,
		open:   open,
		policy: policy,
		logger: logger,
		now:    time.Now,
		batch:  make([]Event, 0, l.BatchLen()),
	}
}

// Layout returns the device layout.
func (e *Emitter) Layout() Layout { return e.layout }

// Stats returns a snapshot of the counters.
func (e *Emitter) Stats() EmitterStats { return e.stats }

// Open registers the device. It is attempted once; under PolicyDegraded a
// failure is logged and nil returned.
func (e *Emitter) Open() error {
	if e.opened {
		return nil
	}
	e.opened = true
	sink, err := e.open(e.layout)
	if err != nil {
		if !errors.Is(err, ErrDeviceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
		}
		if e.policy == PolicyDegraded {
			e.logger.Warn("virtual device unavailable, dropping output", "error", err)
			return nil
		}
		return err
	}
	e.sink = sink
	e.logger.Info("virtual device created", "name", e.layout.Name, "keys", e.layout.KeyCount, "axes", len(e.layout.AxisCodes), "radius", e.layout.Radius)
	return nil
}

// Emit submits the batch for f. Failed event writes are logged and the rest
// of the batch is still written; the next sync reconciles device state.
func (e *Emitter) Emit(f wire.Frame) error {
	if err := e.Open(); err != nil {
		return err
	}
	if e.sink == nil {
		e.stats.Dropped++
		return nil
	}

	e.batch = e.layout.Batch(e.batch[:0], f, e.now())
	for _, ev := range e.batch {
		if err := e.sink.WriteEvent(ev); err != nil {
			e.stats.WriteErrors++
			e.logger.Error("write event to virtual device", "event", ev.String(), "error", err)
		}
	}
	e.stats.Batches++
	return nil
}

// Close destroys the device if it was created.
func (e *Emitter) Close() error {
	if e.sink == nil {
		return nil
	}
	err := e.sink.Close()
	e.sink = nil
	return err
}

// Package receiver runs the host side loop: read a frame, decode it, replay
// it into the virtual device.
package receiver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"syscall"

	"github.com/Alia5/NetPad/internal/log"
	"github.com/Alia5/NetPad/wire"
)

// State is the position of the receive loop.
type State int

const (
	AwaitingFrame State = iota
	Decoding
	EmittingBatch
	Disconnected
)

func (s State) String() string {
	switch s {
	case AwaitingFrame:
		return "awaiting-frame"
	case Decoding:
		return "decoding"
	case EmittingBatch:
		return "emitting-batch"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Emitter consumes decoded frames.
type Emitter interface {
	Emit(f wire.Frame) error
}

// Stats counts loop activity.
type Stats struct {
	Frames uint64
}

// Receiver owns the inbound stream for the lifetime of the loop.
type Receiver struct {
	r       *wire.Reader
	emitter Emitter
	logger  *slog.Logger
	raw     log.RawLogger

	state State
	stats Stats

	// OnFrame, if set, observes every decoded frame after it was emitted.
	OnFrame func(wire.Frame)
}

// New returns a receiver reading frames of variant v from r.
func New(r io.Reader, v wire.Variant, emitter Emitter, logger *slog.Logger, raw log.RawLogger) *Receiver {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Receiver{
		r:       wire.NewReader(r, v),
		emitter: emitter,
		logger:  logger,
		raw:     raw,
	}
}

// State returns the current loop state.
func (r *Receiver) State() State { return r.state }

// Stats returns a snapshot of the counters.
func (r *Receiver) Stats() Stats { return r.stats }

// Step processes one frame. A short read moves the receiver to Disconnected
// and returns an error wrapping wire.ErrShortRead; nothing is emitted for a
// partial frame.
func (r *Receiver) Step() error {
	if r.state == Disconnected {
		return wire.ErrShortRead
	}

	r.state = AwaitingFrame
	b, err := r.r.Next()
	if err != nil {
		r.state = Disconnected
		return err
	}

	r.state = Decoding
	r.raw.Log(false, b)
	f, err := r.r.Variant().Decode(b)
	if err != nil {
		return err
	}
	r.stats.Frames++

	r.state = EmittingBatch
	if err := r.emitter.Emit(f); err != nil {
		return err
	}
	if r.OnFrame != nil {
		r.OnFrame(f)
	}
	r.state = AwaitingFrame
	return nil
}

// Run steps until the peer disconnects or ctx is cancelled; both end the
// loop without error. Cancellation takes effect once the blocking read
// returns, so callers close the stream to interrupt it.
func (r *Receiver) Run(ctx context.Context) error {
	defer func() {
		r.logger.Info("receiver stopped", "frames", r.stats.Frames, "state", r.state.String())
	}()
	for ctx.Err() == nil {
		err := r.Step()
		if err == nil {
			continue
		}
		if errors.Is(err, wire.ErrShortRead) || errors.Is(err, syscall.ECONNRESET) {
			r.logger.Info("sender disconnected", "error", err)
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

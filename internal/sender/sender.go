// Package sender runs the console side loop: poll, compare against the last
// transmitted frame, write on change.
package sender

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/Alia5/NetPad/controller"
	"github.com/Alia5/NetPad/internal/log"
	"github.com/Alia5/NetPad/wire"
)

// ErrPeerClosed ends the loop when the receiver went away.
var ErrPeerClosed = errors.New("peer closed the stream")

// Stats counts loop activity.
type Stats struct {
	Polls   uint64
	Sent    uint64
	Skipped uint64
	Failed  uint64
}

// Config tunes the loop.
type Config struct {
	// Interval paces polls; 0 polls as fast as possible.
	Interval time.Duration
	// ResetButtons ends the loop once every one of its bits is held.
	// 0 disables the check.
	ResetButtons uint32
}

// Sender owns the outbound stream for the lifetime of the loop.
type Sender struct {
	src     controller.Reader
	w       io.Writer
	variant wire.Variant
	cfg     Config
	logger  *slog.Logger
	raw     log.RawLogger

	cur   []byte
	last  []byte
	stats Stats
}

// New returns a sender whose baseline is the all-zero frame.
func New(src controller.Reader, w io.Writer, v wire.Variant, cfg Config, logger *slog.Logger, raw log.RawLogger) *Sender {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Sender{
		src:     src,
		w:       w,
		variant: v,
		cfg:     cfg,
		logger:  logger,
		raw:     raw,
		cur:     make([]byte, v.Size()),
		last:    v.Encode(wire.Frame{}),
	}
}

// Stats returns a snapshot of the counters.
func (s *Sender) Stats() Stats { return s.stats }

// Tick runs one poll cycle. It reports whether the reset combination was
// held. Partial writes are logged and otherwise ignored: every frame is a
// full snapshot, so the next change repairs the receiver's view.
func (s *Sender) Tick() (reset bool, err error) {
	f, err := s.src.Poll()
	if err != nil {
		return false, err
	}
	s.stats.Polls++

	s.variant.Put(s.cur, f)
	if bytes.Equal(s.cur, s.last) {
		s.stats.Skipped++
	} else {
		copy(s.last, s.cur)
		s.raw.Log(true, s.cur)
		if err := wire.WriteFrame(s.w, s.cur); err != nil {
			if peerGone(err) {
				return false, ErrPeerClosed
			}
			s.stats.Failed++
			s.logger.Warn("frame write failed", "error", err)
		} else {
			s.stats.Sent++
		}
	}

	mask := s.cfg.ResetButtons
	return mask != 0 && f.Buttons&mask == mask, nil
}

// Run ticks until ctx is cancelled, the reset combination is held or the
// peer disconnects. Those three end the loop without error.
func (s *Sender) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if s.cfg.Interval > 0 {
		t := time.NewTicker(s.cfg.Interval)
		defer t.Stop()
		tick = t.C
	}
	defer func() {
		s.logger.Info("sender stopped", "polls", s.stats.Polls, "sent", s.stats.Sent, "skipped", s.stats.Skipped, "failed", s.stats.Failed)
	}()

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		reset, err := s.Tick()
		if errors.Is(err, ErrPeerClosed) {
			s.logger.Info("receiver disconnected")
			return nil
		}
		if err != nil {
			return err
		}
		if reset {
			s.logger.Info("reset requested")
			return nil
		}
	}
}

func peerGone(err error) bool {
	return errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}

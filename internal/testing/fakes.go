// Package testing holds test doubles shared by the sender and receiver
// tests.
package testing

import (
	"bytes"
	"errors"
	"sync"

	"github.com/Alia5/NetPad/vdev"
	"github.com/Alia5/NetPad/wire"
)

// ScriptReader replays a fixed sequence of frames. Once exhausted it keeps
// returning the last frame.
type ScriptReader struct {
	Frames []wire.Frame
	Polls  int
}

func (s *ScriptReader) Poll() (wire.Frame, error) {
	if len(s.Frames) == 0 {
		return wire.Frame{}, errors.New("empty script")
	}
	i := min(s.Polls, len(s.Frames)-1)
	s.Polls++
	return s.Frames[i], nil
}

// Done reports whether every scripted frame was polled.
func (s *ScriptReader) Done() bool { return s.Polls >= len(s.Frames) }

// RecordingWriter records every Write call separately.
//
// Writes listed in Truncate (by call index) only accept that many bytes.
type RecordingWriter struct {
	mu       sync.Mutex
	Writes   [][]byte
	Truncate map[int]int
	Err      error
}

func (w *RecordingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return 0, w.Err
	}
	n := len(p)
	if t, ok := w.Truncate[len(w.Writes)]; ok && t < n {
		n = t
	}
	w.Writes = append(w.Writes, bytes.Clone(p[:n]))
	return n, nil
}

// Count returns the number of Write calls so far.
func (w *RecordingWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Writes)
}

// RecordingSink stores every event written to it.
type RecordingSink struct {
	mu     sync.Mutex
	Events []vdev.Event
	// FailCodes makes writes of key events with these codes fail.
	FailCodes map[uint16]bool
	Layout    vdev.Layout
	Closed    bool
}

func (s *RecordingSink) WriteEvent(ev vdev.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.Type == vdev.EventKey && s.FailCodes[ev.Code] {
		return errors.New("partial write")
	}
	s.Events = append(s.Events, ev)
	return nil
}

func (s *RecordingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// Snapshot returns a copy of the recorded events.
func (s *RecordingSink) Snapshot() []vdev.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]vdev.Event(nil), s.Events...)
}

// Opener returns a vdev.Opener handing out s and counting registrations.
func (s *RecordingSink) Opener(opens *int) vdev.Opener {
	return func(l vdev.Layout) (vdev.Sink, error) {
		if opens != nil {
			*opens++
		}
		s.mu.Lock()
		s.Layout = l
		s.mu.Unlock()
		return s, nil
	}
}

// FailingOpener never creates a device.
func FailingOpener(err error) vdev.Opener {
	return func(vdev.Layout) (vdev.Sink, error) { return nil, err }
}

// Batches splits recorded events at every sync event.
func Batches(events []vdev.Event) [][]vdev.Event {
	var out [][]vdev.Event
	var cur []vdev.Event
	for _, ev := range events {
		cur = append(cur, ev)
		if ev.Type == vdev.EventSync {
			out = append(out, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

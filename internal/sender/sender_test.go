package sender_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/NetPad/internal/log"
	"github.com/Alia5/NetPad/internal/sender"
	th "github.com/Alia5/NetPad/internal/testing"
	"github.com/Alia5/NetPad/wire"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func frame(buttons uint32, axes ...int32) wire.Frame {
	f := wire.Frame{Buttons: buttons}
	copy(f.Axes[:], axes)
	return f
}

func tickAll(t *testing.T, s *sender.Sender, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := s.Tick()
		require.NoError(t, err)
	}
}

func TestTick_ChangeGating(t *testing.T) {
	a := frame(1, 10, -10)
	b := frame(1, 10, -11)
	src := &th.ScriptReader{Frames: []wire.Frame{{}, {}, a, a, a, b, b, b}}
	w := &th.RecordingWriter{}
	s := sender.New(src, w, wire.Stick, sender.Config{}, quiet, nil)

	tickAll(t, s, len(src.Frames))

	require.Equal(t, 2, w.Count())
	assert.Equal(t, wire.Stick.Encode(a), w.Writes[0])
	assert.Equal(t, wire.Stick.Encode(b), w.Writes[1])
	assert.Equal(t, sender.Stats{Polls: 8, Sent: 2, Skipped: 6}, s.Stats())
}

func TestTick_InitialFrameAgainstZeroBaseline(t *testing.T) {
	a := frame(0, 0, 0, 1)
	src := &th.ScriptReader{Frames: []wire.Frame{a, a, {}, {}}}
	w := &th.RecordingWriter{}
	s := sender.New(src, w, wire.Stick, sender.Config{}, quiet, nil)

	tickAll(t, s, 4)

	require.Equal(t, 2, w.Count())
	assert.Equal(t, wire.Stick.Encode(a), w.Writes[0])
	assert.Equal(t, make([]byte, 6), w.Writes[1], "return to zero is a change")
}

func TestTick_OneWritePerFrame(t *testing.T) {
	src := &th.ScriptReader{Frames: []wire.Frame{frame(0xdeadbeef, 1, 2, 3, 4, 5, 6)}}
	w := &th.RecordingWriter{}
	s := sender.New(src, w, wire.Motion, sender.Config{}, quiet, nil)

	tickAll(t, s, 1)
	require.Equal(t, 1, w.Count())
	assert.Len(t, w.Writes[0], 28)
}

func TestTick_ShortWriteIsLoggedAndLoopContinues(t *testing.T) {
	a := frame(1)
	b := frame(2)
	src := &th.ScriptReader{Frames: []wire.Frame{a, a, b}}
	w := &th.RecordingWriter{Truncate: map[int]int{0: 3}}
	s := sender.New(src, w, wire.Stick, sender.Config{}, quiet, nil)

	tickAll(t, s, 3)

	require.Equal(t, 2, w.Count())
	assert.Len(t, w.Writes[0], 3)
	assert.Equal(t, wire.Stick.Encode(b), w.Writes[1])
	st := s.Stats()
	assert.Equal(t, uint64(1), st.Failed)
	assert.Equal(t, uint64(1), st.Sent)
	assert.Equal(t, uint64(1), st.Skipped, "a failed frame still becomes the baseline")
}

func TestTick_ResetCombination(t *testing.T) {
	src := &th.ScriptReader{Frames: []wire.Frame{frame(0b001), frame(0b101), frame(0b111)}}
	s := sender.New(src, &th.RecordingWriter{}, wire.Stick, sender.Config{ResetButtons: 0b110}, quiet, nil)

	for i, want := range []bool{false, false, true} {
		reset, err := s.Tick()
		require.NoError(t, err)
		assert.Equal(t, want, reset, "tick %d", i)
	}
}

func TestRun_StopsOnReset(t *testing.T) {
	src := &th.ScriptReader{Frames: []wire.Frame{{}, frame(1), frame(0x0c00), {}}}
	w := &th.RecordingWriter{}
	s := sender.New(src, w, wire.Stick, sender.Config{ResetButtons: 0x0c00}, quiet, nil)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 3, src.Polls)
	assert.Equal(t, 2, w.Count(), "the frame holding the combination is still sent")
}

func TestRun_StopsWhenPeerCloses(t *testing.T) {
	local, remote := net.Pipe()
	require.NoError(t, remote.Close())

	src := &th.ScriptReader{Frames: []wire.Frame{frame(1)}}
	s := sender.New(src, local, wire.Stick, sender.Config{}, quiet, nil)
	assert.NoError(t, s.Run(context.Background()))
}

func TestRun_ContextCancel(t *testing.T) {
	src := &th.ScriptReader{Frames: []wire.Frame{{}}}
	s := sender.New(src, &th.RecordingWriter{}, wire.Stick, sender.Config{Interval: time.Millisecond}, quiet, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, s.Run(ctx))
	assert.Greater(t, src.Polls, 0)
}

type failingReader struct{ err error }

func (f failingReader) Poll() (wire.Frame, error) { return wire.Frame{}, f.err }

func TestRun_PollErrorIsFatal(t *testing.T) {
	boom := errors.New("controller unplugged")
	s := sender.New(failingReader{boom}, &th.RecordingWriter{}, wire.Stick, sender.Config{}, quiet, nil)
	assert.ErrorIs(t, s.Run(context.Background()), boom)
}

func TestTick_RawLog(t *testing.T) {
	var buf bytes.Buffer
	src := &th.ScriptReader{Frames: []wire.Frame{frame(0x0102)}}
	s := sender.New(src, &th.RecordingWriter{}, wire.Stick, sender.Config{}, quiet, log.NewRaw(&buf))

	tickAll(t, s, 2)
	assert.Contains(t, buf.String(), "->  6 010200000000")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

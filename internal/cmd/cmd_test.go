package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/NetPad/internal/log"
	"github.com/Alia5/NetPad/wire"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestParseMask(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"0x1010", 0x1010, false},
		{"4096", 4096, false},
		{"0b11", 3, false},
		{"0x100000000", 0, true},
		{"start", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMask(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListVariants(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, listVariants(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "motion:"))
	assert.Contains(t, lines[1], "(6 bytes)")
}

func TestStatusLine(t *testing.T) {
	var buf bytes.Buffer
	s := &statusLine{w: &buf, variant: wire.Stick}
	s.update(wire.Frame{Buttons: 0b101, Axes: [wire.MaxAxes]int32{-3, 4, 0, 0}})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\r0000000000000101"))
	assert.Contains(t, out, "stick1X=-3")
	assert.Contains(t, out, "stick1Y=4")
	assert.NotContains(t, out, "\n")

	assert.Nil(t, newStatusLine("off", nil, wire.Stick))
}

func TestSend_DemoUntilReset(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	got := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			got <- nil
			return
		}
		defer conn.Close()
		b, _ := io.ReadAll(conn)
		got <- b
	}()

	// The demo source holds button 0 during its first second.
	c := &Send{
		Addr:         ln.Addr().String(),
		Dial:         true,
		Variant:      "stick",
		Source:       "demo",
		ResetButtons: "0x1",
		DialTimeout:  time.Second,
	}
	require.NoError(t, c.run(context.Background(), quiet, log.NewRaw(nil)))

	select {
	case b := <-got:
		require.NotEmpty(t, b)
		assert.Zero(t, len(b)%wire.Stick.Size())
		f, err := wire.Stick.Decode(b)
		require.NoError(t, err)
		assert.True(t, f.Held(0))
	case <-time.After(5 * time.Second):
		t.Fatal("no data received")
	}
}

func TestSend_UnknownVariant(t *testing.T) {
	c := &Send{Variant: "nunchuk", Source: "demo"}
	assert.ErrorIs(t, c.run(context.Background(), quiet, nil), wire.ErrUnknownVariant)
}

func TestReceive_LogSinkUntilDisconnect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = conn.Write(wire.Motion.Encode(wire.Frame{Buttons: 3, Axes: [wire.MaxAxes]int32{1, 2, 3}}))
		_, _ = conn.Write([]byte{0, 0, 0})
	}()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := &Receive{
		Peer:        ln.Addr().String(),
		Variant:     "motion",
		Sink:        "log",
		Status:      "off",
		DialTimeout: time.Second,
	}
	require.NoError(t, c.run(context.Background(), logger, log.NewRaw(nil)))
	assert.Contains(t, logs.String(), "sender disconnected")
	assert.Contains(t, logs.String(), "frames=1")
}

func TestReceive_ListenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	c := &Receive{Peer: "127.0.0.1:0", Listen: true, Variant: "stick", Sink: "log", Status: "off"}
	go func() { done <- c.run(ctx, quiet, nil) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("receive did not stop")
	}
}

func TestReceive_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := &Receive{Peer: addr, Variant: "stick", Sink: "log", Status: "off", DialTimeout: time.Second}
	assert.Error(t, c.run(context.Background(), quiet, nil))
}

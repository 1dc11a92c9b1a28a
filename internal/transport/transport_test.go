package transport_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/NetPad/internal/transport"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestWithDefaultPort(t *testing.T) {
	assert.Equal(t, "wii.local:301", transport.WithDefaultPort("wii.local"))
	assert.Equal(t, "10.0.0.5:301", transport.WithDefaultPort("10.0.0.5"))
	assert.Equal(t, "10.0.0.5:4000", transport.WithDefaultPort("10.0.0.5:4000"))
	assert.Equal(t, ":301", transport.WithDefaultPort(""))
	assert.Equal(t, "[::1]:301", transport.WithDefaultPort("::1"))
}

func TestListenAndDial(t *testing.T) {
	ln, err := transport.Listen("127.0.0.1:0", quiet)
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type result struct {
		conn net.Conn
		err  error
	}
	accepted := make(chan result, 1)
	go func() {
		c, err := ln.Accept(ctx)
		accepted <- result{c, err}
	}()

	client, err := transport.Dial(ctx, ln.Addr().String(), transport.Config{DialTimeout: time.Second}, quiet)
	require.NoError(t, err)
	defer client.Close()

	res := <-accepted
	require.NoError(t, res.err)
	defer res.conn.Close()

	_, err = client.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	buf := make([]byte, 3)
	_, err = io.ReadFull(res.conn, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, buf)

	// listener accepts only one peer
	_, err = net.DialTimeout("tcp", ln.Addr().String(), 200*time.Millisecond)
	assert.Error(t, err)
}

func TestAccept_Cancelled(t *testing.T) {
	ln, err := transport.Listen("127.0.0.1:0", quiet)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err = ln.Accept(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, ln.Close())
}

func TestDial_ConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	_, err = transport.Dial(context.Background(), addr, transport.Config{DialTimeout: time.Second}, quiet)
	var ce *transport.ConnectionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "connect", ce.Op)
}

func TestDial_ResolutionError(t *testing.T) {
	r := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			return nil, errors.New("no dns in tests")
		},
	}
	_, err := transport.Dial(context.Background(), "console.invalid", transport.Config{Resolver: r, DialTimeout: time.Second}, quiet)
	var re *transport.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "console.invalid", re.Host)
}

func TestListen_BindError(t *testing.T) {
	first, err := transport.Listen("127.0.0.1:0", quiet)
	require.NoError(t, err)
	defer first.Close()

	_, err = transport.Listen(first.Addr().String(), quiet)
	var ce *transport.ConnectionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "listen", ce.Op)
}

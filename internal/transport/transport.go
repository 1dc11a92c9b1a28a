// Package transport establishes the single TCP stream frames travel over.
//
// Either end may listen; once connected the stream only carries frames from
// the sender to the receiver.
package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"
)

// DefaultPort is the port the console listened on.
const DefaultPort = 301

// ResolutionError means the peer host name could not be resolved.
type ResolutionError struct {
	Host string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Host, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ConnectionError covers socket creation, bind, listen, accept and connect
// failures.
type ConnectionError struct {
	Op   string
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// WithDefaultPort appends DefaultPort to addr if it names no port.
func WithDefaultPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, strconv.Itoa(DefaultPort))
}

// Config controls stream establishment.
type Config struct {
	DialTimeout time.Duration
	Resolver    *net.Resolver
}

func (c Config) resolver() *net.Resolver {
	if c.Resolver != nil {
		return c.Resolver
	}
	return net.DefaultResolver
}

// Dial resolves the peer and connects to it. Resolution happens first so
// that an unknown host is reported as a ResolutionError.
func Dial(ctx context.Context, addr string, cfg Config, logger *slog.Logger) (net.Conn, error) {
	addr = WithDefaultPort(addr)
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, &ResolutionError{Host: addr, Err: err}
	}

	ips, err := cfg.resolver().LookupIPAddr(ctx, host)
	if err != nil {
		return nil, &ResolutionError{Host: host, Err: err}
	}
	if len(ips) == 0 {
		return nil, &ResolutionError{Host: host, Err: errors.New("no addresses")}
	}

	d := &net.Dialer{Timeout: cfg.DialTimeout}
	var lastErr error
	for _, ip := range ips {
		target := net.JoinHostPort(ip.String(), port)
		logger.Debug("connecting", "addr", target)
		conn, err := d.DialContext(ctx, "tcp", target)
		if err == nil {
			logger.Info("connected", "remote", conn.RemoteAddr().String())
			return conn, nil
		}
		lastErr = err
	}
	return nil, &ConnectionError{Op: "connect", Addr: addr, Err: lastErr}
}

// Listener accepts exactly one peer.
type Listener struct {
	ln     net.Listener
	logger *slog.Logger
}

// Listen binds addr (DefaultPort if none given).
func Listen(addr string, logger *slog.Logger) (*Listener, error) {
	addr = WithDefaultPort(addr)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, &ConnectionError{Op: "listen", Addr: addr, Err: err}
	}
	logger.Info("listening", "addr", ln.Addr().String())
	return &Listener{ln: ln, logger: logger}, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Accept waits for one peer and closes the listening socket afterwards.
// Cancelling ctx aborts the wait.
func (l *Listener) Accept(ctx context.Context) (net.Conn, error) {
	defer l.ln.Close()

	stop := context.AfterFunc(ctx, func() { _ = l.ln.Close() })
	defer stop()

	conn, err := l.ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ConnectionError{Op: "accept", Addr: l.ln.Addr().String(), Err: err}
	}
	l.logger.Info("peer connected", "remote", conn.RemoteAddr().String())
	return conn, nil
}

// Close releases the listening socket.
func (l *Listener) Close() error {
	err := l.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

package cmd

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/Alia5/NetPad/internal/transport"
)

// openStream either waits for the peer on addr or connects to it.
func openStream(ctx context.Context, listen bool, addr string, timeout time.Duration, logger *slog.Logger) (net.Conn, error) {
	if listen {
		ln, err := transport.Listen(addr, logger)
		if err != nil {
			return nil, err
		}
		defer ln.Close()
		return ln.Accept(ctx)
	}
	return transport.Dial(ctx, addr, transport.Config{DialTimeout: timeout}, logger)
}

package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/NetPad/internal/log"
	"github.com/Alia5/NetPad/internal/receiver"
	"github.com/Alia5/NetPad/vdev"
	"github.com/Alia5/NetPad/wire"
)

type Receive struct {
	Peer               string        `arg:"" help:"Sender address (host[:port]), or the listen address with --listen" env:"NETPAD_PEER"`
	Listen             bool          `help:"Wait for the sender to connect instead of dialing it" env:"NETPAD_RECEIVE_LISTEN"`
	Variant            string        `help:"Frame variant (see 'netpad variants')" default:"stick" env:"NETPAD_VARIANT"`
	Radius             int32         `help:"Declared axis range is [-radius, radius]" default:"128" env:"NETPAD_RADIUS"`
	DeviceName         string        `help:"Virtual device name" default:"NetWii Controller" env:"NETPAD_DEVICE_NAME"`
	Sink               string        `help:"Event sink: uinput or log" enum:"uinput,log" default:"uinput" env:"NETPAD_SINK"`
	AllowMissingDevice bool          `help:"Keep receiving and drop events if the virtual device cannot be created" env:"NETPAD_ALLOW_MISSING_DEVICE"`
	Status             string        `help:"Live status line: auto, on or off" enum:"auto,on,off" default:"auto" env:"NETPAD_STATUS"`
	DialTimeout        time.Duration `help:"Connect timeout" default:"5s" env:"NETPAD_DIAL_TIMEOUT"`
}

// Run is called by Kong when the receive command is executed.
func (c *Receive) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(ctx, logger, rawLogger)
}

func (c *Receive) run(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	v, err := wire.Lookup(c.Variant)
	if err != nil {
		return err
	}

	var open vdev.Opener = vdev.OpenUinput
	if c.Sink == "log" {
		open = vdev.LogOpener(logger)
	}
	policy := vdev.PolicyRequired
	if c.AllowMissingDevice {
		policy = vdev.PolicyDegraded
	}
	em := vdev.NewEmitter(vdev.LayoutFor(v, c.Radius, c.DeviceName), open, policy, logger)
	if err := em.Open(); err != nil {
		return err
	}
	defer func() {
		if err := em.Close(); err != nil {
			logger.Warn("closing virtual device", "error", err)
		}
		st := em.Stats()
		logger.Debug("emitter stats", "batches", st.Batches, "dropped", st.Dropped, "write_errors", st.WriteErrors)
	}()

	logger.Info("Starting NetPad receiver", "variant", v.Name, "frame_bytes", v.Size(), "peer", c.Peer)
	conn, err := openStream(ctx, c.Listen, c.Peer, c.DialTimeout, logger)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer conn.Close()
	stopClose := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stopClose()

	rcv := receiver.New(conn, v, em, logger.With("remote", conn.RemoteAddr().String()), rawLogger)
	if st := newStatusLine(c.Status, os.Stdout, v); st != nil {
		rcv.OnFrame = st.update
		defer st.done()
	}
	return rcv.Run(ctx)
}

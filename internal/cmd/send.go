package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Alia5/NetPad/controller"
	"github.com/Alia5/NetPad/internal/log"
	"github.com/Alia5/NetPad/internal/sender"
	"github.com/Alia5/NetPad/wire"
)

type Send struct {
	Addr         string        `arg:"" optional:"" help:"Listen address, or the receiver address with --dial" default:":301" env:"NETPAD_SEND_ADDR"`
	Dial         bool          `help:"Connect to the receiver instead of waiting for it" env:"NETPAD_SEND_DIAL"`
	Variant      string        `help:"Frame variant (see 'netpad variants')" default:"stick" env:"NETPAD_VARIANT"`
	Source       string        `help:"Controller source: joystick or demo" enum:"joystick,demo" default:"joystick" env:"NETPAD_SOURCE"`
	Joystick     int           `help:"Host joystick index" default:"0" env:"NETPAD_JOYSTICK"`
	Interval     time.Duration `help:"Delay between polls, 0 polls continuously" default:"1ms" env:"NETPAD_INTERVAL"`
	ResetButtons string        `help:"Button mask ending the session while held, e.g. 0x1000; 0 disables" default:"0" env:"NETPAD_RESET_BUTTONS"`
	DialTimeout  time.Duration `help:"Connect timeout with --dial" default:"5s" env:"NETPAD_DIAL_TIMEOUT"`
}

// Run is called by Kong when the send command is executed.
func (c *Send) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(ctx, logger, rawLogger)
}

func (c *Send) run(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	v, err := wire.Lookup(c.Variant)
	if err != nil {
		return err
	}
	reset, err := parseMask(c.ResetButtons)
	if err != nil {
		return err
	}

	src, closeSrc, err := c.openSource(v, logger)
	if err != nil {
		return err
	}
	defer closeSrc.Close()

	logger.Info("Starting NetPad sender", "variant", v.Name, "frame_bytes", v.Size(), "source", c.Source)
	conn, err := openStream(ctx, !c.Dial, c.Addr, c.DialTimeout, logger)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer conn.Close()

	s := sender.New(src, conn, v, sender.Config{
		Interval:     c.Interval,
		ResetButtons: reset,
	}, logger.With("remote", conn.RemoteAddr().String()), rawLogger)
	return s.Run(ctx)
}

func (c *Send) openSource(v wire.Variant, logger *slog.Logger) (controller.Reader, io.Closer, error) {
	switch c.Source {
	case "demo":
		return controller.NewSynthetic(v), nopCloser{}, nil
	default:
		js, err := controller.OpenJoystick(c.Joystick, v)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("joystick opened", "index", c.Joystick, "name", js.Name())
		return js, js, nil
	}
}

func parseMask(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	m, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid button mask %q: %w", s, err)
	}
	return uint32(m), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

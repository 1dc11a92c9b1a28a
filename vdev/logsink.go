package vdev

import (
	"log/slog"
)

// LogSink writes each batch to a logger instead of a device.
type LogSink struct {
	logger *slog.Logger
	held   []uint16
	axes   []int32
}

// LogOpener returns an Opener producing LogSinks.
func LogOpener(logger *slog.Logger) Opener {
	return func(l Layout) (Sink, error) {
		logger.Info("log sink registered", "name", l.Name, "keys", l.KeyCount, "axisCodes", l.AxisCodes)
		return &LogSink{logger: logger}, nil
	}
}

func (s *LogSink) WriteEvent(ev Event) error {
	switch ev.Type {
	case EventKey:
		if ev.Pressed() {
			s.held = append(s.held, ev.Code)
		}
	case EventAbs:
		s.axes = append(s.axes, ev.Value)
	case EventSync:
		s.logger.Debug("report", "time", ev.Time, "held", s.held, "axes", s.axes)
		s.held = s.held[:0]
		s.axes = s.axes[:0]
	}
	return nil
}

func (s *LogSink) Close() error { return nil }

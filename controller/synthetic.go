package controller

import (
	"time"

	"github.com/Alia5/NetPad/wire"
)

// Synthetic is a deterministic fake pad: every axis follows a sine wave
// shifted by a fraction of Period, and one button is held at a time,
// advancing once per second.
type Synthetic struct {
	variant wire.Variant
	start   time.Time
	now     func() time.Time

	Period time.Duration
}

// NewSynthetic returns a synthetic reader that starts its waves now.
func NewSynthetic(v wire.Variant) *Synthetic {
	return newSyntheticAt(v, time.Now)
}

func newSyntheticAt(v wire.Variant, now func() time.Time) *Synthetic {
	return &Synthetic{
		variant: v,
		start:   now(),
		now:     now,
		Period:  4 * time.Second,
	}
}

func (s *Synthetic) Poll() (wire.Frame, error) {
	el := s.now().Sub(s.start)
	phase := el.Seconds() / s.Period.Seconds()

	samples := make([]int16, len(s.variant.Axes))
	for i := range samples {
		samples[i] = wave(phase + float64(i)/float64(len(samples)))
	}

	bits := 8 * s.variant.Buttons.Width
	buttons := uint32(1) << (int(el/time.Second) % bits)
	return Quantize(s.variant, buttons, samples, NativeBits), nil
}

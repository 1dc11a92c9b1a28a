// Package controller polls a physical or synthetic controller into frames.
package controller

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/Alia5/NetPad/wire"
)

// NativeBits is the sample width host controller APIs report axes in.
const NativeBits = 16

// Reader yields the latest controller snapshot.
//
// Poll never waits for new input; consecutive calls may return identical
// frames.
type Reader interface {
	Poll() (wire.Frame, error)
}

// Narrow quantizes a signed sample from a srcBits wide range down to dstBits
// by arithmetic shift. The precision loss is intended.
func Narrow[T constraints.Signed](v T, srcBits, dstBits int) int32 {
	if dstBits >= srcBits {
		return int32(v)
	}
	return int32(int64(v) >> (srcBits - dstBits))
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Integer](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// Quantize builds a frame of variant v from a button mask and native
// srcBits wide axis samples. Buttons beyond the variant's width are dropped,
// missing samples read as 0 and surplus samples are ignored.
func Quantize[T constraints.Signed](v wire.Variant, buttons uint32, samples []T, srcBits int) wire.Frame {
	f := wire.Frame{Buttons: buttons & v.ButtonMask()}
	lim := int64(1)<<(srcBits-1) - 1
	for i, a := range v.Axes {
		if i >= len(samples) {
			break
		}
		s := Clamp(int64(samples[i]), -lim-1, lim)
		f.Axes[i] = Narrow(s, srcBits, a.Width*8)
	}
	return f
}

// wave returns a sine sample in the native range for phase t (cycles).
func wave(t float64) int16 {
	return int16(math.Round(math.Sin(2*math.Pi*t) * math.MaxInt16))
}

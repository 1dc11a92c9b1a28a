package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrShortRead means the stream ended before a whole frame arrived.
	ErrShortRead = errors.New("wire: short read")
	// ErrShortWrite means fewer than Size bytes of a frame were written.
	ErrShortWrite = errors.New("wire: short write")
)

// Frame is one polled controller snapshot in host representation.
//
// Only the first len(Variant.Axes) entries of Axes are meaningful.
type Frame struct {
	Buttons uint32
	Axes    [MaxAxes]int32
}

// Held reports whether button bit i is set.
func (f Frame) Held(i int) bool {
	if i < 0 || i >= 32 {
		return false
	}
	return f.Buttons&(1<<uint(i)) != 0
}

// Encode returns the wire bytes of f.
func (v Variant) Encode(f Frame) []byte {
	b := make([]byte, v.Size())
	v.Put(b, f)
	return b
}

// Put writes the wire bytes of f into dst and returns the number of bytes
// written, always Size. It panics if dst is too short, like the
// encoding/binary Put helpers.
//
// Fields are stored in the sender's byte order as is. Values wider than
// their field are truncated to the field width.
func (v Variant) Put(dst []byte, f Frame) int {
	_ = dst[v.Size()-1]
	o := putField(v, dst, v.Buttons.Width, f.Buttons)
	for i, a := range v.Axes {
		o += putField(v, dst[o:], a.Width, uint32(f.Axes[i]))
	}
	return o
}

func putField(v Variant, dst []byte, width int, val uint32) int {
	switch width {
	case 1:
		dst[0] = byte(val)
	case 2:
		v.Order.PutUint16(dst, uint16(val))
	case 4:
		v.Order.PutUint32(dst, val)
	}
	return width
}

// Decode reads exactly one frame from the start of b, swapping every field
// from the sender's byte order.
func (v Variant) Decode(b []byte) (Frame, error) {
	if len(b) < v.Size() {
		return Frame{}, fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, len(b), v.Size())
	}
	var f Frame
	o := 0

	get := func(fl Field) uint32 {
		var u uint32
		switch fl.Width {
		case 1:
			u = uint32(b[o])
			if fl.Signed {
				u = uint32(int32(int8(b[o])))
			}
		case 2:
			u = uint32(v.Order.Uint16(b[o : o+2]))
			if fl.Signed {
				u = uint32(int32(int16(u)))
			}
		case 4:
			u = v.Order.Uint32(b[o : o+4])
		}
		o += fl.Width
		return u
	}

	f.Buttons = get(v.Buttons)
	for i, a := range v.Axes {
		f.Axes[i] = int32(get(a))
		if v.IdleSentinel && f.Axes[i] == 1 {
			f.Axes[i] = 0
		}
	}
	return f, nil
}

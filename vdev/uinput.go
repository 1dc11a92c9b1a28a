package vdev

import (
	"encoding/binary"
)

// uinput ioctl requests and structure sizes from linux/uinput.h.
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetAbsBit  = 0x40045567

	uinputMaxNameSize = 80
	absCnt            = 64
	busVirtual        = 0x06

	// name + input_id + ff_effects_max + absmax/absmin/absfuzz/absflat
	userDevSize = uinputMaxNameSize + 8 + 4 + 4*absCnt*4
)

// UinputPaths are tried in order when opening the uinput control device.
var UinputPaths = []string{
	"/dev/uinput",
	"/dev/input/uinput",
	"/dev/misc/uinput",
}

// eventSize is the size of struct input_event for a timeval of tvSize bytes.
func eventSize(tvSize int) int { return tvSize + 2 + 2 + 4 }

// putEvent writes ev as struct input_event into dst in host byte order.
// tvSize is 16 on 64-bit and 8 on 32-bit kernels.
func putEvent(dst []byte, ev Event, tvSize int) int {
	sec := ev.Time.Unix()
	usec := int64(ev.Time.Nanosecond() / 1000)
	o := 0
	if tvSize == 16 {
		binary.NativeEndian.PutUint64(dst[0:], uint64(sec))
		binary.NativeEndian.PutUint64(dst[8:], uint64(usec))
	} else {
		binary.NativeEndian.PutUint32(dst[0:], uint32(sec))
		binary.NativeEndian.PutUint32(dst[4:], uint32(usec))
	}
	o += tvSize
	binary.NativeEndian.PutUint16(dst[o:], uint16(ev.Type))
	binary.NativeEndian.PutUint16(dst[o+2:], ev.Code)
	binary.NativeEndian.PutUint32(dst[o+4:], uint32(ev.Value))
	return o + 8
}

// userDev encodes struct uinput_user_dev for the layout.
func userDev(l Layout) []byte {
	b := make([]byte, userDevSize)
	copy(b[:uinputMaxNameSize-1], l.Name)
	o := uinputMaxNameSize
	binary.NativeEndian.PutUint16(b[o:], busVirtual)
	// vendor, product, version and ff_effects_max stay 0
	o += 8 + 4

	absmax := o
	absmin := absmax + 4*absCnt
	for _, c := range l.AxisCodes {
		if int(c) >= absCnt {
			continue
		}
		binary.NativeEndian.PutUint32(b[absmax+4*int(c):], uint32(l.Radius))
		binary.NativeEndian.PutUint32(b[absmin+4*int(c):], uint32(-l.Radius))
	}
	return b
}

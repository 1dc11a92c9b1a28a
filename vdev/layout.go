package vdev

import (
	"time"

	"github.com/Alia5/NetPad/wire"
)

// Layout defaults.
const (
	DefaultKeyCount = 16
	DefaultRadius   = 128
	DefaultName     = "NetWii Controller"
)

// axisCodes maps variant axis names onto device axes. Motion frames put
// orientation on the main axes and acceleration on the rotational ones.
var axisCodes = map[string]uint16{
	"stick1X": AbsX,
	"stick1Y": AbsY,
	"stick2X": AbsRX,
	"stick2Y": AbsRY,
	"accelX":  AbsRX,
	"accelY":  AbsRY,
	"accelZ":  AbsRZ,
	"orientX": AbsX,
	"orientY": AbsY,
	"orientZ": AbsZ,
}

// Layout is what the virtual device declares at registration and how frames
// map onto it.
type Layout struct {
	Name string
	// KeyCount key codes starting at KeyBase are declared, regardless of how
	// many buttons the variant actually uses. Unused codes report released.
	KeyBase  uint16
	KeyCount int
	// AxisCodes holds one device axis per frame axis, in frame order.
	AxisCodes []uint16
	// Radius bounds every axis to [-Radius, Radius].
	Radius int32
}

// LayoutFor derives the device layout for frames of variant v.
func LayoutFor(v wire.Variant, radius int32, name string) Layout {
	if radius <= 0 {
		radius = DefaultRadius
	}
	if name == "" {
		name = DefaultName
	}
	codes := make([]uint16, len(v.Axes))
	for i, a := range v.Axes {
		c, ok := axisCodes[a.Name]
		if !ok {
			c = uint16(i)
		}
		codes[i] = c
	}
	return Layout{
		Name:      name,
		KeyBase:   BtnJoystick,
		KeyCount:  DefaultKeyCount,
		AxisCodes: codes,
		Radius:    radius,
	}
}

// BatchLen is the number of events Batch produces per frame.
func (l Layout) BatchLen() int { return l.KeyCount + len(l.AxisCodes) + 1 }

// Batch appends the report for f to dst: all key events, then all axis
// events in frame order, then one sync event, every one stamped with ts.
func (l Layout) Batch(dst []Event, f wire.Frame, ts time.Time) []Event {
	for i := 0; i < l.KeyCount; i++ {
		var v int32
		if f.Held(i) {
			v = 1
		}
		dst = append(dst, Event{Time: ts, Type: EventKey, Code: l.KeyBase + uint16(i), Value: v})
	}
	for i, c := range l.AxisCodes {
		dst = append(dst, Event{Time: ts, Type: EventAbs, Code: c, Value: f.Axes[i]})
	}
	return append(dst, Event{Time: ts, Type: EventSync, Code: SynReport})
}

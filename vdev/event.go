// Package vdev turns decoded frames into virtual input device reports.
//
// One frame becomes one batch: a key event per button code, an absolute
// axis event per axis, then a single sync event. The device commits
// everything it received since the previous sync when the sync arrives, so
// the order within a batch is fixed.
package vdev

import (
	"fmt"
	"time"
)

// EventType mirrors the Linux input event types used by the device.
type EventType uint16

const (
	EventSync EventType = 0x00
	EventKey  EventType = 0x01
	EventAbs  EventType = 0x03
)

func (t EventType) String() string {
	switch t {
	case EventSync:
		return "SYN"
	case EventKey:
		return "KEY"
	case EventAbs:
		return "ABS"
	default:
		return fmt.Sprintf("0x%02x", uint16(t))
	}
}

// Event codes from linux/input-event-codes.h.
const (
	SynReport   uint16 = 0x00
	BtnJoystick uint16 = 0x120

	AbsX  uint16 = 0x00
	AbsY  uint16 = 0x01
	AbsZ  uint16 = 0x02
	AbsRX uint16 = 0x03
	AbsRY uint16 = 0x04
	AbsRZ uint16 = 0x05
)

// Event is one typed input event. All events of a batch share Time.
type Event struct {
	Time  time.Time
	Type  EventType
	Code  uint16
	Value int32
}

// Pressed reports the state of a key event.
func (e Event) Pressed() bool { return e.Type == EventKey && e.Value != 0 }

func (e Event) String() string {
	return fmt.Sprintf("%s code=0x%03x value=%d", e.Type, e.Code, e.Value)
}

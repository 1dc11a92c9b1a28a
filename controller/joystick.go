package controller

import (
	"fmt"

	"github.com/0xcafed00d/joystick"

	"github.com/Alia5/NetPad/wire"
)

// Joystick reads a host joystick. The underlying driver keeps the latest
// state updated in the background, so Poll returns immediately.
//
// For the motion variant axes 0-2 are taken as acceleration and 3-5 as
// orientation.
type Joystick struct {
	js      joystick.Joystick
	variant wire.Variant
}

// OpenJoystick opens host joystick number index.
func OpenJoystick(index int, v wire.Variant) (*Joystick, error) {
	js, err := joystick.Open(index)
	if err != nil {
		return nil, fmt.Errorf("open joystick %d: %w", index, err)
	}
	return NewJoystick(js, v), nil
}

// NewJoystick wraps an already opened joystick.
func NewJoystick(js joystick.Joystick, v wire.Variant) *Joystick {
	return &Joystick{js: js, variant: v}
}

// Name returns the driver reported device name.
func (j *Joystick) Name() string { return j.js.Name() }

// Poll returns the current joystick state narrowed to the variant.
func (j *Joystick) Poll() (wire.Frame, error) {
	st, err := j.js.Read()
	if err != nil {
		return wire.Frame{}, fmt.Errorf("read joystick: %w", err)
	}
	return Quantize(j.variant, st.Buttons, st.AxisData, NativeBits), nil
}

// Close releases the joystick.
func (j *Joystick) Close() error {
	j.js.Close()
	return nil
}

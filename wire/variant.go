// Package wire defines the fixed-size frames a console streams to a host.
//
// A frame is a packed concatenation of a button bitmask followed by a fixed
// number of axis samples. There is no length prefix, delimiter or checksum:
// frame boundaries are recovered purely from the byte count of the variant in
// use. Every multi-byte field is stored in the console's byte order
// (big-endian); the receiver swaps it into host order while decoding.
//
// Both ends have to agree on the variant out of band, there is no in-band
// negotiation.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// MaxAxes is the largest number of axis samples any variant may carry.
const MaxAxes = 6

// ErrUnknownVariant is returned by Lookup for names that were never registered.
var ErrUnknownVariant = errors.New("wire: unknown variant")

// Field describes one fixed-width field of a frame.
type Field struct {
	Name   string
	Width  int // bytes: 1, 2 or 4
	Signed bool
}

func (f Field) typeName() string {
	p := "u"
	if f.Signed {
		p = "i"
	}
	return fmt.Sprintf("%s%d", p, f.Width*8)
}

// Variant is a frame shape: field widths and their order on the wire.
type Variant struct {
	Name    string
	Buttons Field
	Axes    []Field
	// IdleSentinel maps every decoded axis value of exactly 1 to 0.
	//
	// The console's acceleration transform reports 1 instead of 0 while the
	// controller rests. The literal value is the only way to tell the
	// artifact apart from genuine motion, so it may need revisiting for
	// other controller hardware.
	IdleSentinel bool
	// Order is the sender's byte order. Encoding never converts; decoding
	// swaps from Order to host values.
	Order binary.ByteOrder
}

// Built-in variants.
var (
	// Stick is the GameCube pad frame: 16 button bits and two
	// analog sticks quantized to int8.
	Stick = Variant{
		Name:    "stick",
		Buttons: Field{Name: "buttons", Width: 2},
		Axes: []Field{
			{Name: "stick1X", Width: 1, Signed: true},
			{Name: "stick1Y", Width: 1, Signed: true},
			{Name: "stick2X", Width: 1, Signed: true},
			{Name: "stick2Y", Width: 1, Signed: true},
		},
		Order: binary.BigEndian,
	}

	// Stick32 shares the Stick wire layout. Only the button word is
	// swapped; single byte axes have no byte order. Receivers hold the
	// buttons in a 32 bit mask.
	Stick32 = Variant{
		Name:    "stick32",
		Buttons: Field{Name: "buttons", Width: 2},
		Axes:    Stick.Axes,
		Order:   binary.BigEndian,
	}

	// Motion carries 32 button bits plus a derived acceleration vector and
	// an orientation vector.
	Motion = Variant{
		Name:    "motion",
		Buttons: Field{Name: "buttons", Width: 4, Signed: true},
		Axes: []Field{
			{Name: "accelX", Width: 4, Signed: true},
			{Name: "accelY", Width: 4, Signed: true},
			{Name: "accelZ", Width: 4, Signed: true},
			{Name: "orientX", Width: 4, Signed: true},
			{Name: "orientY", Width: 4, Signed: true},
			{Name: "orientZ", Width: 4, Signed: true},
		},
		IdleSentinel: true,
		Order:        binary.BigEndian,
	}
)

// Size returns the exact byte length of one frame of this variant.
func (v Variant) Size() int {
	n := v.Buttons.Width
	for _, a := range v.Axes {
		n += a.Width
	}
	return n
}

// ButtonMask returns the bits the button field can carry.
func (v Variant) ButtonMask() uint32 {
	if v.Buttons.Width >= 4 {
		return 0xffffffff
	}
	return 1<<(8*v.Buttons.Width) - 1
}

// AxisBounds returns the value range representable by axis i.
func (v Variant) AxisBounds(i int) (lo, hi int32) {
	w := v.Axes[i].Width
	if w >= 4 {
		return -1 << 31, 1<<31 - 1
	}
	bits := 8 * w
	return -1 << (bits - 1), 1<<(bits-1) - 1
}

// Validate checks that the variant can be encoded.
func (v Variant) Validate() error {
	if v.Name == "" {
		return errors.New("wire: variant without name")
	}
	if v.Order == nil {
		return fmt.Errorf("wire: variant %s: missing byte order", v.Name)
	}
	if len(v.Axes) == 0 || len(v.Axes) > MaxAxes {
		return fmt.Errorf("wire: variant %s: %d axes, want 1..%d", v.Name, len(v.Axes), MaxAxes)
	}
	fields := append([]Field{v.Buttons}, v.Axes...)
	for _, f := range fields {
		switch f.Width {
		case 1, 2, 4:
		default:
			return fmt.Errorf("wire: variant %s: field %s has width %d", v.Name, f.Name, f.Width)
		}
	}
	return nil
}

// String describes the layout, e.g. "stick: u16 buttons, 4x i8 (6 bytes)".
func (v Variant) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %s", v.Name, v.Buttons.typeName(), v.Buttons.Name)
	for i := 0; i < len(v.Axes); {
		j := i
		for j < len(v.Axes) && v.Axes[j].typeName() == v.Axes[i].typeName() {
			j++
		}
		names := make([]string, 0, j-i)
		for _, a := range v.Axes[i:j] {
			names = append(names, a.Name)
		}
		fmt.Fprintf(&b, ", %dx %s [%s]", j-i, v.Axes[i].typeName(), strings.Join(names, " "))
		i = j
	}
	fmt.Fprintf(&b, " (%d bytes)", v.Size())
	return b.String()
}

var (
	variants   = make(map[string]Variant)
	variantsMu sync.RWMutex
)

func init() {
	for _, v := range []Variant{Stick, Stick32, Motion} {
		if err := Register(v); err != nil {
			panic(err)
		}
	}
}

// Register makes a variant selectable by name. Names are case-insensitive;
// registering an existing name replaces it.
func Register(v Variant) error {
	if err := v.Validate(); err != nil {
		return err
	}
	variantsMu.Lock()
	defer variantsMu.Unlock()
	variants[strings.ToLower(v.Name)] = v
	return nil
}

// Lookup returns the registered variant with the given name.
func Lookup(name string) (Variant, error) {
	variantsMu.RLock()
	defer variantsMu.RUnlock()
	v, ok := variants[strings.ToLower(name)]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// Names lists the registered variant names in sorted order.
func Names() []string {
	variantsMu.RLock()
	defer variantsMu.RUnlock()
	out := make([]string, 0, len(variants))
	for n := range variants {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

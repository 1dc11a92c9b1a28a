package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Alia5/NetPad/wire"
)

// statusLine keeps one terminal line updated with the latest frame.
type statusLine struct {
	w       io.Writer
	variant wire.Variant
	buf     strings.Builder
}

func newStatusLine(mode string, f *os.File, v wire.Variant) *statusLine {
	switch mode {
	case "off":
		return nil
	case "auto":
		if !term.IsTerminal(int(f.Fd())) {
			return nil
		}
	}
	return &statusLine{w: f, variant: v}
}

func (s *statusLine) update(f wire.Frame) {
	s.buf.Reset()
	width := 8 * s.variant.Buttons.Width
	fmt.Fprintf(&s.buf, "\r%0*b", width, f.Buttons&s.variant.ButtonMask())
	for i, a := range s.variant.Axes {
		fmt.Fprintf(&s.buf, " %s=%-6d", a.Name, f.Axes[i])
	}
	_, _ = io.WriteString(s.w, s.buf.String())
}

// done moves the cursor off the status line.
func (s *statusLine) done() {
	_, _ = io.WriteString(s.w, "\n")
}

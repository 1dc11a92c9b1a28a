package log

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records frames as they cross the wire.
type RawLogger interface {
	// Log writes one frame; outbound is true for frames sent by this
	// process.
	Log(outbound bool, data []byte)
}

type rawLogger struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

type nopRaw struct{}

func (nopRaw) Log(bool, []byte) {}

// NewRaw returns a RawLogger writing hex lines to w. A nil writer discards
// everything.
func NewRaw(w io.Writer) RawLogger {
	if w == nil {
		return nopRaw{}
	}
	return &rawLogger{w: w, now: time.Now}
}

func (r *rawLogger) Log(outbound bool, data []byte) {
	dir := "<-"
	if outbound {
		dir = "->"
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.w, "%s %s %2d %s\n", r.now().Format("15:04:05.000000"), dir, len(data), hex.EncodeToString(data))
}

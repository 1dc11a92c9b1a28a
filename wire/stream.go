package wire

import (
	"errors"
	"fmt"
	"io"
)

// Reader recovers frames from a byte stream with no message boundaries.
type Reader struct {
	r   io.Reader
	v   Variant
	buf []byte
}

// NewReader returns a Reader decoding frames of variant v from r.
func NewReader(r io.Reader, v Variant) *Reader {
	return &Reader{r: r, v: v, buf: make([]byte, v.Size())}
}

// Variant returns the frame shape the reader decodes.
func (r *Reader) Variant() Variant { return r.v }

// Next blocks until exactly one frame worth of bytes has been read and
// returns them without decoding. The slice is reused by the next call.
//
// If the stream ends before a whole frame arrived the error wraps
// ErrShortRead; no partial frame is ever returned.
func (r *Reader) Next() ([]byte, error) {
	n, err := io.ReadFull(r.r, r.buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, n, len(r.buf))
		}
		return nil, err
	}
	return r.buf, nil
}

// ReadFrame reads and decodes one frame.
func (r *Reader) ReadFrame() (Frame, error) {
	b, err := r.Next()
	if err != nil {
		return Frame{}, err
	}
	return r.v.Decode(b)
}

// Raw returns the wire bytes of the last frame read. The slice is reused by
// the next ReadFrame call.
func (r *Reader) Raw() []byte { return r.buf }

// WriteFrame writes the already encoded frame b with a single Write call.
// A write covering fewer than len(b) bytes wraps ErrShortWrite.
func WriteFrame(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if n < len(b) {
		if err == nil {
			err = io.ErrShortWrite
		}
		return fmt.Errorf("%w: wrote %d of %d bytes: %w", ErrShortWrite, n, len(b), err)
	}
	return err
}

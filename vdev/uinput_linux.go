//go:build linux

package vdev

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

type uinputSink struct {
	fd     int
	tvSize int
	buf    []byte
}

// OpenUinput creates a virtual device through the uinput driver.
func OpenUinput(l Layout) (Sink, error) {
	fd := -1
	var openErr error
	for _, p := range UinputPaths {
		f, err := unix.Open(p, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err == nil {
			fd = f
			break
		}
		openErr = errors.Join(openErr, fmt.Errorf("%s: %w", p, err))
	}
	if fd < 0 {
		return nil, fmt.Errorf("%w: open uinput: %w", ErrDeviceUnavailable, openErr)
	}

	if err := setup(fd, l); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}

	tv := int(unsafe.Sizeof(unix.Timeval{}))
	return &uinputSink{fd: fd, tvSize: tv, buf: make([]byte, eventSize(tv))}, nil
}

func setup(fd int, l Layout) error {
	for _, ev := range []EventType{EventKey, EventAbs} {
		if err := unix.IoctlSetInt(fd, uiSetEvBit, int(ev)); err != nil {
			return fmt.Errorf("UI_SET_EVBIT %s: %w", ev, err)
		}
	}
	for i := 0; i < l.KeyCount; i++ {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(l.KeyBase)+i); err != nil {
			return fmt.Errorf("UI_SET_KEYBIT %d: %w", int(l.KeyBase)+i, err)
		}
	}
	for _, c := range l.AxisCodes {
		if err := unix.IoctlSetInt(fd, uiSetAbsBit, int(c)); err != nil {
			return fmt.Errorf("UI_SET_ABSBIT %d: %w", c, err)
		}
	}

	dev := userDev(l)
	n, err := unix.Write(fd, dev)
	if err != nil {
		return fmt.Errorf("write uinput_user_dev: %w", err)
	}
	if n != len(dev) {
		return fmt.Errorf("write uinput_user_dev: wrote %d of %d bytes", n, len(dev))
	}

	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return fmt.Errorf("UI_DEV_CREATE: %w", err)
	}
	return nil
}

func (s *uinputSink) WriteEvent(ev Event) error {
	n := putEvent(s.buf, ev, s.tvSize)
	w, err := unix.Write(s.fd, s.buf[:n])
	if err != nil {
		return err
	}
	if w != n {
		return fmt.Errorf("short event write: %d of %d bytes", w, n)
	}
	return nil
}

func (s *uinputSink) Close() error {
	if s.fd < 0 {
		return nil
	}
	destroyErr := unix.IoctlSetInt(s.fd, uiDevDestroy, 0)
	closeErr := unix.Close(s.fd)
	s.fd = -1
	return errors.Join(destroyErr, closeErr)
}

//go:build linux

package watcher

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Terminal polls a file descriptor for pending input. When the descriptor
// is a TTY it is switched to non-canonical, no-echo mode so a single key is
// enough; the previous mode is restored by Close.
type Terminal struct {
	fd    int
	saved *unix.Termios
}

func NewTerminal(f *os.File) (InputCloser, error) {
	t := &Terminal{fd: int(f.Fd())}

	old, err := unix.IoctlGetTermios(t.fd, unix.TCGETS)
	if err != nil {
		// not a terminal: pipes and files are still pollable
		return t, nil
	}
	raw := *old
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(t.fd, unix.TCSETS, &raw); err != nil {
		return nil, fmt.Errorf("set terminal mode: %w", err)
	}
	t.saved = old
	return t, nil
}

func (t *Terminal) Poll() (bool, error) {
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, fmt.Errorf("poll: %w", err)
	}
	if n == 0 || fds[0].Revents&(unix.POLLIN|unix.POLLHUP) == 0 {
		return false, nil
	}

	var b [1]byte
	m, err := unix.Read(t.fd, b[:])
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, fmt.Errorf("read: %w", err)
	}
	// m == 0 is end of input, not a key
	return m > 0, nil
}

func (t *Terminal) Close() error {
	if t.saved == nil {
		return nil
	}
	if err := unix.IoctlSetTermios(t.fd, unix.TCSETS, t.saved); err != nil {
		return fmt.Errorf("restore terminal mode: %w", err)
	}
	t.saved = nil
	return nil
}

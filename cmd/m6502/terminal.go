package main

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	KEY_INTERRUPT = 0x03 // ^C, which raw mode no longer turns into SIGINT.
	KEY_DELETE    = 0x7F
	KEY_BACKSPACE = 0x08
)

// terminal adapts a raw mode tty for the console device.
type terminal struct {
	fd     int
	state  *term.State
	raw    bool
	in     io.Reader
	out    io.Writer
	cancel context.CancelFunc
}

// openTerminal puts stdin in raw mode, if it is a terminal.
// When it is not, stdin and stdout are returned unchanged.
func openTerminal(cancel context.CancelFunc) (tty *terminal, err error) {
	tty = &terminal{
		fd:     int(os.Stdin.Fd()),
		in:     os.Stdin,
		out:    os.Stdout,
		cancel: cancel,
	}

	if !term.IsTerminal(tty.fd) {
		return
	}

	tty.state, err = term.MakeRaw(tty.fd)
	tty.raw = err == nil

	return
}

// Close restores the terminal state.
func (tty *terminal) Close() (err error) {
	if tty.state == nil {
		return
	}

	err = term.Restore(tty.fd, tty.state)
	tty.state = nil
	tty.raw = false

	return
}

func (tty *terminal) Read(buff []byte) (n int, err error) {
	n, err = tty.in.Read(buff)
	if !tty.raw {
		return
	}

	for i, b := range buff[:n] {
		switch b {
		case '\r':
			buff[i] = '\n'
		case KEY_DELETE:
			buff[i] = KEY_BACKSPACE
		case KEY_INTERRUPT:
			tty.cancel()
			n = i
			return
		}
	}

	return
}

func (tty *terminal) Write(buff []byte) (n int, err error) {
	if !tty.raw {
		return tty.out.Write(buff)
	}

	for _, b := range buff {
		if b == '\n' {
			_, err = tty.out.Write([]byte{'\r'})
			if err != nil {
				return
			}
		}
		_, err = tty.out.Write([]byte{b})
		if err != nil {
			return
		}
		n++
	}

	return
}

// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/lassandro/goaw/pkg/video"
)

type key uint8

const (
	KEY_UP key = iota
	KEY_DOWN
	KEY_LEFT
	KEY_RIGHT
	KEY_ACTION
	KEY_QUIT
	KEY_COUNT
)

// Terminals only report presses, so a key counts as held for a while after
// its last repeat.
const KEY_HOLD = 150 * time.Millisecond

func parseKeys(data []byte) []key {
	var keys []key

	for i := 0; i < len(data); i++ {
		switch data[i] {
		case 0x1B:
			// Arrow keys: ESC [ A..D
			if i+2 < len(data) && data[i+1] == '[' {
				switch data[i+2] {
				case 'A':
					keys = append(keys, KEY_UP)
				case 'B':
					keys = append(keys, KEY_DOWN)
				case 'C':
					keys = append(keys, KEY_RIGHT)
				case 'D':
					keys = append(keys, KEY_LEFT)
				}

				i += 2
			} else {
				keys = append(keys, KEY_QUIT)
			}

		case 'w', 'k':
			keys = append(keys, KEY_UP)
		case 's', 'j':
			keys = append(keys, KEY_DOWN)
		case 'a', 'h':
			keys = append(keys, KEY_LEFT)
		case 'd', 'l':
			keys = append(keys, KEY_RIGHT)
		case ' ', '\r', '\n':
			keys = append(keys, KEY_ACTION)
		case 'q', 0x03:
			keys = append(keys, KEY_QUIT)
		}
	}

	return keys
}

// renderHalfBlocks draws a frame with one character per two pixel rows,
// sampling the frame down to fit cols by rows cells.
func renderHalfBlocks(w io.Writer, buffer *video.Buffer, palette *video.Palette, cols, rows int) {
	xstep := (video.WIDTH + max(cols, 1) - 1) / max(cols, 1)
	ystep := (video.HEIGHT + max(rows, 1)*2 - 1) / (max(rows, 1) * 2)

	fmt.Fprint(w, "\033[H")

	for cy := 0; cy < video.HEIGHT/(2*ystep); cy++ {
		top := 2 * cy * ystep

		for cx := 0; cx < video.WIDTH/xstep; cx++ {
			upper := palette[buffer.Pixel(cx*xstep, top)]
			lower := palette[buffer.Pixel(cx*xstep, top+ystep)]

			fmt.Fprintf(
				w,
				"\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm▀",
				upper.R, upper.G, upper.B,
				lower.R, lower.G, lower.B,
			)
		}

		fmt.Fprint(w, "\033[0m\r\n")
	}
}

type terminalFrontend struct {
	out  *bufio.Writer
	cols int
	rows int

	mutex   sync.Mutex
	pressed [KEY_COUNT]time.Time

	stop chan struct{}
	done chan struct{}
}

func newTerminalFrontend() (frontend, error) {
	if err := enterRawTerm(); err != nil {
		return nil, err
	}

	cols, rows := termSize()

	fe := &terminalFrontend{
		out:  bufio.NewWriter(os.Stdout),
		cols: cols,
		rows: rows - 1,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	// Hide the cursor and clear
	fmt.Fprint(fe.out, "\033[?25l\033[2J")
	fe.out.Flush()

	go fe.read()

	return fe, nil
}

func (fe *terminalFrontend) read() {
	defer close(fe.done)

	buf := make([]byte, 32)

	for {
		select {
		case <-fe.stop:
			return
		default:
		}

		n, err := unix.Read(termFd, buf)

		if n > 0 {
			fe.press(parseKeys(buf[:n]))
			continue
		}

		if err != nil && err != unix.EAGAIN && err != unix.EINTR {
			return
		}

		time.Sleep(5 * time.Millisecond)
	}
}

func (fe *terminalFrontend) press(keys []key) {
	fe.mutex.Lock()
	defer fe.mutex.Unlock()

	now := time.Now()

	for _, k := range keys {
		fe.pressed[k] = now
	}
}

func (fe *terminalFrontend) held(k key, now time.Time) bool {
	return !fe.pressed[k].IsZero() && now.Sub(fe.pressed[k]) < KEY_HOLD
}

func (fe *terminalFrontend) Input() Input {
	fe.mutex.Lock()
	defer fe.mutex.Unlock()

	now := time.Now()

	return Input{
		Up:     fe.held(KEY_UP, now),
		Down:   fe.held(KEY_DOWN, now),
		Left:   fe.held(KEY_LEFT, now),
		Right:  fe.held(KEY_RIGHT, now),
		Action: fe.held(KEY_ACTION, now),
	}
}

func (fe *terminalFrontend) Present(buffer *video.Buffer, palette *video.Palette) {
	renderHalfBlocks(fe.out, buffer, palette, fe.cols, fe.rows)
	fe.out.Flush()
}

func (fe *terminalFrontend) Run(interval time.Duration, step func() error) error {
	return runTicker(interval, func() error {
		fe.mutex.Lock()
		quit := !fe.pressed[KEY_QUIT].IsZero()
		fe.mutex.Unlock()

		if quit {
			return errQuit
		}

		return step()
	})
}

func (fe *terminalFrontend) Close() error {
	close(fe.stop)
	<-fe.done

	exitRawTerm()

	// Restore the cursor and attributes
	fmt.Fprint(fe.out, "\033[0m\033[?25h\r\n")

	return fe.out.Flush()
}

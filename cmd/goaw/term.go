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
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var termFd = int(os.Stdin.Fd())
var termRestore *term.State

// enterRawTerm switches stdin to unbuffered, non-blocking reads so keys can
// be polled between ticks.
func enterRawTerm() error {
	state, err := term.MakeRaw(termFd)

	if err != nil {
		return err
	}

	if err := unix.SetNonblock(termFd, true); err != nil {
		term.Restore(termFd, state)
		return err
	}

	termRestore = state

	return nil
}

func exitRawTerm() {
	if termRestore == nil {
		return
	}

	unix.SetNonblock(termFd, false)
	term.Restore(termFd, termRestore)

	termRestore = nil
}

// termSize falls back to 80x24 when stdout is not a terminal.
func termSize() (int, int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))

	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}

	return cols, rows
}

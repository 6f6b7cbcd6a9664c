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

package debugger

import (
	"io"
	"sync/atomic"

	"github.com/lassandro/goaw/pkg/assembler"
	"github.com/lassandro/goaw/pkg/machine"
)

type WatchpointType uint

const (
	ReadWatch WatchpointType = iota
	WriteWatch
	ReadWriteWatch
)

// Breakpoints with this thread stop whichever thread reaches the address
const ANY_THREAD = -1

type Watchpoint struct {
	Register uint8
	Type     WatchpointType
}

type Breakpoint struct {
	Thread int
	Addr   uint16
}

var REGISTER_NAMES = map[uint8]string{
	machine.REG_RANDOM_SEED:          "random_seed",
	machine.REG_SYSTEM_FLAGS:         "system_flags",
	machine.REG_CHAPTER_SETUP:        "chapter_setup",
	machine.REG_HERO_POS_UP_DOWN:     "hero_up_down",
	machine.REG_HERO_ACTION:          "hero_action",
	machine.REG_HERO_POS_JUMP_DOWN:   "hero_jump_down",
	machine.REG_HERO_POS_LEFT_RIGHT:  "hero_left_right",
	machine.REG_HERO_POS_MASK:        "hero_mask",
	machine.REG_HERO_ACTION_POS_MASK: "hero_action_mask",
}

type Debugger struct {
	// Set from signal handlers while the machine runs
	Break atomic.Bool

	Breakpoints []Breakpoint
	Watchpoints []Watchpoint

	Source   io.ReadSeeker
	SymTable *assembler.SymTable

	// Defaults to stdout
	Output io.Writer

	HandleBreak func(*Debugger, *machine.Machine)
	HandleRead  func(uint8, *Debugger, *machine.Machine)
	HandleWrite func(uint8, *Debugger, *machine.Machine)
}

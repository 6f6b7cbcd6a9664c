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
	"github.com/lassandro/goaw/pkg/machine"
)

// Input is the state of the player's controls for one tick.
type Input struct {
	Left   bool
	Right  bool
	Up     bool
	Down   bool
	Action bool
}

const (
	MASK_RIGHT  = 0x01
	MASK_LEFT   = 0x02
	MASK_DOWN   = 0x04
	MASK_UP     = 0x08
	MASK_ACTION = 0x80
)

// Apply publishes the controls through the input registers before a tick.
func (in Input) Apply(mc *machine.Machine) {
	var horizontal, vertical, mask int16

	if in.Right {
		horizontal = 1
		mask |= MASK_RIGHT
	}

	if in.Left {
		horizontal = -1
		mask |= MASK_LEFT
	}

	if in.Down {
		vertical = 1
		mask |= MASK_DOWN
	}

	if in.Up {
		vertical = -1
		mask |= MASK_UP
	}

	registers := &mc.State.Registers

	registers[machine.REG_HERO_POS_UP_DOWN] = vertical
	registers[machine.REG_HERO_POS_JUMP_DOWN] = vertical
	registers[machine.REG_HERO_POS_LEFT_RIGHT] = horizontal
	registers[machine.REG_HERO_POS_MASK] = mask

	var action int16

	if in.Action {
		action = 1
		mask |= MASK_ACTION
	}

	registers[machine.REG_HERO_ACTION] = action
	registers[machine.REG_HERO_ACTION_POS_MASK] = mask
}

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

package machine

const (
	REGISTER_COUNT         = 256
	THREAD_COUNT           = 64
	CALL_STACK_LIMIT       = 0x40
	THREAD_INACTIVE uint16 = 0xFFFF
	CHAPTER_BASE    uint16 = 16000
	SCREEN_BOTTOM          = 199
	PAGE_SWAP       uint8  = 0xFF
	DEFAULT_PAGE    uint8  = 1
)

const (
	REG_RANDOM_SEED          uint8 = 0x3C
	REG_SYSTEM_FLAGS         uint8 = 0x54
	REG_CHAPTER_SETUP        uint8 = 0xE4
	REG_HERO_POS_UP_DOWN     uint8 = 0xE5
	REG_HERO_ACTION          uint8 = 0xFA
	REG_HERO_POS_JUMP_DOWN   uint8 = 0xFB
	REG_HERO_POS_LEFT_RIGHT  uint8 = 0xFC
	REG_HERO_POS_MASK        uint8 = 0xFD
	REG_HERO_ACTION_POS_MASK uint8 = 0xFE
)

const (
	OP_MOVI  uint8 = 0x00
	OP_MOV   uint8 = 0x01
	OP_ADD   uint8 = 0x02
	OP_ADDI  uint8 = 0x03
	OP_CALL  uint8 = 0x04
	OP_RET   uint8 = 0x05
	OP_BRK   uint8 = 0x06
	OP_JMP   uint8 = 0x07
	OP_SVEC  uint8 = 0x08
	OP_DJNZ  uint8 = 0x09
	OP_CJMP  uint8 = 0x0A
	OP_PAL   uint8 = 0x0B
	OP_NOP3  uint8 = 0x0C
	OP_SETWS uint8 = 0x0D
	OP_VCLR  uint8 = 0x0E
	OP_VCPY  uint8 = 0x0F
	OP_VSHW  uint8 = 0x10
	OP_KILL  uint8 = 0x11
	OP_TEXT  uint8 = 0x12
	OP_SUB   uint8 = 0x13
	OP_ANDI  uint8 = 0x14
	OP_ORI   uint8 = 0x15
	OP_SHLI  uint8 = 0x16
	OP_SHRI  uint8 = 0x17
	OP_SND   uint8 = 0x18
	OP_LOAD  uint8 = 0x19
	OP_MUSIC uint8 = 0x1A

	// Opcodes above OP_LAST and below OP_SPRITE are invalid
	OP_LAST   uint8 = OP_MUSIC
	OP_SPRITE uint8 = 0x40
	OP_POLY   uint8 = 0x80
)

// Conditional jump mode bits and predicates
const (
	COND_REGISTER uint8 = 0x80
	COND_WORD     uint8 = 0x40
	COND_MASK     uint8 = 0x07

	COND_EQ uint8 = 0
	COND_NE uint8 = 1
	COND_GT uint8 = 2
	COND_GE uint8 = 3
	COND_LT uint8 = 4
	COND_LE uint8 = 5
)

const (
	POLY_SINGLE uint8 = 0xC0
	POLY_GROUP  uint8 = 0x02
	POLY_COLOR  uint8 = 0x3F
)

var OPCODE_NAMES = [...]string{
	"movi", "mov", "add", "addi",
	"call", "ret", "brk", "jmp",
	"svec", "djnz", "cjmp", "pal",
	"nop3", "setws", "vclr", "vcpy",
	"vshw", "kill", "text", "sub",
	"andi", "ori", "shli", "shri",
	"snd", "load", "music",
}

func OpcodeName(opcode uint8) string {
	switch {
	case opcode&OP_POLY != 0:
		return "poly"
	case opcode&OP_SPRITE != 0:
		return "spoly"
	case int(opcode) < len(OPCODE_NAMES):
		return OPCODE_NAMES[opcode]
	}

	return "invalid"
}

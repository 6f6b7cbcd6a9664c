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

package assembler

import (
	"github.com/lassandro/goaw/pkg/machine"
)

const (
	TOKEN_NONE TokenType = iota
	TOKEN_IDENT
	TOKEN_DIRECTIVE
	TOKEN_LITERAL
)

const (
	LITERAL_BYTE LiteralType = 8
	LITERAL_WORD LiteralType = 16
)

const (
	// Operand encodings
	OPERAND_REGISTER OperandType = iota
	OPERAND_BYTE
	OPERAND_WORD
	OPERAND_ADDRESS
)

const MAX_BINARY_SIZE = 1 << 16

const (
	INSTRUCTION_INVALID InstructionType = iota
	INSTRUCTION_MOVI
	INSTRUCTION_MOV
	INSTRUCTION_ADD
	INSTRUCTION_ADDI
	INSTRUCTION_CALL
	INSTRUCTION_RET
	INSTRUCTION_BRK
	INSTRUCTION_JMP
	INSTRUCTION_SVEC
	INSTRUCTION_DJNZ
	INSTRUCTION_CJMP
	INSTRUCTION_CJMPW
	INSTRUCTION_PAL
	INSTRUCTION_NOP3
	INSTRUCTION_SETWS
	INSTRUCTION_VCLR
	INSTRUCTION_VCPY
	INSTRUCTION_VSHW
	INSTRUCTION_KILL
	INSTRUCTION_TEXT
	INSTRUCTION_SUB
	INSTRUCTION_ANDI
	INSTRUCTION_ORI
	INSTRUCTION_SHLI
	INSTRUCTION_SHRI
	INSTRUCTION_SND
	INSTRUCTION_LOAD
	INSTRUCTION_MUSIC
	INSTRUCTION_POLY
	INSTRUCTION_SPOLY
)

const (
	DIRECTIVE_INVALID DirectiveType = iota
	DIRECTIVE_BYTE
	DIRECTIVE_WORD
	DIRECTIVE_FILL
)

var INSTRUCTIONS = map[string]InstructionType{
	"movi":  INSTRUCTION_MOVI,
	"mov":   INSTRUCTION_MOV,
	"add":   INSTRUCTION_ADD,
	"addi":  INSTRUCTION_ADDI,
	"call":  INSTRUCTION_CALL,
	"ret":   INSTRUCTION_RET,
	"brk":   INSTRUCTION_BRK,
	"jmp":   INSTRUCTION_JMP,
	"svec":  INSTRUCTION_SVEC,
	"djnz":  INSTRUCTION_DJNZ,
	"cjmp":  INSTRUCTION_CJMP,
	"cjmpw": INSTRUCTION_CJMPW,
	"pal":   INSTRUCTION_PAL,
	"nop3":  INSTRUCTION_NOP3,
	"setws": INSTRUCTION_SETWS,
	"vclr":  INSTRUCTION_VCLR,
	"vcpy":  INSTRUCTION_VCPY,
	"vshw":  INSTRUCTION_VSHW,
	"kill":  INSTRUCTION_KILL,
	"text":  INSTRUCTION_TEXT,
	"sub":   INSTRUCTION_SUB,
	"andi":  INSTRUCTION_ANDI,
	"ori":   INSTRUCTION_ORI,
	"shli":  INSTRUCTION_SHLI,
	"shri":  INSTRUCTION_SHRI,
	"snd":   INSTRUCTION_SND,
	"load":  INSTRUCTION_LOAD,
	"music": INSTRUCTION_MUSIC,
	"poly":  INSTRUCTION_POLY,
	"spoly": INSTRUCTION_SPOLY,
}

var DIRECTIVES = map[string]DirectiveType{
	".byte": DIRECTIVE_BYTE,
	".word": DIRECTIVE_WORD,
	".fill": DIRECTIVE_FILL,
}

var PREDICATES = [...]string{
	machine.COND_EQ: "eq",
	machine.COND_NE: "ne",
	machine.COND_GT: "gt",
	machine.COND_GE: "ge",
	machine.COND_LT: "lt",
	machine.COND_LE: "le",
}

// Fixed-layout instructions. Conditional jumps, shapes and sprites are
// encoded separately.
var FORMATS = map[InstructionType]Format{
	INSTRUCTION_MOVI:  {machine.OP_MOVI, []OperandType{OPERAND_REGISTER, OPERAND_WORD}},
	INSTRUCTION_MOV:   {machine.OP_MOV, []OperandType{OPERAND_REGISTER, OPERAND_REGISTER}},
	INSTRUCTION_ADD:   {machine.OP_ADD, []OperandType{OPERAND_REGISTER, OPERAND_REGISTER}},
	INSTRUCTION_ADDI:  {machine.OP_ADDI, []OperandType{OPERAND_REGISTER, OPERAND_WORD}},
	INSTRUCTION_CALL:  {machine.OP_CALL, []OperandType{OPERAND_ADDRESS}},
	INSTRUCTION_RET:   {machine.OP_RET, nil},
	INSTRUCTION_BRK:   {machine.OP_BRK, nil},
	INSTRUCTION_JMP:   {machine.OP_JMP, []OperandType{OPERAND_ADDRESS}},
	INSTRUCTION_SVEC:  {machine.OP_SVEC, []OperandType{OPERAND_BYTE, OPERAND_ADDRESS}},
	INSTRUCTION_DJNZ:  {machine.OP_DJNZ, []OperandType{OPERAND_REGISTER, OPERAND_ADDRESS}},
	INSTRUCTION_PAL:   {machine.OP_PAL, []OperandType{OPERAND_BYTE, OPERAND_BYTE}},
	INSTRUCTION_NOP3:  {machine.OP_NOP3, []OperandType{OPERAND_BYTE, OPERAND_BYTE, OPERAND_BYTE}},
	INSTRUCTION_SETWS: {machine.OP_SETWS, []OperandType{OPERAND_BYTE}},
	INSTRUCTION_VCLR:  {machine.OP_VCLR, []OperandType{OPERAND_BYTE, OPERAND_BYTE}},
	INSTRUCTION_VCPY:  {machine.OP_VCPY, []OperandType{OPERAND_BYTE, OPERAND_BYTE}},
	INSTRUCTION_VSHW:  {machine.OP_VSHW, []OperandType{OPERAND_BYTE}},
	INSTRUCTION_KILL:  {machine.OP_KILL, nil},
	INSTRUCTION_TEXT:  {machine.OP_TEXT, []OperandType{OPERAND_WORD, OPERAND_BYTE, OPERAND_BYTE, OPERAND_BYTE}},
	INSTRUCTION_SUB:   {machine.OP_SUB, []OperandType{OPERAND_REGISTER, OPERAND_REGISTER}},
	INSTRUCTION_ANDI:  {machine.OP_ANDI, []OperandType{OPERAND_REGISTER, OPERAND_WORD}},
	INSTRUCTION_ORI:   {machine.OP_ORI, []OperandType{OPERAND_REGISTER, OPERAND_WORD}},
	INSTRUCTION_SHLI:  {machine.OP_SHLI, []OperandType{OPERAND_REGISTER, OPERAND_WORD}},
	INSTRUCTION_SHRI:  {machine.OP_SHRI, []OperandType{OPERAND_REGISTER, OPERAND_WORD}},
	INSTRUCTION_SND:   {machine.OP_SND, []OperandType{OPERAND_WORD, OPERAND_BYTE, OPERAND_BYTE, OPERAND_BYTE}},
	INSTRUCTION_LOAD:  {machine.OP_LOAD, []OperandType{OPERAND_WORD}},
	INSTRUCTION_MUSIC: {machine.OP_MUSIC, []OperandType{OPERAND_WORD, OPERAND_WORD, OPERAND_BYTE}},
}

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
	"fmt"
	"strings"

	"github.com/lassandro/goaw/pkg/machine"
)

var mnemonics = make(map[InstructionType]string)
var opcodes = make(map[uint8]InstructionType)

func init() {
	for name, instruction := range INSTRUCTIONS {
		mnemonics[instruction] = name
	}

	for instruction, format := range FORMATS {
		opcodes[format.Opcode] = instruction
	}
}

type decoder struct {
	code      []byte
	pc        int
	truncated bool
}

func (dec *decoder) fetchByte() uint8 {
	if dec.pc >= len(dec.code) {
		dec.truncated = true
		return 0
	}

	value := dec.code[dec.pc]
	dec.pc++

	return value
}

func (dec *decoder) fetchWord() uint16 {
	high := dec.fetchByte()
	low := dec.fetchByte()

	return uint16(high)<<8 | uint16(low)
}

func (dec *decoder) operand(kind OperandType) string {
	switch kind {
	case OPERAND_REGISTER:
		return fmt.Sprintf("r%#02x", dec.fetchByte())
	case OPERAND_BYTE:
		return fmt.Sprintf("%#02x", dec.fetchByte())
	}

	return fmt.Sprintf("%#04x", dec.fetchWord())
}

// Disassemble decodes the instruction at pc and returns its source form
// along with the address of the next instruction. Bytes that do not form a
// complete instruction are rendered as a .byte directive.
func Disassemble(code []byte, pc uint16) (string, uint16) {
	if int(pc) >= len(code) {
		return "", pc
	}

	dec := decoder{code: code, pc: int(pc)}
	opcode := dec.fetchByte()

	var operands []string
	var mnemonic string

	switch {
	case opcode&machine.OP_POLY != 0:
		offset := (uint16(opcode&0x7F)<<8 | uint16(dec.fetchByte())) * 2

		mnemonic = mnemonics[INSTRUCTION_POLY]
		operands = []string{
			fmt.Sprintf("%#04x", offset),
			dec.operand(OPERAND_BYTE),
			dec.operand(OPERAND_BYTE),
		}

	case opcode&machine.OP_SPRITE != 0:
		mnemonic = mnemonics[INSTRUCTION_SPOLY]
		operands = []string{fmt.Sprintf("%#02x", opcode)}

		for i := 0; i < machine.SpriteOperandLength(opcode); i++ {
			operands = append(operands, dec.operand(OPERAND_BYTE))
		}

	case opcode == machine.OP_CJMP:
		mode := dec.fetchByte()
		predicate := mode & machine.COND_MASK

		if int(predicate) >= len(PREDICATES) {
			return fmt.Sprintf(".byte %#02x", opcode), pc + 1
		}

		mnemonic = mnemonics[INSTRUCTION_CJMP]
		operands = []string{PREDICATES[predicate], dec.operand(OPERAND_REGISTER)}

		if mode&machine.COND_REGISTER != 0 {
			operands = append(operands, dec.operand(OPERAND_REGISTER))
		} else if mode&machine.COND_WORD != 0 {
			mnemonic = mnemonics[INSTRUCTION_CJMPW]
			operands = append(operands, dec.operand(OPERAND_WORD))
		} else {
			operands = append(operands, dec.operand(OPERAND_BYTE))
		}

		operands = append(operands, dec.operand(OPERAND_ADDRESS))

		// Unused mode bits would not survive reassembly
		both := machine.COND_REGISTER | machine.COND_WORD

		if mode&^(both|machine.COND_MASK) != 0 || mode&both == both {
			return fmt.Sprintf(".byte %#02x", opcode), pc + 1
		}

	default:
		instruction, exists := opcodes[opcode]

		if !exists {
			return fmt.Sprintf(".byte %#02x", opcode), pc + 1
		}

		mnemonic = mnemonics[instruction]

		for _, kind := range FORMATS[instruction].Operands {
			operands = append(operands, dec.operand(kind))
		}
	}

	if dec.truncated {
		return fmt.Sprintf(".byte %#02x", opcode), pc + 1
	}

	if len(operands) == 0 {
		return mnemonic, uint16(dec.pc)
	}

	return mnemonic + " " + strings.Join(operands, ", "), uint16(dec.pc)
}

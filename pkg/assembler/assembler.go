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
	"bufio"
	"encoding/binary"
	"io"
	"strings"
	"unicode"

	"github.com/lassandro/goaw/pkg/encoding"
	"github.com/lassandro/goaw/pkg/machine"
)

func parseDirective(token *Token) DirectiveType {
	if token.Type != TOKEN_DIRECTIVE {
		return DIRECTIVE_INVALID
	}

	return DIRECTIVES[strings.ToLower(token.Value)]
}

func parseInstruction(token *Token) InstructionType {
	if token.Type != TOKEN_IDENT {
		return INSTRUCTION_INVALID
	}

	return INSTRUCTIONS[strings.ToLower(token.Value)]
}

func parsePredicate(token *Token) (uint8, bool) {
	for predicate, name := range PREDICATES {
		if strings.EqualFold(token.Value, name) {
			return uint8(predicate), true
		}
	}

	return 0, false
}

// parseLiteral accepts 0x hex, #decimal and plain decimal forms. Negative
// decimals are stored as two's complement of the requested width.
func parseLiteral(token *Token, bits LiteralType) (uint16, error) {
	if token.Type != TOKEN_LITERAL {
		return 0, &InvalidOperandError{token.Position, OPERAND_WORD, token.Type}
	}

	result, err := encoding.DecodeLiteral(token.Value)

	if err != nil {
		return 0, &InvalidLiteralError{token.Position}
	}

	if bits == LITERAL_BYTE {
		if strings.Contains(token.Value, "-") {
			if int16(result) < -0x80 {
				return 0, &OversizedLiteralError{token.Position, bits, token.Value}
			}

			result &= 0xFF
		} else if result > 0xFF {
			return 0, &OversizedLiteralError{token.Position, bits, token.Value}
		}
	}

	return result, nil
}

// Registers are written r followed by a literal: r12, r0x3c
func parseRegister(token *Token) (uint8, bool) {
	if token.Type != TOKEN_IDENT || len(token.Value) < 2 {
		return 0, false
	}

	if token.Value[0] != 'r' && token.Value[0] != 'R' {
		return 0, false
	}

	result, err := encoding.DecodeLiteral(token.Value[1:])

	if err != nil || result >= machine.REGISTER_COUNT {
		return 0, false
	}

	return uint8(result), true
}

func isRegisterName(token *Token) bool {
	_, ok := parseRegister(token)
	return ok
}

func tokenize(line string, cursor Cursor) (tokens []Token, errs []error) {
	var builder strings.Builder
	var tokenStart int = 0
	var tokenType TokenType = TOKEN_NONE

	flush := func() {
		if builder.Len() > 0 {
			tokens = append(tokens, Token{
				Type: tokenType,
				Position: Cursor{
					Line:     cursor.Line,
					Column:   tokenStart,
					Byte:     cursor.LineByte + int64(tokenStart-1),
					Size:     int64(builder.Len()),
					LineByte: cursor.LineByte,
				},
				Value: builder.String(),
			})

			builder.Reset()
		}

		tokenType = TOKEN_NONE
	}

	for index, char := range line {
		position := cursor
		position.Column = index + 1
		position.Byte = cursor.LineByte + int64(index)
		position.Size = 1

		if tokenType == TOKEN_NONE {
			tokenStart = position.Column
		}

		switch {
		// Whitespace
		case unicode.IsSpace(char):
			flush()
			continue

		// Comments
		case char == ';':
			flush()
			return

		// Operand Separator
		case char == ',':
			leading := builder.Len() == 0 && len(tokens) == 0

			if leading || index == len(line)-1 {
				errs = append(errs, &UnexpectedCharacterError{position, char})
			}

			flush()
			continue

		// Assembler Directives
		case char == '.':
			if tokenType == TOKEN_NONE {
				tokenType = TOKEN_DIRECTIVE
			} else {
				errs = append(errs, &UnexpectedCharacterError{position, char})
			}

		// Base 10 Literal (i.e. #42, #-42) or Numeric Sign
		case char == '#' || char == '-':
			if tokenType == TOKEN_NONE {
				tokenType = TOKEN_LITERAL
			} else if tokenType != TOKEN_LITERAL {
				errs = append(errs, &UnexpectedCharacterError{position, char})
			}

		// Numeric Literal (i.e. 42, 0x2A)
		case unicode.IsDigit(char):
			if tokenType == TOKEN_NONE {
				tokenType = TOKEN_LITERAL
			}

		// Identifier
		case char == '_' || unicode.IsLetter(char):
			if char > unicode.MaxASCII {
				errs = append(errs, &OversizedCharacterError{position})
				continue
			}

			if tokenType == TOKEN_NONE {
				tokenType = TOKEN_IDENT
			}

		default:
			if char > unicode.MaxASCII {
				errs = append(errs, &OversizedCharacterError{position})
			} else {
				errs = append(errs, &UnexpectedCharacterError{position, char})
			}

			continue
		}

		builder.WriteRune(char)
	}

	flush()

	return
}

type labelRef struct {
	Label    string
	Addr     uint16
	Position Cursor
}

type assembler struct {
	result    []byte
	labels    map[string]uint16
	labelRefs []labelRef
	errs      []error
}

func (asm *assembler) emit(values ...uint8) {
	asm.result = append(asm.result, values...)
}

func (asm *assembler) emitWord(value uint16) {
	asm.result = binary.BigEndian.AppendUint16(asm.result, value)
}

func (asm *assembler) fail(err error) {
	asm.errs = append(asm.errs, err)
}

func (asm *assembler) operand(kind OperandType, token *Token) {
	switch kind {
	case OPERAND_REGISTER:
		if token.Type != TOKEN_IDENT {
			asm.fail(&InvalidOperandError{token.Position, kind, token.Type})
			asm.emit(0)
			return
		}

		reg, ok := parseRegister(token)

		if !ok {
			asm.fail(&InvalidRegisterError{token.Position, token.Value})
		}

		asm.emit(reg)

	case OPERAND_BYTE:
		literal, err := parseLiteral(token, LITERAL_BYTE)

		if err != nil {
			asm.fail(err)
		}

		asm.emit(uint8(literal))

	case OPERAND_WORD:
		literal, err := parseLiteral(token, LITERAL_WORD)

		if err != nil {
			asm.fail(err)
		}

		asm.emitWord(literal)

	case OPERAND_ADDRESS:
		if parseInstruction(token) != INSTRUCTION_INVALID {
			asm.fail(&ReservedLabelError{token.Position, token.Value})
			asm.emitWord(0)
			return
		}

		if token.Type == TOKEN_IDENT && !isRegisterName(token) {
			if addr, exists := asm.labels[token.Value]; exists {
				asm.emitWord(addr)
			} else {
				asm.labelRefs = append(asm.labelRefs, labelRef{
					token.Value,
					uint16(len(asm.result)),
					token.Position,
				})

				asm.emitWord(0)
			}

			return
		}

		asm.operand(OPERAND_WORD, token)
	}
}

func (asm *assembler) expect(keyword *Token, operands []Token, count int) bool {
	if len(operands) != count {
		asm.fail(&InvalidNumArgumentsError{keyword.Position, count, len(operands)})
		return false
	}

	return true
}

func (asm *assembler) directive(directive DirectiveType, keyword *Token, operands []Token) {
	switch directive {
	// .byte #[, #...]
	case DIRECTIVE_BYTE:
		if len(operands) == 0 {
			asm.fail(&InvalidNumArgumentsError{keyword.Position, 1, 0})
		}

		for i := range operands {
			asm.operand(OPERAND_BYTE, &operands[i])
		}

	// .word #|label[, #|label...]
	case DIRECTIVE_WORD:
		if len(operands) == 0 {
			asm.fail(&InvalidNumArgumentsError{keyword.Position, 1, 0})
		}

		for i := range operands {
			asm.operand(OPERAND_ADDRESS, &operands[i])
		}

	// .fill count, #
	case DIRECTIVE_FILL:
		if !asm.expect(keyword, operands, 2) {
			return
		}

		count, err := parseLiteral(&operands[0], LITERAL_WORD)

		if err != nil {
			asm.fail(err)
			return
		}

		value, err := parseLiteral(&operands[1], LITERAL_BYTE)

		if err != nil {
			asm.fail(err)
		}

		for i := uint16(0); i < count; i++ {
			asm.emit(uint8(value))
		}
	}
}

func (asm *assembler) instruction(instruction InstructionType, keyword *Token, operands []Token) {
	switch instruction {
	// CJMP |0a|R|W|000|cond|reg|operand (1 or 2)|addr hi|addr lo|
	// ---- [ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_CJMP, INSTRUCTION_CJMPW:
		if !asm.expect(keyword, operands, 4) {
			return
		}

		predicate, ok := parsePredicate(&operands[0])

		if !ok {
			asm.fail(&InvalidPredicateError{operands[0].Position, operands[0].Value})
		}

		right := &operands[2]

		var mode uint8
		var literal uint16

		switch {
		case instruction == INSTRUCTION_CJMP && right.Type == TOKEN_IDENT:
			mode = machine.COND_REGISTER

		case right.Type == TOKEN_LITERAL:
			var err error

			if literal, err = parseLiteral(right, LITERAL_WORD); err != nil {
				asm.fail(err)
			}

			// Small unsigned values fit the single byte form
			if instruction == INSTRUCTION_CJMPW ||
				literal > 0xFF ||
				strings.Contains(right.Value, "-") {
				mode = machine.COND_WORD
			}

		default:
			asm.fail(&InvalidOperandError{right.Position, OPERAND_WORD, right.Type})
		}

		asm.emit(machine.OP_CJMP, mode|predicate)
		asm.operand(OPERAND_REGISTER, &operands[1])

		switch mode {
		case machine.COND_REGISTER:
			asm.operand(OPERAND_REGISTER, right)
		case machine.COND_WORD:
			asm.emitWord(literal)
		default:
			asm.emit(uint8(literal))
		}

		asm.operand(OPERAND_ADDRESS, &operands[3])

	// POLY |1|offset/2 hi   |offset/2 lo   |x       |y       |
	// ---- [ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_POLY:
		if !asm.expect(keyword, operands, 3) {
			return
		}

		offset, err := parseLiteral(&operands[0], LITERAL_WORD)

		if err != nil {
			asm.fail(err)
		} else if offset&1 != 0 {
			asm.fail(&MisalignedOffsetError{operands[0].Position, offset})
		}

		half := offset >> 1

		asm.emit(machine.OP_POLY|uint8(half>>8), uint8(half))
		asm.operand(OPERAND_BYTE, &operands[1])
		asm.operand(OPERAND_BYTE, &operands[2])

	// SPOLY|0|1|mode bits  |operand bytes as written
	// ---- [ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_SPOLY:
		if len(operands) == 0 {
			asm.fail(&InvalidNumArgumentsError{keyword.Position, 1, 0})
			return
		}

		opcode, err := parseLiteral(&operands[0], LITERAL_BYTE)

		if err != nil {
			asm.fail(err)
		} else if opcode&0xC0 != uint16(machine.OP_SPRITE) {
			asm.fail(&InvalidOpcodeError{operands[0].Position, opcode})
		}

		for i := range operands {
			asm.operand(OPERAND_BYTE, &operands[i])
		}

	default:
		format := FORMATS[instruction]

		if !asm.expect(keyword, operands, len(format.Operands)) {
			return
		}

		asm.emit(format.Opcode)

		for i, kind := range format.Operands {
			asm.operand(kind, &operands[i])
		}
	}
}

func takesOperands(instruction InstructionType) bool {
	switch instruction {
	case INSTRUCTION_INVALID:
		return false
	case INSTRUCTION_CJMP, INSTRUCTION_CJMPW, INSTRUCTION_POLY, INSTRUCTION_SPOLY:
		return true
	}

	return len(FORMATS[instruction].Operands) > 0
}

// statement assembles one tokenized line. A leading identifier that is not
// an instruction declares a label at the current address.
func (asm *assembler) statement(tokens []Token) {
	keyword := &tokens[0]
	operands := tokens[1:]

	instruction := parseInstruction(keyword)
	directive := parseDirective(keyword)

	// A bare mnemonic that takes operands can only be a misplaced label
	if len(tokens) == 1 && takesOperands(instruction) {
		asm.fail(&ReservedLabelError{keyword.Position, keyword.Value})
		return
	}

	if instruction == INSTRUCTION_INVALID && directive == DIRECTIVE_INVALID {
		if keyword.Type != TOKEN_IDENT || isRegisterName(keyword) {
			asm.fail(&UnknownIdentifierError{keyword.Position, keyword.Value})
			return
		}

		if _, exists := asm.labels[keyword.Value]; exists {
			asm.fail(&RedeclaredLabelError{keyword.Position, keyword.Value})
		} else {
			asm.labels[keyword.Value] = uint16(len(asm.result))
		}

		// No need to assemble label-only statements
		if len(tokens) == 1 {
			return
		}

		keyword = &tokens[1]
		operands = tokens[2:]

		instruction = parseInstruction(keyword)
		directive = parseDirective(keyword)

		if instruction == INSTRUCTION_INVALID && directive == DIRECTIVE_INVALID {
			asm.fail(&UnknownIdentifierError{keyword.Position, keyword.Value})
			return
		}
	}

	if directive != DIRECTIVE_INVALID {
		asm.directive(directive, keyword, operands)
	} else {
		asm.instruction(instruction, keyword, operands)
	}
}

// Assemble translates source into bytecode starting at address 0. Labels may
// be referenced before they are declared. When symtable is non-nil it
// receives the source offset of every emitted address and every label.
func Assemble(input io.Reader, symtable *SymTable) (result []byte, errs []error) {
	var asm = assembler{
		result: make([]byte, 0, 1024),
		labels: make(map[string]uint16),
	}

	var scanner = bufio.NewScanner(input)
	var cursor = Cursor{Line: 1}

	for ; scanner.Scan(); cursor.Line++ {
		line := scanner.Text()
		cursor.Size = int64(len(line))

		tokens, lineErrs := tokenize(line, cursor)

		start := len(asm.result)

		// Pass any potential assembler errors if we already had parser errors
		if len(lineErrs) > 0 {
			asm.errs = append(asm.errs, lineErrs...)
		} else if len(tokens) > 0 {
			asm.statement(tokens)
		}

		if symtable != nil && len(asm.result) > start {
			symtable.Symbols[uint16(start)] = cursor.LineByte
		}

		if len(asm.result) > MAX_BINARY_SIZE {
			asm.fail(&OversizedBinaryError{})
			return asm.result, asm.errs
		}

		cursor.Byte += int64(len(line) + 1)
		cursor.LineByte += int64(len(line) + 1)
	}

	if err := scanner.Err(); err != nil {
		asm.fail(err)
	}

	// Label
	// - Validate and resolve label references
	// - Add labels to symbol table
	for _, ref := range asm.labelRefs {
		addr, exists := asm.labels[ref.Label]

		if !exists {
			asm.fail(&UnknownLabelError{ref.Position, ref.Label})
			continue
		}

		binary.BigEndian.PutUint16(asm.result[ref.Addr:], addr)
	}

	if symtable != nil {
		for label, addr := range asm.labels {
			symtable.Labels[addr] = label
		}
	}

	return asm.result, asm.errs
}

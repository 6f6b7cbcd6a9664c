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
)

type LiteralType uint
type TokenType uint
type OperandType uint
type InstructionType uint
type DirectiveType uint

type Cursor struct {
	Line     int
	Column   int
	Byte     int64
	Size     int64
	LineByte int64
}

func (c Cursor) String() string {
	return fmt.Sprintf("%02d:%02d", c.Line, c.Column)
}

type Token struct {
	Type     TokenType
	Position Cursor
	Value    string
}

type Format struct {
	Opcode   uint8
	Operands []OperandType
}

// SymTable maps bytecode addresses back to their source. Symbols holds the
// byte offset of the line that produced each address.
type SymTable struct {
	Source  string            `cbor:"1,keyasint"`
	Symbols map[uint16]int64  `cbor:"2,keyasint"`
	Labels  map[uint16]string `cbor:"3,keyasint"`
}

func NewSymTable(source string) *SymTable {
	return &SymTable{
		Source:  source,
		Symbols: make(map[uint16]int64),
		Labels:  make(map[uint16]string),
	}
}

// Label returns the address of a named label.
func (sym *SymTable) Label(name string) (uint16, bool) {
	for addr, label := range sym.Labels {
		if label == name {
			return addr, true
		}
	}

	return 0, false
}

func (t TokenType) String() string {
	switch t {
	case TOKEN_IDENT:
		return "Identifier"
	case TOKEN_DIRECTIVE:
		return "Directive"
	case TOKEN_LITERAL:
		return "Literal"
	}

	return "<invalid>"
}

func (t OperandType) String() string {
	switch t {
	case OPERAND_REGISTER:
		return "Register"
	case OPERAND_BYTE:
		return "Byte"
	case OPERAND_WORD:
		return "Word"
	case OPERAND_ADDRESS:
		return "Address"
	}

	return "<invalid>"
}

type TokenError interface {
	GetPosition() Cursor
}

type InvalidOperandError struct {
	Position Cursor
	Required OperandType
	Received TokenType
}

func (err *InvalidOperandError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidOperandError) Error() string {
	return fmt.Sprintf(
		"%s: Invalid operand\n\twant:%s\n\thave:%s",
		err.Position,
		err.Required,
		err.Received,
	)
}

type InvalidNumArgumentsError struct {
	Position Cursor
	Required int
	Received int
}

func (err *InvalidNumArgumentsError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidNumArgumentsError) Error() string {
	return fmt.Sprintf(
		"%s: Invalid number of arguments\n\twant:%d\n\thave:%d",
		err.Position,
		err.Required,
		err.Received,
	)
}

type InvalidLiteralError struct {
	Position Cursor
}

func (err *InvalidLiteralError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidLiteralError) Error() string {
	return fmt.Sprintf("%s: Invalid numeric literal", err.Position)
}

type OversizedLiteralError struct {
	Position Cursor
	Bits     LiteralType
	Received string
}

func (err *OversizedLiteralError) GetPosition() Cursor {
	return err.Position
}

func (err *OversizedLiteralError) Error() string {
	return fmt.Sprintf(
		"%s: Literal exceeds allowed size\n\twant:%d bits\n\thave:%s",
		err.Position,
		err.Bits,
		err.Received,
	)
}

type MisalignedOffsetError struct {
	Position Cursor
	Received uint16
}

func (err *MisalignedOffsetError) GetPosition() Cursor {
	return err.Position
}

func (err *MisalignedOffsetError) Error() string {
	return fmt.Sprintf(
		"%s: Shape offset %#04x is not even", err.Position, err.Received,
	)
}

type InvalidRegisterError struct {
	Position Cursor
	Received string
}

func (err *InvalidRegisterError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidRegisterError) Error() string {
	return fmt.Sprintf(
		"%s: Invalid register identifier '%s'", err.Position, err.Received,
	)
}

type InvalidPredicateError struct {
	Position Cursor
	Received string
}

func (err *InvalidPredicateError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidPredicateError) Error() string {
	return fmt.Sprintf(
		"%s: Invalid predicate '%s'\n\twant:%s",
		err.Position,
		err.Received,
		strings.Join(PREDICATES[:], ", "),
	)
}

type InvalidOpcodeError struct {
	Position Cursor
	Received uint16
}

func (err *InvalidOpcodeError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidOpcodeError) Error() string {
	return fmt.Sprintf(
		"%s: Sprite opcode %#02x outside 0x40-0x7f",
		err.Position,
		err.Received,
	)
}

type UnexpectedCharacterError struct {
	Position Cursor
	Received rune
}

func (err *UnexpectedCharacterError) GetPosition() Cursor {
	return err.Position
}

func (err *UnexpectedCharacterError) Error() string {
	return fmt.Sprintf(
		"%s: Unexpected character %c", err.Position, err.Received,
	)
}

type OversizedCharacterError struct {
	Position Cursor
}

func (err *OversizedCharacterError) GetPosition() Cursor {
	return err.Position
}

func (err *OversizedCharacterError) Error() string {
	return fmt.Sprintf("%s: Character exceeds ASCII limit", err.Position)
}

type RedeclaredLabelError struct {
	Position Cursor
	Received string
}

func (err *RedeclaredLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *RedeclaredLabelError) Error() string {
	return fmt.Sprintf(
		"%s: Redeclaration of label '%s'", err.Position, err.Received,
	)
}

type ReservedLabelError struct {
	Position Cursor
	Received string
}

func (err *ReservedLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *ReservedLabelError) Error() string {
	return fmt.Sprintf(
		"%s: Label '%s' is an instruction name", err.Position, err.Received,
	)
}

type UnknownLabelError struct {
	Position Cursor
	Received string
}

func (err *UnknownLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownLabelError) Error() string {
	return fmt.Sprintf("%s: Unknown label '%s'", err.Position, err.Received)
}

type UnknownIdentifierError struct {
	Position Cursor
	Received string
}

func (err *UnknownIdentifierError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownIdentifierError) Error() string {
	return fmt.Sprintf(
		"%s: Unknown identifier '%s'", err.Position, err.Received,
	)
}

type OversizedBinaryError struct{}

func (err *OversizedBinaryError) Error() string {
	return "Binary exceeds allowed size"
}

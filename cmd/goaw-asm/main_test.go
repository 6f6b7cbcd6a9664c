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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lassandro/goaw/pkg/assembler"
)

func TestUnderline(t *testing.T) {
	cursor := assembler.Cursor{Line: 2, Column: 10, Byte: 19, Size: 4, LineByte: 10}

	have := underline(errors.New("bad"), "movi r1, 0x1g\n", cursor)
	want := "bad\nmovi r1, 0x1g\n\033[31m         ^~~~\033[0m"

	if have != want {
		t.Errorf("Underline mismatch\nwant:%q\nhave:%q", want, have)
	}
}

func TestUnderlineCharacter(t *testing.T) {
	_, errs := assembler.Assemble(strings.NewReader("brk\nmovi r1, @"), nil)

	if len(errs) != 1 {
		t.Fatalf("Error count mismatch\nwant:1\nhave:%d", len(errs))
	}

	tokenErr, ok := errs[0].(assembler.TokenError)

	if !ok {
		t.Fatalf("%T does not carry a position", errs[0])
	}

	have := underline(errs[0], "movi r1, @", tokenErr.GetPosition())
	want := "\033[31m         ^\033[0m"

	if !strings.HasSuffix(have, want) {
		t.Errorf("Underline mismatch\nwant suffix:%q\nhave:%q", want, have)
	}
}

func TestDisassemble(t *testing.T) {
	var out bytes.Buffer

	if err := disassemble(bytes.NewReader([]byte{0x06, 0x07, 0x00, 0x00}), &out); err != nil {
		t.Fatal(err)
	}

	want := "\tbrk                              ; 0x0000\n" +
		"\tjmp 0x0000                       ; 0x0001\n"

	if out.String() != want {
		t.Errorf("Disassembly mismatch\nwant:%q\nhave:%q", want, out.String())
	}
}

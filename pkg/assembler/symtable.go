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
	"io"

	"github.com/fxamacker/cbor/v2"
)

var symtableEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()

	if err != nil {
		panic(fmt.Sprintf("assembler: failed to create CBOR enc mode: %v", err))
	}

	symtableEncMode = em
}

// WriteSymTable stores a symbol table next to an assembled binary so the
// debugger can map addresses back to source lines.
func WriteSymTable(w io.Writer, symtable *SymTable) error {
	return symtableEncMode.NewEncoder(w).Encode(symtable)
}

func ReadSymTable(r io.Reader) (*SymTable, error) {
	symtable := NewSymTable("")

	if err := cbor.NewDecoder(r).Decode(symtable); err != nil {
		return nil, fmt.Errorf("Invalid symbol table: %w", err)
	}

	if symtable.Symbols == nil {
		symtable.Symbols = make(map[uint16]int64)
	}

	if symtable.Labels == nil {
		symtable.Labels = make(map[uint16]string)
	}

	return symtable, nil
}

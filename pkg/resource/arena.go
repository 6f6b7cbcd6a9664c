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

package resource

// Arena hands out consecutive slices of one fixed buffer. Nothing is freed
// individually; the cursor only moves back on Reset.
type Arena struct {
	buffer []byte
	offset int
}

func NewArena(size int) *Arena {
	return &Arena{buffer: make([]byte, size)}
}

func (a *Arena) Alloc(size int) ([]byte, error) {
	if size < 0 || a.offset+size > len(a.buffer) {
		return nil, ErrArenaExhausted
	}

	start := a.offset
	a.offset += size

	return a.buffer[start:a.offset:a.offset], nil
}

func (a *Arena) Reset() {
	a.offset = 0
}

func (a *Arena) Offset() int {
	return a.offset
}

func (a *Arena) Len() int {
	return len(a.buffer)
}

func (a *Arena) rewind(offset int) {
	a.offset = offset
}

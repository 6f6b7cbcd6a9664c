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

package video

import (
	"fmt"

	"github.com/lassandro/goaw/pkg/encoding"
)

// Buffer holds one 320x200 frame at four bits per pixel, two pixels per
// byte. The high nibble is the even x coordinate.
type Buffer [BUFFER_SIZE]byte

type Pages struct {
	storage [PAGE_COUNT]Buffer
	order   [PAGE_COUNT]int
}

func NewPages() *Pages {
	pages := &Pages{}

	for i := range pages.order {
		pages.order[i] = i
	}

	return pages
}

func (b *Buffer) Pixel(x, y int) uint8 {
	value := b[y*PITCH+x/2]

	if x&1 == 0 {
		return value >> 4
	}

	return value & 0x0F
}

func (b *Buffer) SetPixel(x, y int, color uint8) {
	offset := y*PITCH + x/2

	if x&1 == 0 {
		b[offset] = (b[offset] & 0x0F) | (color << 4)
	} else {
		b[offset] = (b[offset] & 0xF0) | (color & 0x0F)
	}
}

func (b *Buffer) Fill(color uint8) {
	value := encoding.ReplicateNibble(color)

	for i := range b {
		b[i] = value
	}
}

func (p *Pages) Valid(id int) bool {
	return id >= 0 && id < PAGE_COUNT
}

// Page resolves a page id through the swap table.
func (p *Pages) Page(id int) *Buffer {
	if !p.Valid(id) {
		return nil
	}

	return &p.storage[p.order[id]]
}

// Storage addresses a buffer directly, bypassing the swap table.
func (p *Pages) Storage(index int) *Buffer {
	if !p.Valid(index) {
		return nil
	}

	return &p.storage[index]
}

// Swap exchanges which storage two page ids refer to. No pixels move.
func (p *Pages) Swap(a, b int) {
	if p.Valid(a) && p.Valid(b) {
		p.order[a], p.order[b] = p.order[b], p.order[a]
	}
}

// Clear fills a page with a color; ids out of range fall back to page 0.
func (p *Pages) Clear(id int, color uint8) {
	if !p.Valid(id) {
		id = 0
	}

	p.Page(id).Fill(color)
}

func (p *Pages) Copy(src, dst int) bool {
	if !p.Valid(src) || !p.Valid(dst) {
		return false
	}

	if src != dst {
		*p.Page(dst) = *p.Page(src)
	}

	return true
}

func (p *Pages) Order() [PAGE_COUNT]int {
	return p.order
}

func (p *Pages) SetOrder(order [PAGE_COUNT]int) error {
	var seen [PAGE_COUNT]bool

	for _, index := range order {
		if !p.Valid(index) || seen[index] {
			return fmt.Errorf("Invalid page order %v", order)
		}

		seen[index] = true
	}

	p.order = order

	return nil
}

func (p *Pages) Reset() {
	for i := range p.storage {
		p.storage[i] = Buffer{}
		p.order[i] = i
	}
}

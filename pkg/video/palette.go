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
	"image/color"
	"strings"
)

// Palette words are 0x0RGB with four bits per channel. Hosts have been seen
// expanding them two ways, so the expansion is selectable.
type PaletteLayout interface {
	Decode(word uint16) color.RGBA
}

type PaletteLayoutFunc func(word uint16) color.RGBA

func (fn PaletteLayoutFunc) Decode(word uint16) color.RGBA {
	return fn(word)
}

// Amiga style: each nibble is replicated to eight bits.
var LAYOUT_AMIGA = PaletteLayoutFunc(func(word uint16) color.RGBA {
	r := uint8(word>>8) & 0x0F
	g := uint8(word>>4) & 0x0F
	b := uint8(word) & 0x0F

	return color.RGBA{r<<4 | r, g<<4 | g, b<<4 | b, 0xFF}
})

// VGA style: each nibble is first widened to a six bit DAC value, which is
// then scaled to eight bits.
var LAYOUT_VGA = PaletteLayoutFunc(func(word uint16) color.RGBA {
	dac := func(n uint8) uint8 {
		v := n<<2 | n>>2
		return v<<2 | v>>4
	}

	return color.RGBA{
		dac(uint8(word>>8) & 0x0F),
		dac(uint8(word>>4) & 0x0F),
		dac(uint8(word) & 0x0F),
		0xFF,
	}
})

func ParseLayout(name string) (PaletteLayout, error) {
	switch strings.ToLower(name) {
	case "", "amiga":
		return LAYOUT_AMIGA, nil
	case "vga":
		return LAYOUT_VGA, nil
	}

	return nil, fmt.Errorf("Unknown palette layout '%s'", name)
}

type Palette [16]color.RGBA

func DecodePalette(words [16]uint16, layout PaletteLayout) Palette {
	var palette Palette

	for i, word := range words {
		palette[i] = layout.Decode(word)
	}

	return palette
}

func GrayPalette() Palette {
	var palette Palette

	for i := range palette {
		v := uint8(i) * 0x11
		palette[i] = color.RGBA{v, v, v, 0xFF}
	}

	return palette
}

func (p *Palette) Colors() color.Palette {
	colors := make(color.Palette, len(p))

	for i := range p {
		colors[i] = p[i]
	}

	return colors
}

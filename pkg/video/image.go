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
	"image"

	"golang.org/x/image/draw"
)

func Image(buf *Buffer, palette *Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, WIDTH, HEIGHT), palette.Colors())

	for y := 0; y < HEIGHT; y++ {
		row := img.Pix[y*img.Stride:]

		for x := 0; x < PITCH; x++ {
			value := buf[y*PITCH+x]
			row[x*2] = value >> 4
			row[x*2+1] = value & 0x0F
		}
	}

	return img
}

// RGBA expands a frame into dst, which must hold WIDTH*HEIGHT*4 bytes.
func RGBA(buf *Buffer, palette *Palette, dst []byte) {
	for i, value := range buf {
		hi := palette[value>>4]
		lo := palette[value&0x0F]

		out := dst[i*8 : i*8+8]
		out[0], out[1], out[2], out[3] = hi.R, hi.G, hi.B, hi.A
		out[4], out[5], out[6], out[7] = lo.R, lo.G, lo.B, lo.A
	}
}

func Scale(src image.Image, factor int) *image.RGBA {
	if factor < 1 {
		factor = 1
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(
		image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor),
	)

	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	return dst
}

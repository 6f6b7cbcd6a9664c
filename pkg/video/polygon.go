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

type Point struct {
	X int16
	Y int16
}

type Rect struct {
	X int16
	Y int16
	W int16
	H int16
}

// Polygon fills an even-odd scanline polygon into target.
//
// Edge crossings are clamped to the clip rectangle and ordered with a
// swap-and-step-back pass before being paired into spans. Spans are half
// open: [node[2k], node[2k+1]).
func Polygon(target *Buffer, color uint8, points []Point) {
	count := len(points)

	if count == 0 {
		return
	}

	color &= 0x0F

	minY, maxY := points[0].Y, points[0].Y

	for _, point := range points[1:] {
		if point.Y < minY {
			minY = point.Y
		}

		if point.Y > maxY {
			maxY = point.Y
		}
	}

	startY := minY
	if startY < Clip.Y {
		startY = Clip.Y
	}

	endY := maxY
	if endY > Clip.Y+Clip.H {
		endY = Clip.Y + Clip.H
	}

	nodes := make([]int32, 0, count)

	for y := int32(startY); y <= int32(endY); y++ {
		nodes = nodes[:0]

		for i := 0; i < count; i++ {
			j := (i + 1) % count

			sy := int32(points[i].Y)
			ey := int32(points[j].Y)

			if (sy < y && ey >= y) || (ey < y && sy >= y) {
				sx := int32(points[i].X)
				ex := int32(points[j].X)

				x := int32(
					float32(sx) +
						float32(y-sy)/float32(ey-sy)*float32(ex-sx),
				)

				nodes = append(nodes, clampX(x))
			}
		}

		sortNodes(nodes)

		row := int(y) * PITCH

		for k := 0; k+1 < len(nodes); k += 2 {
			for x := nodes[k]; x < nodes[k+1]; x++ {
				offset := row + int(x/2)

				if x&1 == 1 {
					target[offset] = (target[offset] & 0xF0) | color
				} else {
					target[offset] = (target[offset] & 0x0F) | color<<4
				}
			}
		}
	}
}

func clampX(x int32) int32 {
	left := int32(Clip.X)
	right := int32(Clip.X) + int32(Clip.W)

	if x < left {
		return left
	}

	if x >= right {
		return right - 1
	}

	return x
}

// Swap out-of-order neighbours, stepping back a single position after each
// swap.
func sortNodes(nodes []int32) {
	i := 0

	for i < len(nodes)-1 {
		if nodes[i] > nodes[i+1] {
			nodes[i], nodes[i+1] = nodes[i+1], nodes[i]

			if i > 0 {
				i--
			}
		} else {
			i++
		}
	}
}

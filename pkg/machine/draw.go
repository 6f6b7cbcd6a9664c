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

package machine

import (
	"github.com/lassandro/goaw/pkg/video"
)

// ShapePosition decodes the position bytes of a shape opcode. A byte only
// reaches 255, so y values past the bottom row spill over into x.
func ShapePosition(x, y uint8) video.Point {
	pos := video.Point{X: int16(x), Y: int16(y)}

	if pos.Y > SCREEN_BOTTOM {
		pos.X += pos.Y - SCREEN_BOTTOM
		pos.Y = SCREEN_BOTTOM
	}

	return pos
}

func (mc *Machine) fetchPolygonByte(offset *uint16) uint8 {
	data := mc.PolygonData()

	if int(*offset) >= len(data) {
		panic(fault{&ProgramOverrunError{mc.thread, *offset, "polygon data"}})
	}

	value := data[*offset]
	*offset++

	return value
}

// drawShape decodes the shape header at offset in the polygon data. Only
// single polygons are rendered; groups are reported through the log.
func (mc *Machine) drawShape(offset uint16, pos video.Point) {
	header := mc.fetchPolygonByte(&offset)

	if header&POLY_SINGLE == POLY_SINGLE {
		mc.drawPolygon(header&POLY_COLOR, pos, offset)
	} else if header&POLY_COLOR == POLY_GROUP {
		mc.warn("Polygon group at %#04x not rendered", offset-1)
	} else {
		mc.warn("Unknown polygon header %#02x at %#04x", header, offset-1)
	}
}

// drawPolygon reads a polygon record
//
//	width, height, count, count * (x, y)
//
// and fills it into the working page. Vertices are relative to the
// bounding box, which is centred on pos.
func (mc *Machine) drawPolygon(color uint8, pos video.Point, offset uint16) {
	width := int16(mc.fetchPolygonByte(&offset))
	height := int16(mc.fetchPolygonByte(&offset))
	count := int(mc.fetchPolygonByte(&offset))

	points := make([]video.Point, count)

	for i := range points {
		points[i].X = int16(mc.fetchPolygonByte(&offset)) + pos.X - width/2
		points[i].Y = int16(mc.fetchPolygonByte(&offset)) + pos.Y - height/2
	}

	target := mc.Video.Page(int(mc.State.ActivePage))

	if target == nil {
		mc.warn("Invalid working page %d, polygon not rendered", mc.State.ActivePage)
		return
	}

	video.Polygon(target, color, points)
}

// SpriteOperandLength is the net number of bytes a sprite opcode advances
// past itself.
func SpriteOperandLength(opcode uint8) int {
	length := 4

	if opcode&0x20 == 0 && opcode&0x10 == 0 {
		length++
	}

	if opcode&0x08 == 0 && opcode&0x04 == 0 {
		length++
	}

	if (opcode&0x02 == 0) == (opcode&0x01 == 0) {
		length--
	}

	return length
}

// skipSprite consumes the operands of a zoomed or register-indirect shape
// without drawing it. Each mode bit decides whether an operand is one byte,
// two bytes or borrowed from a register, and two of the zoom modes carry
// no zoom byte at all, which rewinds the stream by one.
func (mc *Machine) skipSprite(opcode uint8) {
	offset := (uint16(opcode)<<8 | uint16(mc.fetchByte())) * 2

	// x
	mc.fetchByte()

	if opcode&0x20 == 0 && opcode&0x10 == 0 {
		mc.fetchByte()
	}

	// y
	mc.fetchByte()

	if opcode&0x08 == 0 && opcode&0x04 == 0 {
		mc.fetchByte()
	}

	// zoom
	mc.fetchByte()

	if (opcode&0x02 == 0) == (opcode&0x01 == 0) {
		mc.State.Program[mc.thread]--
	}

	mc.warn("Zoomed polygon at %#04x not rendered", offset)
}

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

const (
	WIDTH       = 320
	HEIGHT      = 200
	PITCH       = WIDTH / 2
	BUFFER_SIZE = PITCH * HEIGHT
	PAGE_COUNT  = 3
)

// Polygons are clipped to the top half of the screen
var Clip = Rect{X: 0, Y: 0, W: 319, H: 119}

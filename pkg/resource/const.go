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

const (
	STATE_NOT_NEEDED     State = 0
	STATE_LOADED         State = 1
	STATE_NEEDS_LOADING  State = 2
	STATE_END_OF_MEMLIST State = 0xFF
)

const (
	TYPE_SOUND    Type = 0
	TYPE_MUSIC    Type = 1
	TYPE_IMAGE    Type = 2
	TYPE_PALETTE  Type = 3
	TYPE_BYTECODE Type = 4
	TYPE_POLYGON  Type = 5
	TYPE_BANK     Type = 6
)

// Log message severity tags. The host log capability takes plain text, so
// severity travels as a fixed leading tag; untagged messages are debug
// output.
const (
	LOG_WARNING = "warning: "
	LOG_ERROR   = "error: "
)

const (
	CATALOG_NAME = "memlist.bin"
	CATALOG_SIZE = 2940
	RECORD_SIZE  = 20
	HEAP_SIZE    = 200 * 1024
)

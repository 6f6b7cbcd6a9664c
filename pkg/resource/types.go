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

import (
	"errors"
	"fmt"
)

type State uint8
type Type uint8

type Resource struct {
	State      State
	Type       Type
	BankID     uint8
	BankOffset uint32
	PackedSize uint16
	Size       uint16

	// Borrowed from the heap arena or a video buffer, never owned
	Data []byte
}

// Storage fetches length bytes of the named file starting at offset.
type Storage interface {
	Read(name string, offset uint32, length int) ([]byte, error)
}

// Decompressor expands the first packedSize bytes of buf in place so that
// the whole of buf holds the unpacked resource.
type Decompressor interface {
	Unpack(buf []byte, packedSize int) error
}

type DecompressorFunc func(buf []byte, packedSize int) error

func (fn DecompressorFunc) Unpack(buf []byte, packedSize int) error {
	return fn(buf, packedSize)
}

var (
	ErrCatalogTruncated = errors.New("Catalog ended before end of list marker")
	ErrCatalogSize      = errors.New("Catalog size does not fit 16 bits")
	ErrSizeMismatch     = errors.New("Packed size exceeds unpacked size")
	ErrArenaExhausted   = errors.New("Heap arena exhausted")
	ErrImageTooLarge    = errors.New("Image exceeds video buffer size")
	ErrNoDecompressor   = errors.New("No decompressor for packed resource")
	ErrInvalidIndex     = errors.New("Resource index out of range")
)

type IOError struct {
	Name   string
	Offset uint32
	Length int
	Err    error
}

func (err *IOError) Error() string {
	return fmt.Sprintf(
		"Read %s [%#x+%d]: %v", err.Name, err.Offset, err.Length, err.Err,
	)
}

func (err *IOError) Unwrap() error {
	return err.Err
}

type CorruptResourceError struct {
	Index int
	Err   error
}

func (err *CorruptResourceError) Error() string {
	return fmt.Sprintf("Resource %#02x is corrupt: %v", err.Index, err.Err)
}

func (err *CorruptResourceError) Unwrap() error {
	return err.Err
}

func (s State) String() string {
	switch s {
	case STATE_NOT_NEEDED:
		return "not-needed"
	case STATE_LOADED:
		return "loaded"
	case STATE_NEEDS_LOADING:
		return "needs-loading"
	case STATE_END_OF_MEMLIST:
		return "end-of-memlist"
	}

	return fmt.Sprintf("state(%d)", uint8(s))
}

func (t Type) String() string {
	switch t {
	case TYPE_SOUND:
		return "sound"
	case TYPE_MUSIC:
		return "music"
	case TYPE_IMAGE:
		return "image"
	case TYPE_PALETTE:
		return "palette"
	case TYPE_BYTECODE:
		return "bytecode"
	case TYPE_POLYGON:
		return "polygon"
	case TYPE_BANK:
		return "bank"
	}

	return fmt.Sprintf("type(%d)", uint8(t))
}

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
	"fmt"
	"io"
)

type Loader struct {
	Resources    []*Resource
	Arena        *Arena
	Storage      Storage
	Decompressor Decompressor

	// ImageTarget returns the video buffer that image resources are
	// unpacked into
	ImageTarget func() []byte

	Log func(message string)
}

func (ld *Loader) log(format string, args ...interface{}) {
	if ld.Log != nil {
		ld.Log(fmt.Sprintf(format, args...))
	}
}

// Reset marks every resource as not needed and drops its data binding. The
// arena is rewound, so any previously returned data slice is stale.
func (ld *Loader) Reset() {
	ld.Arena.Reset()

	for _, res := range ld.Resources {
		res.State = STATE_NOT_NEEDED
		res.Data = nil
	}
}

func (ld *Loader) Mark(index int) error {
	if index < 0 || index >= len(ld.Resources) {
		return fmt.Errorf("%w: %#x", ErrInvalidIndex, index)
	}

	ld.Resources[index].State = STATE_NEEDS_LOADING

	return nil
}

// Load marks a single resource and loads everything pending.
func (ld *Loader) Load(index int) error {
	if err := ld.Mark(index); err != nil {
		return err
	}

	return ld.LoadNeeded()
}

// LoadNeeded loads every resource in the needs-loading state, in catalog
// order. The first failure stops the pass and leaves that resource's state
// untouched.
func (ld *Loader) LoadNeeded() error {
	for index, res := range ld.Resources {
		if res.State != STATE_NEEDS_LOADING {
			continue
		}

		if err := ld.load(index, res); err != nil {
			ld.log(LOG_ERROR+"Loading resource %#02x failed: %v", index, err)
			return err
		}
	}

	return nil
}

func (ld *Loader) load(index int, res *Resource) error {
	var destination []byte

	mark := ld.Arena.Offset()

	if res.Type == TYPE_IMAGE {
		if ld.ImageTarget == nil {
			return &CorruptResourceError{index, ErrImageTooLarge}
		}

		target := ld.ImageTarget()

		if int(res.Size) > len(target) {
			return &CorruptResourceError{index, ErrImageTooLarge}
		}

		destination = target[:res.Size]
	} else {
		var err error

		if destination, err = ld.Arena.Alloc(int(res.Size)); err != nil {
			return fmt.Errorf("Resource %#02x: %w", index, err)
		}
	}

	ld.log(
		"Loading resource %#02x of type %s at offset %d",
		index,
		res.Type,
		mark,
	)

	if err := ld.fetch(index, res, destination); err != nil {
		ld.Arena.rewind(mark)
		return err
	}

	res.Data = destination

	if res.Type == TYPE_IMAGE {
		// Consumed straight into video memory
		res.State = STATE_NOT_NEEDED
	} else {
		res.State = STATE_LOADED
	}

	return nil
}

func (ld *Loader) fetch(index int, res *Resource, destination []byte) error {
	if res.PackedSize > res.Size {
		return &CorruptResourceError{index, ErrSizeMismatch}
	}

	name := BankName(res.BankID)
	length := int(res.PackedSize)

	packed, err := ld.Storage.Read(name, res.BankOffset, length)

	if err != nil {
		return &IOError{name, res.BankOffset, length, err}
	}

	if len(packed) != length {
		return &IOError{name, res.BankOffset, length, io.ErrUnexpectedEOF}
	}

	copy(destination, packed)

	if res.PackedSize == res.Size {
		return nil
	}

	if ld.Decompressor == nil {
		return &CorruptResourceError{index, ErrNoDecompressor}
	}

	if err := ld.Decompressor.Unpack(destination, length); err != nil {
		ld.log(LOG_ERROR + "- Unpacking failed")
		return &CorruptResourceError{index, err}
	}

	ld.log("- Unpacked successfully")

	return nil
}

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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ParseCatalog decodes the resource list. Each record is twenty bytes:
//
//	 0     : state
//	 1     : type
//	 2 -  6: unused (always zero)
//	 7     : bank id
//	 8 - 11: bank offset
//	12 - 15: packed size
//	16 - 19: unpacked size
//
// Sizes are stored as 32-bit words; the engine addresses them as 16-bit
// values, so anything larger is rejected.
func ParseCatalog(data []byte) ([]*Resource, error) {
	resources := make([]*Resource, 0, len(data)/RECORD_SIZE)

	for offset := 0; ; offset += RECORD_SIZE {
		if offset >= len(data) {
			return nil, ErrCatalogTruncated
		}

		record := data[offset:]

		if State(record[0]) == STATE_END_OF_MEMLIST {
			break
		}

		if len(record) < RECORD_SIZE {
			return nil, ErrCatalogTruncated
		}

		packed := binary.BigEndian.Uint32(record[12:16])
		size := binary.BigEndian.Uint32(record[16:20])

		if packed > 0xFFFF || size > 0xFFFF {
			return nil, fmt.Errorf(
				"%w: record %d (%#x, %#x)",
				ErrCatalogSize,
				len(resources),
				packed,
				size,
			)
		}

		resources = append(resources, &Resource{
			State:      State(record[0]),
			Type:       Type(record[1]),
			BankID:     record[7],
			BankOffset: binary.BigEndian.Uint32(record[8:12]),
			PackedSize: uint16(packed),
			Size:       uint16(size),
		})
	}

	return resources, nil
}

// LoadCatalog reads at most size bytes of the named catalog. A shorter file is
// accepted as long as its records end with the terminator.
func LoadCatalog(storage Storage, name string, size int) ([]*Resource, error) {
	data, err := storage.Read(name, 0, size)

	if errors.Is(err, io.ErrUnexpectedEOF) && len(data) > 0 {
		err = nil
	}

	if err != nil {
		return nil, &IOError{name, 0, size, err}
	}

	resources, err := ParseCatalog(data)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return resources, nil
}

// Bank files are named by a single hex digit suffix: bank01, bank0d, ...
func BankName(id uint8) string {
	return fmt.Sprintf("bank0%x", id&0x0F)
}

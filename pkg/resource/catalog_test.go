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

package resource_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/lassandro/goaw/pkg/resource"
	"github.com/lassandro/goaw/pkg/storage"
)

type testRecord struct {
	State      resource.State
	Type       resource.Type
	BankID     uint8
	BankOffset uint32
	PackedSize uint32
	Size       uint32
}

func encodeCatalog(records []testRecord, terminate bool) []byte {
	data := make([]byte, 0, (len(records)+1)*resource.RECORD_SIZE)

	for _, rec := range records {
		record := make([]byte, resource.RECORD_SIZE)
		record[0] = uint8(rec.State)
		record[1] = uint8(rec.Type)
		record[7] = rec.BankID
		binary.BigEndian.PutUint32(record[8:], rec.BankOffset)
		binary.BigEndian.PutUint32(record[12:], rec.PackedSize)
		binary.BigEndian.PutUint32(record[16:], rec.Size)
		data = append(data, record...)
	}

	if terminate {
		data = append(data, uint8(resource.STATE_END_OF_MEMLIST))
	}

	return data
}

func TestParseCatalog(t *testing.T) {
	data := encodeCatalog([]testRecord{
		{resource.STATE_NOT_NEEDED, resource.TYPE_PALETTE, 0x1, 0x0000, 0x800, 0x800},
		{resource.STATE_LOADED, resource.TYPE_BYTECODE, 0xD, 0x1234, 0x10, 0x20},
		{resource.STATE_NOT_NEEDED, resource.TYPE_IMAGE, 0x2, 0x5678, 0x0100, 0x7D00},
	}, true)

	resources, err := resource.ParseCatalog(data)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(resources) != 3 {
		t.Fatalf(
			"Resource count mismatch\nwant:%d\nhave:%d", 3, len(resources),
		)
	}

	res := resources[1]

	if res.State != resource.STATE_LOADED || res.Type != resource.TYPE_BYTECODE {
		t.Errorf(
			"Record mismatch\nwant:%s %s\nhave:%s %s",
			resource.STATE_LOADED,
			resource.TYPE_BYTECODE,
			res.State,
			res.Type,
		)
	}

	if res.BankID != 0xD || res.BankOffset != 0x1234 {
		t.Errorf(
			"Bank mismatch\nwant:%#02x %#04x\nhave:%#02x %#04x",
			0xD,
			0x1234,
			res.BankID,
			res.BankOffset,
		)
	}

	if res.PackedSize != 0x10 || res.Size != 0x20 {
		t.Errorf(
			"Size mismatch\nwant:%#04x %#04x\nhave:%#04x %#04x",
			0x10,
			0x20,
			res.PackedSize,
			res.Size,
		)
	}

	if resources[2].PackedSize != 0x0100 || resources[2].Size != 0x7D00 {
		t.Errorf(
			"Size mismatch\nwant:%#04x %#04x\nhave:%#04x %#04x",
			0x0100,
			0x7D00,
			resources[2].PackedSize,
			resources[2].Size,
		)
	}
}

func TestParseCatalogOversized(t *testing.T) {
	testCases := map[string]testRecord{
		"packed":   {resource.STATE_NOT_NEEDED, resource.TYPE_IMAGE, 0x2, 0, 0x1_0000, 0x10},
		"unpacked": {resource.STATE_NOT_NEEDED, resource.TYPE_IMAGE, 0x2, 0, 0x10, 0x1_0004},
	}

	for name, record := range testCases {
		t.Run(name, func(t *testing.T) {
			data := encodeCatalog([]testRecord{record}, true)

			if _, err := resource.ParseCatalog(data); !errors.Is(err, resource.ErrCatalogSize) {
				t.Errorf(
					"Error mismatch\nwant:%v\nhave:%v",
					resource.ErrCatalogSize,
					err,
				)
			}
		})
	}
}

func TestParseCatalogTruncated(t *testing.T) {
	records := []testRecord{
		{resource.STATE_NOT_NEEDED, resource.TYPE_SOUND, 0x1, 0, 4, 4},
	}

	testCases := map[string][]byte{
		"missing terminator": encodeCatalog(records, false),
		"partial record":     encodeCatalog(records, false)[:15],
		"empty":              {},
	}

	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := resource.ParseCatalog(data)

			if !errors.Is(err, resource.ErrCatalogTruncated) {
				t.Errorf(
					"Error mismatch\nwant:%v\nhave:%v",
					resource.ErrCatalogTruncated,
					err,
				)
			}
		})
	}
}

func TestLoadCatalogShortFile(t *testing.T) {
	files := storage.Memory{
		resource.CATALOG_NAME: encodeCatalog([]testRecord{
			{resource.STATE_NOT_NEEDED, resource.TYPE_SOUND, 0x1, 0, 4, 4},
			{resource.STATE_NOT_NEEDED, resource.TYPE_MUSIC, 0x1, 4, 4, 4},
		}, true),
	}

	resources, err := resource.LoadCatalog(
		files,
		resource.CATALOG_NAME,
		resource.CATALOG_SIZE,
	)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(resources) != 2 {
		t.Errorf(
			"Resource count mismatch\nwant:%d\nhave:%d", 2, len(resources),
		)
	}

	_, err = resource.LoadCatalog(files, "missing.bin", resource.CATALOG_SIZE)

	var ioErr *resource.IOError

	if !errors.As(err, &ioErr) {
		t.Errorf("Error mismatch\nwant:*resource.IOError\nhave:%v", err)
	}
}

func TestBankName(t *testing.T) {
	testCases := map[uint8]string{
		0x01: "bank01",
		0x0A: "bank0a",
		0x0D: "bank0d",
	}

	for id, want := range testCases {
		if have := resource.BankName(id); have != want {
			t.Errorf("Bank name mismatch\nwant:%s\nhave:%s", want, have)
		}
	}
}

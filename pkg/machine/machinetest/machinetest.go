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

// Package machinetest provides an in-memory host and game data for tests
// of packages built on the machine.
package machinetest

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/lassandro/goaw/pkg/machine"
	"github.com/lassandro/goaw/pkg/resource"
	"github.com/lassandro/goaw/pkg/storage"
	"github.com/lassandro/goaw/pkg/video"
)

const (
	CHAPTER      uint16 = 16000
	RECORD_COUNT        = 0x30
	EXTRA_INDEX         = 0x05
	BANK                = "bank01"
)

// Host records everything the machine hands to its embedder.
type Host struct {
	Files     storage.Memory
	Presented []video.Buffer
	Palettes  [][16]uint16
	Yields    []uint32
	Logs      []string
}

func (h *Host) Read(name string, offset uint32, length int) ([]byte, error) {
	return h.Files.Read(name, offset, length)
}

func (h *Host) Present(buffer *video.Buffer) {
	h.Presented = append(h.Presented, *buffer)
}

func (h *Host) SetPalette(palette [16]uint16) {
	h.Palettes = append(h.Palettes, palette)
}

func (h *Host) Log(message string) {
	h.Logs = append(h.Logs, message)
}

func (h *Host) Yield(ticks uint32) {
	h.Yields = append(h.Yields, ticks)
}

func (h *Host) Logged(substr string) bool {
	for _, message := range h.Logs {
		if strings.Contains(message, substr) {
			return true
		}
	}

	return false
}

// Palettes holds two palettes with distinct words
func Palettes() []byte {
	data := make([]byte, 64)

	for i := 0; i < 32; i++ {
		binary.BigEndian.PutUint16(data[i*2:], uint16(i*0x111))
	}

	return data
}

// NewHost serves a catalog whose records all point into a single bank.
// Both of the first two chapters share the same palette, code and polygon
// data.
func NewHost(code []byte, polygons []byte) *Host {
	palettes := Palettes()
	extra := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	var bank []byte

	place := func(data []byte) (uint32, uint32) {
		offset := uint32(len(bank))
		bank = append(bank, data...)
		return offset, uint32(len(data))
	}

	type record struct {
		Type   resource.Type
		Offset uint32
		Size   uint32
	}

	records := make([]record, RECORD_COUNT)

	for i := range records {
		records[i].Type = resource.TYPE_SOUND
	}

	paletteOffset, paletteSize := place(palettes)
	codeOffset, codeSize := place(code)
	polygonOffset, polygonSize := place(polygons)
	extraOffset, extraSize := place(extra)

	for _, chapter := range machine.CHAPTERS[:2] {
		records[chapter.Palette] = record{resource.TYPE_PALETTE, paletteOffset, paletteSize}
		records[chapter.Code] = record{resource.TYPE_BYTECODE, codeOffset, codeSize}
		records[chapter.Background] = record{resource.TYPE_POLYGON, polygonOffset, polygonSize}
	}

	records[EXTRA_INDEX] = record{resource.TYPE_BANK, extraOffset, extraSize}

	var catalog []byte

	for _, rec := range records {
		data := make([]byte, resource.RECORD_SIZE)
		data[1] = uint8(rec.Type)
		data[7] = 0x01
		binary.BigEndian.PutUint32(data[8:], rec.Offset)
		binary.BigEndian.PutUint32(data[12:], rec.Size)
		binary.BigEndian.PutUint32(data[16:], rec.Size)
		catalog = append(catalog, data...)
	}

	catalog = append(catalog, uint8(resource.STATE_END_OF_MEMLIST))

	return &Host{
		Files: storage.Memory{
			resource.CATALOG_NAME: catalog,
			BANK:                  bank,
		},
	}
}

// NewMachine builds a machine over NewHost and starts CHAPTER. A zero seed
// is replaced with 0x1234.
func NewMachine(t testing.TB, code []byte, polygons []byte, options machine.Options) (*machine.Machine, *Host) {
	t.Helper()

	host := NewHost(code, polygons)

	if options.Seed == 0 {
		options.Seed = 0x1234
	}

	mc, err := machine.New(host, options)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := mc.InitialiseChapter(CHAPTER); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	return mc, host
}

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

package bytekiller_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/lassandro/goaw/pkg/bytekiller"
)

// bitWriter produces a packed stream in the order the unpacker consumes it.
type bitWriter struct {
	bits []uint32
}

func (w *bitWriter) put(value uint32, count int) {
	for i := count - 1; i >= 0; i-- {
		w.bits = append(w.bits, (value>>uint(i))&1)
	}
}

func (w *bitWriter) literal(data ...byte) {
	w.put(0b00, 2)
	w.put(uint32(len(data)-1), 3)
	for _, b := range data {
		w.put(uint32(b), 8)
	}
}

func (w *bitWriter) reference(count int, offset int) {
	w.put(0b110, 3)
	w.put(uint32(count-1), 8)
	w.put(uint32(offset), 12)
}

func (w *bitWriter) pack(size int, capacity int) []byte {
	lead := len(w.bits) % 32

	first := uint32(1) << uint(lead)
	for i := 0; i < lead; i++ {
		first |= w.bits[i] << uint(i)
	}

	words := []uint32{first}
	for i := lead; i < len(w.bits); i += 32 {
		var word uint32
		for j := 0; j < 32; j++ {
			word |= w.bits[i+j] << uint(j)
		}
		words = append(words, word)
	}

	var crc uint32
	for _, word := range words {
		crc ^= word
	}

	buffer := make([]byte, 0, capacity)
	for i := len(words) - 1; i >= 0; i-- {
		buffer = binary.BigEndian.AppendUint32(buffer, words[i])
	}
	buffer = binary.BigEndian.AppendUint32(buffer, crc)
	buffer = binary.BigEndian.AppendUint32(buffer, uint32(size))

	return buffer
}

func packedRun() (packed []byte, want []byte) {
	var w bitWriter

	// Output is produced from the last byte backward
	w.literal('Z')
	w.reference(62, 1)
	w.literal('A')

	want = append([]byte{'A'}, bytes.Repeat([]byte{'Z'}, 63)...)

	return w.pack(len(want), len(want)), want
}

func TestUnpackInPlace(t *testing.T) {
	packed, want := packedRun()

	buffer := make([]byte, len(want))
	copy(buffer, packed)

	if err := bytekiller.Unpack(buffer, len(packed)); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(buffer, want) {
		t.Errorf("Unpacked data mismatch\nwant:%q\nhave:%q", want, buffer)
	}
}

func TestUnpackOversizedStream(t *testing.T) {
	var w bitWriter

	w.literal('o', 'l', 'l')
	w.literal('e', 'h')

	packed := w.pack(5, 32)

	// Literal-only streams are larger than their output
	buffer := make([]byte, len(packed))
	copy(buffer, packed)

	if err := bytekiller.Unpack(buffer[:5], len(packed)); !errors.Is(err, bytekiller.ErrBounds) {
		t.Errorf("Error mismatch\nwant:%v\nhave:%v", bytekiller.ErrBounds, err)
	}
}

func TestUnpackChecksum(t *testing.T) {
	packed, want := packedRun()

	buffer := make([]byte, len(want))
	copy(buffer, packed)

	// Corrupt the stored checksum
	buffer[len(packed)-5] ^= 0x01

	if err := bytekiller.Unpack(buffer, len(packed)); !errors.Is(err, bytekiller.ErrChecksum) {
		t.Errorf("Error mismatch\nwant:%v\nhave:%v", bytekiller.ErrChecksum, err)
	}
}

func TestUnpackSize(t *testing.T) {
	packed, want := packedRun()

	buffer := make([]byte, len(want)+1)
	copy(buffer, packed)

	if err := bytekiller.Unpack(buffer, len(packed)); !errors.Is(err, bytekiller.ErrSize) {
		t.Errorf("Error mismatch\nwant:%v\nhave:%v", bytekiller.ErrSize, err)
	}

	if err := bytekiller.Unpack(buffer, 8); !errors.Is(err, bytekiller.ErrBounds) {
		t.Errorf("Error mismatch\nwant:%v\nhave:%v", bytekiller.ErrBounds, err)
	}
}

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

// Package bytekiller unpacks resources compressed with the ByteKiller
// variant used by the game's bank files.
//
// The packed stream is read backward from the end of its data: the last
// three big-endian words are the unpacked size, a checksum and the first
// word of bits. Output is written from the end of the destination toward
// its start, which allows unpacking in place over a buffer that holds the
// packed bytes at its beginning.
package bytekiller

import (
	"encoding/binary"
	"errors"
)

var (
	ErrChecksum = errors.New("Checksum mismatch")
	ErrBounds   = errors.New("Packed data out of bounds")
	ErrSize     = errors.New("Unpacked size does not match buffer")
)

type unpacker struct {
	buffer []byte
	src    int
	dst    int
	size   int
	crc    uint32
	bits   uint32
	err    error
}

// Unpack expands the first packedSize bytes of buffer in place.
func Unpack(buffer []byte, packedSize int) error {
	if packedSize < 12 || packedSize > len(buffer) {
		return ErrBounds
	}

	u := unpacker{buffer: buffer, src: packedSize - 4}

	u.size = int(u.word())

	if u.size != len(buffer) {
		return ErrSize
	}

	u.dst = u.size - 1
	u.crc = u.word()
	u.bits = u.word()
	u.crc ^= u.bits

	for u.size > 0 && u.err == nil {
		if u.nextBit() == 0 {
			if u.nextBit() == 0 {
				u.copyLiteral(3, 0)
			} else {
				u.copyReference(8, 2)
			}

			continue
		}

		switch u.getBits(2) {
		case 3:
			u.copyLiteral(8, 8)
		case 2:
			count := int(u.getBits(8)) + 1
			u.copyReference(12, count)
		case 1:
			u.copyReference(10, 4)
		case 0:
			u.copyReference(9, 3)
		}
	}

	if u.err != nil {
		return u.err
	}

	if u.crc != 0 {
		return ErrChecksum
	}

	return nil
}

func (u *unpacker) word() uint32 {
	if u.src < 0 {
		u.err = ErrBounds
		return 0
	}

	value := binary.BigEndian.Uint32(u.buffer[u.src:])
	u.src -= 4

	return value
}

func (u *unpacker) shiftBit(carry uint32) uint32 {
	out := u.bits & 1
	u.bits >>= 1

	if carry != 0 {
		u.bits |= 0x80000000
	}

	return out
}

// The highest set bit of the bit word marks its end; once it has been
// shifted out the next word is fetched.
func (u *unpacker) nextBit() uint32 {
	carry := u.shiftBit(0)

	if u.bits == 0 {
		u.bits = u.word()
		u.crc ^= u.bits
		carry = u.shiftBit(1)
	}

	return carry
}

func (u *unpacker) getBits(count int) uint16 {
	var value uint16

	for ; count > 0; count-- {
		value = value<<1 | uint16(u.nextBit())
	}

	return value
}

func (u *unpacker) clip(count int) int {
	u.size -= count

	if u.size < 0 {
		count += u.size
		u.size = 0
	}

	return count
}

func (u *unpacker) copyLiteral(bits int, length int) {
	count := u.clip(int(u.getBits(bits)) + length + 1)

	for i := 0; i < count; i++ {
		u.buffer[u.dst-i] = uint8(u.getBits(8))
	}

	u.dst -= count
}

func (u *unpacker) copyReference(bits int, count int) {
	offset := int(u.getBits(bits))
	count = u.clip(count)

	if u.dst+offset >= len(u.buffer) {
		u.err = ErrBounds
		return
	}

	for i := 0; i < count; i++ {
		u.buffer[u.dst-i] = u.buffer[u.dst-i+offset]
	}

	u.dst -= count
}

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

package encoding_test

import (
	"testing"

	"github.com/lassandro/goaw/pkg/encoding"
)

func TestDecodeLiteral(t *testing.T) {
	tests := []struct {
		Input string
		Want  uint16
		Fail  bool
	}{
		{"0x1234", 0x1234, false},
		{"xFF", 0x00FF, false},
		{"#42", 42, false},
		{"-1", 0xFFFF, false},
		{"#65535", 0xFFFF, false},
		{"0x10000", 0, true},
		{"#abc", 0, true},
		{"1x2", 0, true},
	}

	for _, test := range tests {
		have, err := encoding.DecodeLiteral(test.Input)

		if test.Fail {
			if err == nil {
				t.Errorf("Expected error decoding %q", test.Input)
			}
			continue
		}

		if err != nil {
			t.Errorf("Unexpected error decoding %q: %v", test.Input, err)
			continue
		}

		if have != test.Want {
			t.Errorf(
				"Literal mismatch\nwant:%#04x (%q)\nhave:%#04x",
				test.Want,
				test.Input,
				have,
			)
		}
	}
}

func TestReplicateNibble(t *testing.T) {
	for color := uint8(0); color < 0x20; color++ {
		want := (color & 0xF) * 0x11
		if have := encoding.ReplicateNibble(color); have != want {
			t.Errorf(
				"Nibble mismatch\nwant:%#02x (color %#02x)\nhave:%#02x",
				want,
				color,
				have,
			)
		}
	}
}

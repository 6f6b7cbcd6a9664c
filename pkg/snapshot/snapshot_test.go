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

package snapshot_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/lassandro/goaw/pkg/machine"
	"github.com/lassandro/goaw/pkg/machine/machinetest"
	"github.com/lassandro/goaw/pkg/snapshot"
)

// addi r1, 1 / brk / jmp 0x0000
var testCode = []byte{0x03, 0x01, 0x00, 0x01, 0x06, 0x07, 0x00, 0x00}

func newRunningMachine(t *testing.T) *machine.Machine {
	t.Helper()

	mc, _ := machinetest.NewMachine(t, testCode, nil, machine.Options{})

	for i := 0; i < 2; i++ {
		if err := mc.Tick(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	mc.Video.Page(1).Fill(0x07)
	mc.Video.Page(2).SetPixel(3, 4, 0x0A)
	mc.Video.Swap(1, 2)

	mc.State.ActivePage = 2
	mc.State.CallStack = append(mc.State.CallStack, 0x0004)
	mc.State.Program[9] = 0x0004

	return mc
}

func TestRoundTrip(t *testing.T) {
	mc := newRunningMachine(t)

	data, err := snapshot.Encode(snapshot.Capture(mc))

	if err != nil {
		t.Fatal(err)
	}

	again, err := snapshot.Encode(snapshot.Capture(mc))

	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(data, again) {
		t.Error("Encoding is not deterministic")
	}

	snap, err := snapshot.Decode(data)

	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(snap, snapshot.Capture(mc)) {
		t.Error("Decoded snapshot differs from capture")
	}

	restored, _ := machinetest.NewMachine(t, testCode, nil, machine.Options{})

	if err := snapshot.Restore(restored, snap); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(restored.State, mc.State) {
		t.Errorf(
			"State mismatch\nwant:%+v (mc.State)\nhave:%+v",
			mc.State,
			restored.State,
		)
	}

	if restored.Video.Order() != mc.Video.Order() {
		t.Errorf(
			"Page order mismatch\nwant:%v\nhave:%v",
			mc.Video.Order(),
			restored.Video.Order(),
		)
	}

	for i := 0; i < 3; i++ {
		if *restored.Video.Page(i) != *mc.Video.Page(i) {
			t.Errorf("Page %d contents mismatch", i)
		}
	}

	if err := mc.Tick(); err != nil {
		t.Fatal(err)
	}

	if err := restored.Tick(); err != nil {
		t.Fatal(err)
	}

	if have, want := restored.State.Registers[1], mc.State.Registers[1]; have != want {
		t.Errorf("Register mismatch after resume\nwant:%#04x\nhave:%#04x", want, have)
	}
}

func TestRestoreErrors(t *testing.T) {
	testCases := []struct {
		Name   string
		Modify func(*snapshot.Snapshot)
		Error  error
	}{
		{
			Name:   "Call Stack",
			Modify: func(s *snapshot.Snapshot) { s.CallStack = make([]uint16, machine.CALL_STACK_LIMIT+1) },
			Error:  snapshot.ErrCallStack,
		},
		{
			Name:   "Page Size",
			Modify: func(s *snapshot.Snapshot) { s.Pages[1] = s.Pages[1][:10] },
			Error:  snapshot.ErrPageLayout,
		},
		{
			Name:   "Active Page",
			Modify: func(s *snapshot.Snapshot) { s.ActivePage = 7 },
			Error:  snapshot.ErrActivePage,
		},
	}

	for _, test := range testCases {
		t.Run(test.Name, func(t *testing.T) {
			mc := newRunningMachine(t)
			before := mc.State

			snap := snapshot.Capture(mc)
			test.Modify(snap)

			if err := snapshot.Restore(mc, snap); !errors.Is(err, test.Error) {
				t.Fatalf("Error mismatch\nwant:%v\nhave:%v", test.Error, err)
			}

			if !reflect.DeepEqual(mc.State, before) {
				t.Error("Machine modified by failed restore")
			}
		})
	}

	t.Run("Chapter", func(t *testing.T) {
		mc := newRunningMachine(t)

		snap := snapshot.Capture(mc)
		snap.Chapter = 15999

		var invalid *machine.InvalidChapterError

		if err := snapshot.Restore(mc, snap); !errors.As(err, &invalid) {
			t.Fatalf("Error mismatch\nwant:invalid chapter\nhave:%v", err)
		}
	})

	t.Run("Page Order", func(t *testing.T) {
		mc := newRunningMachine(t)

		before := mc.State

		snap := snapshot.Capture(mc)
		snap.PageOrder = [3]int{0, 0, 1}

		if err := snapshot.Restore(mc, snap); err == nil {
			t.Fatal("Expected error restoring duplicate page order")
		}

		if !reflect.DeepEqual(mc.State, before) {
			t.Error("Machine modified by failed restore")
		}
	})
}

func TestDecodeErrors(t *testing.T) {
	if _, err := snapshot.Decode([]byte{0xFF, 0x00}); err == nil {
		t.Error("Expected error decoding garbage")
	}

	snap := snapshot.Capture(newRunningMachine(t))
	snap.Version = snapshot.VERSION + 1

	data, err := snapshot.Encode(snap)

	if err != nil {
		t.Fatal(err)
	}

	if _, err := snapshot.Decode(data); !errors.Is(err, snapshot.ErrVersion) {
		t.Errorf("Error mismatch\nwant:%v\nhave:%v", snapshot.ErrVersion, err)
	}
}

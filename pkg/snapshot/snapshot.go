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

package snapshot

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/lassandro/goaw/pkg/machine"
	"github.com/lassandro/goaw/pkg/video"
)

const VERSION uint8 = 1

var (
	ErrVersion    = errors.New("Unsupported snapshot version")
	ErrCallStack  = errors.New("Snapshot call stack exceeds limit")
	ErrPageLayout = errors.New("Snapshot page data is malformed")
	ErrActivePage = errors.New("Snapshot active page is out of range")
)

// Snapshot is the resumable part of a machine. Resource data is not
// captured; it is reloaded from the chapter on Restore.
type Snapshot struct {
	Version    uint8                         `cbor:"1,keyasint"`
	Chapter    uint16                        `cbor:"2,keyasint"`
	Registers  [machine.REGISTER_COUNT]int16 `cbor:"3,keyasint"`
	Program    [machine.THREAD_COUNT]uint16  `cbor:"4,keyasint"`
	CallStack  []uint16                      `cbor:"5,keyasint,omitempty"`
	ActivePage uint8                         `cbor:"6,keyasint"`
	Quit       bool                          `cbor:"7,keyasint,omitempty"`
	PageOrder  [video.PAGE_COUNT]int         `cbor:"8,keyasint"`
	Pages      [video.PAGE_COUNT][]byte      `cbor:"9,keyasint"`
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()

	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}

	encMode = em
}

func Capture(mc *machine.Machine) *Snapshot {
	snap := &Snapshot{
		Version:    VERSION,
		Chapter:    mc.State.Chapter,
		Registers:  mc.State.Registers,
		Program:    mc.State.Program,
		CallStack:  append([]uint16(nil), mc.State.CallStack...),
		ActivePage: mc.State.ActivePage,
		Quit:       mc.State.QuitRequested,
		PageOrder:  mc.Video.Order(),
	}

	for i := range snap.Pages {
		storage := mc.Video.Storage(i)
		snap.Pages[i] = append([]byte(nil), storage[:]...)
	}

	return snap
}

func Encode(snap *Snapshot) ([]byte, error) {
	return encMode.Marshal(snap)
}

func Decode(data []byte) (*Snapshot, error) {
	var snap Snapshot

	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}

	if snap.Version != VERSION {
		return nil, fmt.Errorf("%w: %d", ErrVersion, snap.Version)
	}

	return &snap, nil
}

// Restore loads the snapshot's chapter and then overwrites the machine
// state. The machine is left untouched when the snapshot is malformed.
func Restore(mc *machine.Machine, snap *Snapshot) error {
	if len(snap.CallStack) > machine.CALL_STACK_LIMIT {
		return ErrCallStack
	}

	for _, page := range snap.Pages {
		if len(page) != video.BUFFER_SIZE {
			return ErrPageLayout
		}
	}

	if !mc.Video.Valid(int(snap.ActivePage)) {
		return ErrActivePage
	}

	if _, ok := machine.ChapterIndex(snap.Chapter); !ok {
		return &machine.InvalidChapterError{ID: snap.Chapter}
	}

	if err := video.NewPages().SetOrder(snap.PageOrder); err != nil {
		return err
	}

	if err := mc.InitialiseChapter(snap.Chapter); err != nil {
		return err
	}

	mc.Video.SetOrder(snap.PageOrder)

	for i, page := range snap.Pages {
		copy(mc.Video.Storage(i)[:], page)
	}

	mc.State.Registers = snap.Registers
	mc.State.Program = snap.Program
	mc.State.CallStack = append(mc.State.CallStack[:0], snap.CallStack...)
	mc.State.ActivePage = snap.ActivePage
	mc.State.QuitRequested = snap.Quit

	return nil
}

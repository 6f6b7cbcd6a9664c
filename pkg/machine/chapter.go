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

package machine

type ChapterResources struct {
	Palette    uint8
	Code       uint8
	Background uint8

	// Zero when the chapter has no character polygons
	Characters uint8
}

// Chapters are addressed as CHAPTER_BASE + index:
//
//	16000 title
//	16001 intro
//	16002 cave
//	16003 prison
//	16004 citadel
//	16005 arena
//	16006 bath
//	16007 final
//	16008 password entry
//	16009 password entry (copy)
var CHAPTERS = [...]ChapterResources{
	{0x14, 0x15, 0x16, 0x00},
	{0x17, 0x18, 0x19, 0x00},
	{0x1A, 0x1B, 0x1C, 0x11},
	{0x1D, 0x1E, 0x1F, 0x11},
	{0x20, 0x21, 0x22, 0x11},
	{0x23, 0x24, 0x25, 0x00},
	{0x26, 0x27, 0x28, 0x11},
	{0x29, 0x2A, 0x2B, 0x11},
	{0x7D, 0x7E, 0x7F, 0x00},
	{0x7D, 0x7E, 0x7F, 0x00},
}

func ChapterIndex(id uint16) (int, bool) {
	if id < CHAPTER_BASE || int(id-CHAPTER_BASE) >= len(CHAPTERS) {
		return 0, false
	}

	return int(id - CHAPTER_BASE), true
}

// InitialiseChapter drops every loaded resource, loads the chapter's set
// and restarts execution at offset 0 of its bytecode on thread 0. Registers
// other than REG_CHAPTER_SETUP are preserved.
func (mc *Machine) InitialiseChapter(id uint16) error {
	index, ok := ChapterIndex(id)

	if !ok {
		return &InvalidChapterError{id}
	}

	chapter := CHAPTERS[index]

	mc.Resources.Reset()

	mc.State.Chapter = id
	mc.State.Registers[REG_CHAPTER_SETUP] = 0x14

	mc.palette = int(chapter.Palette)
	mc.code = int(chapter.Code)
	mc.background = int(chapter.Background)
	mc.characters = -1

	needed := []uint8{chapter.Palette, chapter.Code, chapter.Background}

	if chapter.Characters != 0 {
		mc.characters = int(chapter.Characters)
		needed = append(needed, chapter.Characters)
	}

	for _, res := range needed {
		if err := mc.Resources.Mark(int(res)); err != nil {
			return err
		}
	}

	if err := mc.Resources.LoadNeeded(); err != nil {
		return err
	}

	for i := range mc.State.Program {
		mc.State.Program[i] = THREAD_INACTIVE
	}

	mc.State.Program[0] = 0
	mc.State.CallStack = mc.State.CallStack[:0]

	return nil
}

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

import (
	"encoding/binary"
	"fmt"

	"github.com/lassandro/goaw/pkg/bytekiller"
	"github.com/lassandro/goaw/pkg/resource"
	"github.com/lassandro/goaw/pkg/video"
)

func New(host Host, options Options) (*Machine, error) {
	if options.HeapSize <= 0 {
		options.HeapSize = resource.HEAP_SIZE
	}

	if options.CatalogName == "" {
		options.CatalogName = resource.CATALOG_NAME
	}

	if options.CatalogSize <= 0 {
		options.CatalogSize = resource.CATALOG_SIZE
	}

	if options.Decompressor == nil {
		options.Decompressor = resource.DecompressorFunc(bytekiller.Unpack)
	}

	resources, err := resource.LoadCatalog(
		host,
		options.CatalogName,
		options.CatalogSize,
	)

	if err != nil {
		return nil, err
	}

	mc := &Machine{
		Host:    host,
		Video:   video.NewPages(),
		options: options,
	}

	mc.Resources = &resource.Loader{
		Resources:    resources,
		Arena:        resource.NewArena(options.HeapSize),
		Storage:      host,
		Decompressor: options.Decompressor,
		ImageTarget:  func() []byte { return mc.Video.Page(0)[:] },
		Log:          host.Log,
	}

	mc.Init()

	return mc, nil
}

// Init returns the machine to its power-on state. Loaded resources are left
// alone; call InitialiseChapter to select a chapter.
func (mc *Machine) Init() {
	for i := range mc.State.Registers {
		mc.State.Registers[i] = 0
	}

	for i := range mc.State.Program {
		mc.State.Program[i] = THREAD_INACTIVE
	}

	mc.State.Registers[REG_SYSTEM_FLAGS] = 0x81
	mc.State.Registers[REG_RANDOM_SEED] = mc.options.Seed

	mc.State.CallStack = mc.State.CallStack[:0]
	mc.State.ActivePage = DEFAULT_PAGE
	mc.State.QuitRequested = false

	mc.palette = -1
	mc.code = -1
	mc.background = -1
	mc.characters = -1
}

// Thread returns the slot currently executing, or the last one that ran.
func (mc *Machine) Thread() int {
	return mc.thread
}

func (mc *Machine) PC() uint16 {
	return mc.State.Program[mc.thread]
}

func (mc *Machine) Registers() []int16 {
	return mc.State.Registers[:]
}

func (mc *Machine) Threads() []uint16 {
	return mc.State.Program[:]
}

// Code returns the bytecode of the current chapter.
func (mc *Machine) Code() []byte {
	return mc.resourceData(mc.code)
}

func (mc *Machine) PolygonData() []byte {
	return mc.resourceData(mc.background)
}

func (mc *Machine) resourceData(index int) []byte {
	if mc.Resources == nil || index < 0 || index >= len(mc.Resources.Resources) {
		return nil
	}

	return mc.Resources.Resources[index].Data
}

func (mc *Machine) log(format string, args ...interface{}) {
	if mc.Host != nil {
		mc.Host.Log(fmt.Sprintf(format, args...))
	}
}

func (mc *Machine) warn(format string, args ...interface{}) {
	mc.log(resource.LOG_WARNING+format, args...)
}

func (mc *Machine) read(register uint8) int16 {
	if mc.Debugger != nil {
		mc.Debugger.Read(register, mc)
	}

	return mc.State.Registers[register]
}

func (mc *Machine) write(register uint8, value int16) {
	mc.State.Registers[register] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(register, mc)
	}
}

func (mc *Machine) fetchByte() uint8 {
	code := mc.Code()
	pc := &mc.State.Program[mc.thread]

	if int(*pc) >= len(code) {
		panic(fault{&ProgramOverrunError{mc.thread, *pc, "bytecode"}})
	}

	value := code[*pc]
	*pc++

	return value
}

func (mc *Machine) fetchWord() uint16 {
	high := mc.fetchByte()
	low := mc.fetchByte()

	return uint16(high)<<8 | uint16(low)
}

// Tick runs every active thread once in ascending slot order. Each thread
// runs until it pauses, dies or the chapter changes underneath it.
func (mc *Machine) Tick() (err error) {
	if mc.Code() == nil {
		return ErrNoCode
	}

	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(fault)

			if !ok {
				panic(r)
			}

			err = f.err
		}
	}()

	mc.ticks = 0
	mc.switched = false

	for thread := 0; thread < THREAD_COUNT; thread++ {
		if mc.State.Program[thread] == THREAD_INACTIVE {
			continue
		}

		if mc.options.Trace {
			mc.log("Switch to thread %d", thread)
		}

		mc.thread = thread

		if err := mc.run(); err != nil {
			return err
		}

		// Slots now refer to the new chapter's code
		if mc.switched {
			break
		}
	}

	return nil
}

func (mc *Machine) run() error {
	for steps := 1; ; steps++ {
		if mc.options.MaxSteps > 0 && steps > mc.options.MaxSteps {
			return &RunawayThreadError{mc.thread, mc.options.MaxSteps}
		}

		if mc.Debugger != nil {
			mc.Debugger.Step(mc)
		}

		done, err := mc.step()

		if err != nil || done {
			return err
		}
	}
}

// step executes a single opcode of the current thread and reports whether
// the thread's turn is over.
func (mc *Machine) step() (bool, error) {
	pc := mc.State.Program[mc.thread]
	opcode := mc.fetchByte()

	mc.ticks++

	if mc.options.Trace {
		mc.log(
			": %s (%#02x) [%d] @ %#04x",
			OpcodeName(opcode),
			opcode,
			mc.thread,
			pc,
		)
	}

	// POLY |1|offset hi    |offset lo     |x       |y       |
	// ---- [ _ _ _ _ _ _ _ _ ]
	if opcode&OP_POLY != 0 {
		offset := (uint16(opcode&0x7F)<<8 | uint16(mc.fetchByte())) * 2

		x := mc.fetchByte()
		y := mc.fetchByte()

		mc.drawShape(offset, ShapePosition(x, y))
		mc.yield()

		return false, nil
	}

	// SPOLY|0|1|x mode|y mode|zoom mode|offset lo|...
	// ---- [ _ _ _ _ _ _ _ _ ]
	if opcode&OP_SPRITE != 0 {
		mc.skipSprite(opcode)
		return false, nil
	}

	switch opcode {
	// MOVI |00|reg|value hi|value lo| Register <- literal
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_MOVI:
		dest := mc.fetchByte()
		value := int16(mc.fetchWord())

		mc.write(dest, value)

	// MOV  |01|dest|src| Register <- register
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_MOV:
		dest := mc.fetchByte()
		src := mc.fetchByte()

		mc.write(dest, mc.read(src))

	// ADD  |02|dest|src| Register += register
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_ADD:
		dest := mc.fetchByte()
		src := mc.fetchByte()

		mc.write(dest, mc.read(dest)+mc.read(src))

	// ADDI |03|reg|value hi|value lo| Register += literal
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_ADDI:
		dest := mc.fetchByte()
		value := int16(mc.fetchWord())

		mc.write(dest, mc.read(dest)+value)

	// CALL |04|addr hi|addr lo| Push return address, jump
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_CALL:
		target := mc.fetchWord()

		if len(mc.State.CallStack) >= CALL_STACK_LIMIT {
			return true, &StackOverflowError{mc.thread, pc}
		}

		mc.State.CallStack = append(
			mc.State.CallStack,
			mc.State.Program[mc.thread],
		)
		mc.State.Program[mc.thread] = target

	// RET  |05| Pop return address
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_RET:
		top := len(mc.State.CallStack) - 1

		if top < 0 {
			return true, &StackUnderflowError{mc.thread, pc}
		}

		mc.State.Program[mc.thread] = mc.State.CallStack[top]
		mc.State.CallStack = mc.State.CallStack[:top]

	// BRK  |06| End this thread's turn
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_BRK:
		return true, nil

	// JMP  |07|addr hi|addr lo| Jump
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_JMP:
		mc.State.Program[mc.thread] = mc.fetchWord()

	// SVEC |08|thread|addr hi|addr lo| Set another thread's pc
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_SVEC:
		thread := mc.fetchByte()
		target := mc.fetchWord()

		if int(thread) >= THREAD_COUNT {
			mc.warn("Invalid thread %d spawned at %#04x", thread, target)
			break
		}

		if mc.options.Trace {
			mc.log("Create thread %d starting at %#04x", thread, target)
		}

		mc.State.Program[thread] = target

	// DJNZ |09|reg|addr hi|addr lo| Decrement, jump if not zero
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_DJNZ:
		reg := mc.fetchByte()
		target := mc.fetchWord()
		value := mc.read(reg) - 1

		mc.write(reg, value)

		if value != 0 {
			mc.State.Program[mc.thread] = target
		}

	// CJMP |0a|R|W|000|cond|reg|operand (1 or 2)|addr hi|addr lo|
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_CJMP:
		mode := mc.fetchByte()
		left := mc.read(mc.fetchByte())

		var right int16

		if mode&COND_REGISTER != 0 {
			right = mc.read(mc.fetchByte())
		} else if mode&COND_WORD != 0 {
			right = int16(mc.fetchWord())
		} else {
			right = int16(mc.fetchByte())
		}

		target := mc.fetchWord()

		if compare(mode&COND_MASK, left, right) {
			mc.State.Program[mc.thread] = target
		}

	// PAL  |0b|palette|speed| Select palette
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_PAL:
		id := mc.fetchByte()
		mc.fetchByte()

		mc.setPalette(id)

	// NOP3 |0c|thread|range|action| Reserved
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_NOP3:
		mc.fetchByte()
		mc.fetchByte()
		mc.fetchByte()

	// SETWS|0d|page| Select the working page
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_SETWS:
		id := mc.fetchByte()

		if !mc.Video.Valid(int(id)) {
			mc.warn("Invalid work page %d at %#04x", id, pc)
			break
		}

		mc.State.ActivePage = id

	// VCLR |0e|page|color| Fill a page
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_VCLR:
		id := mc.fetchByte()
		color := mc.fetchByte()

		mc.Video.Clear(int(id), color)

	// VCPY |0f|src|dest| Copy a page
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_VCPY:
		src := mc.fetchByte()
		dest := mc.fetchByte()

		if !mc.Video.Copy(int(src), int(dest)) {
			mc.warn("Invalid page copy %d -> %d at %#04x", src, dest, pc)
		}

	// VSHW |10|page| Present a page, 0xff swaps pages 0 and 1
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_VSHW:
		id := mc.fetchByte()

		if id == PAGE_SWAP {
			mc.Video.Swap(0, 1)
		} else if mc.Video.Valid(int(id)) {
			mc.Host.Present(mc.Video.Page(int(id)))
		} else {
			mc.warn("Invalid page %d presented at %#04x", id, pc)
		}

	// KILL |11| Deactivate this thread
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_KILL:
		mc.State.Program[mc.thread] = THREAD_INACTIVE
		return true, nil

	// TEXT |12|id hi|id lo|x|y|color| Draw a string
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_TEXT:
		id := mc.fetchWord()
		x := mc.fetchByte()
		y := mc.fetchByte()
		color := mc.fetchByte()

		if text, ok := STRINGS[id]; ok {
			mc.log("Text %#04x at (%d, %d) color %d: %s", id, x, y, color, text)
		} else {
			mc.warn("Invalid string %#04x at %#04x", id, pc)
		}

	// SUB  |13|dest|src| Register -= register
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_SUB:
		dest := mc.fetchByte()
		src := mc.fetchByte()

		mc.write(dest, mc.read(dest)-mc.read(src))

	// ANDI |14|reg|value hi|value lo| Register &= literal
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_ANDI:
		dest := mc.fetchByte()
		value := mc.fetchWord()

		mc.write(dest, int16(uint16(mc.read(dest))&value))

	// ORI  |15|reg|value hi|value lo| Register |= literal
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_ORI:
		dest := mc.fetchByte()
		value := mc.fetchWord()

		mc.write(dest, int16(uint16(mc.read(dest))|value))

	// SHLI |16|reg|count hi|count lo| Logical shift left
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_SHLI:
		dest := mc.fetchByte()
		count := mc.fetchWord()

		mc.write(dest, int16(uint16(mc.read(dest))<<count))

	// SHRI |17|reg|count hi|count lo| Logical shift right
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_SHRI:
		dest := mc.fetchByte()
		count := mc.fetchWord()

		mc.write(dest, int16(uint16(mc.read(dest))>>count))

	// SND  |18|id hi|id lo|freq|volume|channel| Play sound
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_SND:
		id := mc.fetchWord()
		mc.fetchByte()
		mc.fetchByte()
		mc.fetchByte()

		if mc.options.Trace {
			mc.log("Sound %#04x ignored", id)
		}

	// LOAD |19|id hi|id lo| Load a resource or switch chapter
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_LOAD:
		return mc.load(mc.fetchWord())

	// MUSIC|1a|id hi|id lo|delay hi|delay lo|position| Play music
	// ---- [ _ _ _ _ _ _ _ _ ]
	case OP_MUSIC:
		id := mc.fetchWord()
		mc.fetchWord()
		mc.fetchByte()

		if mc.options.Trace {
			mc.log("Music %#04x ignored", id)
		}

	default:
		err := &InvalidOpcodeError{mc.thread, pc, opcode}
		mc.warn("%v", err)
	}

	return false, nil
}

func compare(predicate uint8, left int16, right int16) bool {
	switch predicate {
	case COND_EQ:
		return left == right
	case COND_NE:
		return left != right
	case COND_GT:
		return left > right
	case COND_GE:
		return left >= right
	case COND_LT:
		return left < right
	case COND_LE:
		return left <= right
	}

	return false
}

func (mc *Machine) load(id uint16) (bool, error) {
	if id == 0 {
		mc.log("Quit requested")
		mc.State.QuitRequested = true
		return true, nil
	}

	if int(id) < len(mc.Resources.Resources) {
		return false, mc.Resources.Load(int(id))
	}

	mc.log("Switch to chapter %d", id)

	if err := mc.InitialiseChapter(id); err != nil {
		return true, err
	}

	mc.switched = true

	return true, nil
}

func (mc *Machine) setPalette(id uint8) {
	data := mc.resourceData(mc.palette)
	offset := int(id) * 32

	if offset+32 > len(data) {
		mc.warn("Invalid palette %d", id)
		return
	}

	var palette [16]uint16

	for i := range palette {
		palette[i] = binary.BigEndian.Uint16(data[offset+i*2:])
	}

	mc.Host.SetPalette(palette)
}

func (mc *Machine) yield() {
	if yielder, ok := mc.Host.(FrameYielder); ok {
		yielder.Yield(mc.ticks)
	}
}

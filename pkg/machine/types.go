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
	"errors"
	"fmt"

	"github.com/lassandro/goaw/pkg/resource"
	"github.com/lassandro/goaw/pkg/video"
)

// Host is the set of capabilities the engine needs from its embedder. All
// file access goes through Read; nothing in the engine opens files itself.
type Host interface {
	Read(name string, offset uint32, length int) ([]byte, error)
	Present(buffer *video.Buffer)
	SetPalette(palette [16]uint16)
	Log(message string)
}

// FrameYielder is an optional Host capability invoked after every polygon
// draw with the number of opcodes executed so far in the current tick.
type FrameYielder interface {
	Yield(ticks uint32)
}

type MachineState struct {
	Registers [REGISTER_COUNT]int16
	Program   [THREAD_COUNT]uint16

	// Shared by every thread
	CallStack []uint16

	Chapter       uint16
	ActivePage    uint8
	QuitRequested bool
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(register uint8, mc *Machine)
	Write(register uint8, mc *Machine)
}

type Options struct {
	HeapSize    int
	CatalogName string
	CatalogSize int
	Seed        int16

	// Zero means a thread may run any number of opcodes per tick
	MaxSteps int

	// Log every executed opcode through Host.Log
	Trace bool

	Decompressor resource.Decompressor
}

type Machine struct {
	Host      Host
	State     MachineState
	Debugger  MachineDebugger
	Resources *resource.Loader
	Video     *video.Pages

	options Options

	// Catalog indices of the current chapter's resources, -1 when unset
	palette    int
	code       int
	background int
	characters int

	thread   int
	ticks    uint32
	switched bool
}

var (
	ErrNoCode         = errors.New("No bytecode loaded")
	ErrStackUnderflow = errors.New("Call stack underflow")
)

type StackUnderflowError struct {
	Thread int
	PC     uint16
}

func (err *StackUnderflowError) Error() string {
	return fmt.Sprintf(
		"Call stack underflow in thread %d at %#04x", err.Thread, err.PC,
	)
}

func (err *StackUnderflowError) Is(target error) bool {
	return target == ErrStackUnderflow
}

type StackOverflowError struct {
	Thread int
	PC     uint16
}

func (err *StackOverflowError) Error() string {
	return fmt.Sprintf(
		"Call stack overflow in thread %d at %#04x", err.Thread, err.PC,
	)
}

type InvalidOpcodeError struct {
	Thread int
	PC     uint16
	Opcode uint8
}

func (err *InvalidOpcodeError) Error() string {
	return fmt.Sprintf(
		"Invalid opcode %#02x in thread %d at %#04x",
		err.Opcode,
		err.Thread,
		err.PC,
	)
}

type ProgramOverrunError struct {
	Thread   int
	PC       uint16
	Resource string
}

func (err *ProgramOverrunError) Error() string {
	return fmt.Sprintf(
		"Thread %d read past the end of %s at %#04x",
		err.Thread,
		err.Resource,
		err.PC,
	)
}

type InvalidChapterError struct {
	ID uint16
}

func (err *InvalidChapterError) Error() string {
	return fmt.Sprintf("Invalid chapter id %d", err.ID)
}

type RunawayThreadError struct {
	Thread int
	Steps  int
}

func (err *RunawayThreadError) Error() string {
	return fmt.Sprintf(
		"Thread %d did not yield after %d opcodes", err.Thread, err.Steps,
	)
}

// fault carries an error out of deeply nested operand fetches to Tick
type fault struct {
	err error
}

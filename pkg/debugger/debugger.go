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

package debugger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lassandro/goaw/pkg/assembler"
	"github.com/lassandro/goaw/pkg/encoding"
	"github.com/lassandro/goaw/pkg/machine"
)

func (dbg *Debugger) output() io.Writer {
	if dbg.Output == nil {
		return os.Stdout
	}

	return dbg.Output
}

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.HandleBreak == nil {
		return
	}

	if dbg.Break.Load() {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Thread != ANY_THREAD && breakpoint.Thread != mc.Thread() {
			continue
		}

		if mc.PC() == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(register uint8, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if register == watchpoint.Register && dbg.HandleRead != nil {
			dbg.HandleRead(register, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(register uint8, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if register == watchpoint.Register && dbg.HandleWrite != nil {
			dbg.HandleWrite(register, dbg, mc)
			break
		}
	}
}

// RegisterName renders a register index, using its well known name when it
// has one.
func RegisterName(register uint8) string {
	if name, exists := REGISTER_NAMES[register]; exists {
		return fmt.Sprintf("r%#02x (%s)", register, name)
	}

	return fmt.Sprintf("r%#02x", register)
}

// ParseRegister accepts r0x3c, 0x3c, r60 or a well known register name.
func ParseRegister(s string) (uint8, error) {
	for register, name := range REGISTER_NAMES {
		if strings.EqualFold(name, s) {
			return register, nil
		}
	}

	s = strings.TrimPrefix(strings.ToLower(s), "r")

	value, err := encoding.DecodeLiteral(s)

	if err != nil {
		return 0, err
	}

	if value >= machine.REGISTER_COUNT {
		return 0, fmt.Errorf("Register %#x out of range", value)
	}

	return uint8(value), nil
}

// PrintSource lists count lines of assembly starting at addr. Without a
// source file and symbol table the loaded bytecode is disassembled instead.
func (dbg *Debugger) PrintSource(mc *machine.Machine, addr uint16, count uint16) {
	if dbg.Source == nil || dbg.SymTable == nil {
		dbg.PrintDisassembly(mc.Code(), addr, mc.PC(), count)
		return
	}

	out := dbg.output()

	offset, exists := dbg.SymTable.Symbols[addr]

	if !exists {
		fmt.Fprintf(out, "No instruction found at %#04x\n", addr)
		return
	}

	if _, err := dbg.Source.Seek(offset, io.SeekStart); err != nil {
		fmt.Fprintln(out, err)
		return
	}

	lineaddrs := make(map[int64]uint16, len(dbg.SymTable.Symbols))
	for lineaddr, linebyte := range dbg.SymTable.Symbols {
		lineaddrs[linebyte] = lineaddr
	}

	scanner := bufio.NewScanner(dbg.Source)
	scanner.Split(bufio.ScanLines)

	for i := uint16(0); i < count; i++ {
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()

		if lineaddr, found := lineaddrs[offset]; found {
			fmt.Fprintf(out, "\033[1m[%#04x]\033[0m ", lineaddr)
		} else {
			fmt.Fprint(out, "\033[1;30m~~~~~~~~\033[0m ")
		}

		fmt.Fprintln(out, line)

		offset += int64(len(line) + 1)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(out, err)
	}
}

// PrintDisassembly decodes count instructions of code from addr, marking
// the one at pc.
func (dbg *Debugger) PrintDisassembly(code []byte, addr, pc, count uint16) {
	out := dbg.output()

	if len(code) == 0 {
		fmt.Fprintln(out, "No bytecode loaded")
		return
	}

	for i := uint16(0); i < count; i++ {
		text, next := assembler.Disassemble(code, addr)

		if text == "" {
			break
		}

		marker := " "
		if addr == pc {
			marker = ">"
		}

		fmt.Fprintf(out, "%s\033[1m[%#04x]\033[0m %s\n", marker, addr, text)

		addr = next
	}
}

// PrintRegisters dumps count registers from first, eight to a row. Zero
// values are dimmed.
func (dbg *Debugger) PrintRegisters(mc *machine.Machine, first, count int) {
	out := dbg.output()
	registers := mc.Registers()

	for i := first; i < first+count && i < len(registers); i++ {
		if i == first {
			fmt.Fprintf(out, "\033[1m[r%#02x]\033[0m ", i)
		} else if (i-first)%8 == 0 {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "\033[1m[r%#02x]\033[0m ", i)
		}

		value := uint16(registers[i])

		if value == 0 {
			fmt.Fprintf(out, "\033[1;30m%#04x\033[0m ", value)
		} else {
			fmt.Fprintf(out, "%#04x ", value)
		}
	}

	fmt.Fprintln(out)
}

// PrintThreads lists every thread with a program counter, marking the one
// that is currently executing.
func (dbg *Debugger) PrintThreads(mc *machine.Machine) {
	out := dbg.output()

	for thread, pc := range mc.Threads() {
		if pc == machine.THREAD_INACTIVE {
			continue
		}

		marker := " "
		if thread == mc.Thread() {
			marker = ">"
		}

		fmt.Fprintf(out, "%s#%02d: %#04x", marker, thread, pc)

		if dbg.SymTable != nil {
			if label, exists := dbg.SymTable.Labels[pc]; exists {
				fmt.Fprintf(out, " \033[1;30m(%s)\033[0m", label)
			}
		}

		fmt.Fprintln(out)
	}
}

// PrintLabels lists the symbol table's labels in address order.
func (dbg *Debugger) PrintLabels() {
	out := dbg.output()

	if dbg.SymTable == nil {
		fmt.Fprintln(out, "No symbol table loaded")
		return
	}

	keys := make([]uint16, 0, len(dbg.SymTable.Labels))
	for addr := range dbg.SymTable.Labels {
		keys = append(keys, addr)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, addr := range keys {
		fmt.Fprintf(
			out, "\033[1m[%#04x]\033[0m %s\n", addr, dbg.SymTable.Labels[addr],
		)
	}
}

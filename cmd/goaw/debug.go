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

package main

import (
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lassandro/goaw/pkg/debugger"
	"github.com/lassandro/goaw/pkg/encoding"
	"github.com/lassandro/goaw/pkg/machine"
	"github.com/lassandro/goaw/pkg/snapshot"
)

var lastcmd []string

// parseAddr accepts a hex address or a label from the symbol table.
func parseAddr(dbg *debugger.Debugger, arg string) (uint16, error) {
	if dbg.SymTable != nil {
		if addr, ok := dbg.SymTable.Label(arg); ok {
			return addr, nil
		}
	}

	return encoding.DecodeHex(arg)
}

func parseThread(arg string) (int, error) {
	thread, err := strconv.ParseInt(arg, 10, 64)

	if err != nil {
		return 0, err
	}

	if thread < 0 || thread >= machine.THREAD_COUNT {
		return 0, fmt.Errorf("Invalid thread %d", thread)
	}

	return int(thread), nil
}

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [0x####|label] [thread]"

		if len(args) < 1 || len(args) > 2 {
			log.Println(usage)
			return
		}

		addr, err := parseAddr(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		thread := debugger.ANY_THREAD

		if len(args) == 2 {
			if thread, err = parseThread(args[1]); err != nil {
				log.Println(err)
				return
			}
		}

		breakpoint := debugger.Breakpoint{Thread: thread, Addr: addr}

		for _, existing := range dbg.Breakpoints {
			if existing == breakpoint {
				return
			}
		}

		dbg.Breakpoints = append(dbg.Breakpoints, breakpoint)

		if thread == debugger.ANY_THREAD {
			fmt.Printf("Breakpoint added [%#04x]\n", addr)
		} else {
			fmt.Printf("Breakpoint added [%#04x] (thread %d)\n", addr, thread)
		}

	case "l", "ls", "list":
		const usage = "break list"

		if len(args) != 0 {
			log.Println(usage)
			return
		}

		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Breakpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: %%#04x %%s\n", int64(digits)+1)
		}

		for i, breakpoint := range dbg.Breakpoints {
			thread := "any"

			if breakpoint.Thread != debugger.ANY_THREAD {
				thread = strconv.Itoa(breakpoint.Thread)
			}

			log.Printf(fmtstring, i, breakpoint.Addr, thread)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Breakpoints)) {
			log.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = make([]debugger.Breakpoint, 0)
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command\n", cmd)
	}
}

func watchTypeName(wtype debugger.WatchpointType) string {
	switch wtype {
	case debugger.ReadWatch:
		return "read"
	case debugger.WriteWatch:
		return "write"
	}

	return "rwrite"
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|rm|clear]"

	if len(args) == 0 {
		log.Println(usage)
		return
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [register] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		register, err := debugger.ParseRegister(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "rwrite", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		watchpoint := debugger.Watchpoint{Register: register, Type: wtype}

		for _, existing := range dbg.Watchpoints {
			if existing == watchpoint {
				return
			}
		}

		dbg.Watchpoints = append(dbg.Watchpoints, watchpoint)

		fmt.Printf(
			"Watchpoint added [%s] (%s)\n",
			debugger.RegisterName(register),
			watchTypeName(wtype),
		)

	case "l", "ls", "list":
		const usage = "watch list"

		if len(args) != 0 {
			log.Println(usage)
			return
		}

		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Watchpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: %%s %%s\n", int64(digits)+1)
		}

		for i, watchpoint := range dbg.Watchpoints {
			log.Printf(
				fmtstring,
				i,
				debugger.RegisterName(watchpoint.Register),
				watchTypeName(watchpoint.Type),
			)
		}

	case "r", "rm", "remove":
		const usage = "watch rm [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Watchpoints)) {
			log.Println("Invalid watchpoint number")
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = make([]debugger.Watchpoint, 0)
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command\n", cmd)
	}
}

func debugReg(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "register [register] [value]"

	switch len(args) {
	case 0:
		dbg.PrintRegisters(mc, 0, machine.REGISTER_COUNT)

	case 1:
		register, err := debugger.ParseRegister(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		dbg.PrintRegisters(mc, int(register), 1)

	case 2:
		register, err := debugger.ParseRegister(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		value, err := encoding.DecodeLiteral(args[1])

		if err != nil {
			log.Println(err)
			return
		}

		mc.State.Registers[register] = int16(value)

		fmt.Printf(
			"\033[1m%s:\033[0m %#04x\n", debugger.RegisterName(register), value,
		)

	default:
		log.Println(usage)
	}
}

func debugSource(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "source [0x####|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	var addr uint16 = mc.PC()
	var size uint16 = 3

	if len(args) > 0 {
		var err error

		if addr, err = parseAddr(dbg, args[0]); err != nil {
			value, err := strconv.ParseInt(args[0], 10, 16)

			if err != nil {
				log.Println(err)
				return
			}

			addr = mc.PC()
			size = uint16(value)
		}
	}

	if len(args) > 1 {
		value, err := strconv.ParseInt(args[1], 10, 16)

		if err != nil {
			log.Println(err)
			return
		}

		size = uint16(value)
	}

	dbg.PrintSource(mc, addr, size)
}

func debugJump(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "jump [0x####|label] [thread]"

	if len(args) < 1 || len(args) > 2 {
		fmt.Println(usage)
		return
	}

	addr, err := parseAddr(dbg, args[0])

	if err != nil {
		fmt.Printf("Unable to find '%s'\n", args[0])
		return
	}

	thread := mc.Thread()

	if len(args) == 2 {
		if thread, err = parseThread(args[1]); err != nil {
			log.Println(err)
			return
		}
	}

	mc.State.Program[thread] = addr

	fmt.Printf("\033[1m#%02d PC:\033[0m %#04x\n", thread, addr)
}

func debugChapter(mc *machine.Machine, args []string) {
	const usage = "chapter [16000-16009]"

	if len(args) != 1 {
		log.Println(usage)
		return
	}

	id, err := strconv.ParseUint(args[0], 10, 16)

	if err != nil {
		log.Println(err)
		return
	}

	if err := mc.InitialiseChapter(uint16(id)); err != nil {
		log.Println(err)
		return
	}

	fmt.Printf("Chapter %d loaded\n", id)
}

func debugSave(mc *machine.Machine, args []string) {
	const usage = "save [file]"

	if len(args) != 1 {
		log.Println(usage)
		return
	}

	data, err := snapshot.Encode(snapshot.Capture(mc))

	if err != nil {
		log.Println(err)
		return
	}

	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		log.Println(err)
		return
	}

	fmt.Printf("Snapshot written to %s\n", args[0])
}

func debugLoad(mc *machine.Machine, args []string) {
	const usage = "load [file]"

	if len(args) != 1 {
		log.Println(usage)
		return
	}

	data, err := os.ReadFile(args[0])

	if err != nil {
		log.Println(err)
		return
	}

	snap, err := snapshot.Decode(data)

	if err != nil {
		log.Println(err)
		return
	}

	if err := snapshot.Restore(mc, snap); err != nil {
		log.Println(err)
		return
	}

	fmt.Printf("Snapshot restored (chapter %d)\n", snap.Chapter)
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		if !scanner.Scan() {
			fmt.Println()
			shouldexit = true
			return
		}

		args := strings.Fields(scanner.Text())

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "r", "reg", "register", "registers":
			debugReg(dbg, mc, args)

		case "s", "src", "source":
			debugSource(dbg, mc, args)

		case "l", "label", "labels":
			dbg.PrintLabels()

		case "t", "thread", "threads":
			dbg.PrintThreads(mc)

		case "j", "jmp", "jump":
			debugJump(dbg, mc, args)

		case "chapter":
			debugChapter(mc, args)

		case "save":
			debugSave(mc, args)

		case "load":
			debugLoad(mc, args)

		case "c", "continue":
			dbg.Break.Store(false)
			return

		case "n", "next":
			dbg.Break.Store(true)
			return

		case "q", "quit", "exit":
			shouldexit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit {
		return
	}

	if !dbg.Break.Load() {
		fmt.Println()
		fmt.Printf("Thread %d stopped\n", mc.Thread())
		dbg.PrintSource(mc, mc.PC(), 8)
	}

	debugREPL(dbg, mc)
}

func handleRead(register uint8, dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit {
		return
	}

	fmt.Println()
	fmt.Printf("Thread %d read %s at %#04x\n", mc.Thread(), debugger.RegisterName(register), mc.PC())
	dbg.PrintRegisters(mc, int(register), 1)
	debugREPL(dbg, mc)
}

func handleWrite(register uint8, dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit {
		return
	}

	fmt.Println()
	fmt.Printf("Thread %d wrote %s at %#04x\n", mc.Thread(), debugger.RegisterName(register), mc.PC())
	dbg.PrintRegisters(mc, int(register), 1)
	debugREPL(dbg, mc)
}

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
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/lassandro/goaw/pkg/assembler"
	"github.com/lassandro/goaw/pkg/config"
	"github.com/lassandro/goaw/pkg/debugger"
	"github.com/lassandro/goaw/pkg/machine"
)

var helpvar bool
var debugvar bool
var configvar string
var datavar string
var chaptervar uint
var frontendvar string
var symbolsvar string
var framesvar int
var shouldexit bool

const usage = "goaw [-config goaw.toml] [-data dir] [-chapter id] " +
	"[-frontend window|terminal|png] [-frames #] [-debug [-symbols file]]"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.StringVar(&configvar, "config", "", "Configuration file (default: nearest goaw.toml)")
	flag.StringVar(&datavar, "data", "", "Directory holding memlist.bin and the banks")
	flag.UintVar(&chaptervar, "chapter", 0, "Chapter to start in (16000-16009)")
	flag.StringVar(&frontendvar, "frontend", "", "Frame output: window, terminal or png")
	flag.StringVar(&symbolsvar, "symbols", "", "Symbol table for the debugger")
	flag.IntVar(&framesvar, "frames", 0, "Stop after this many ticks")
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configvar != "" {
		cfg, err = config.Load(configvar)
	} else {
		cfg, err = config.FindAndLoad(".")
	}

	if err != nil {
		return nil, err
	}

	if datavar != "" {
		cfg.Data.Dir = datavar
	}

	if chaptervar != 0 {
		if chaptervar > 0xFFFF {
			return nil, &machine.InvalidChapterError{ID: 0xFFFF}
		}

		cfg.Engine.StartChapter = uint16(chaptervar)
	}

	if frontendvar != "" {
		cfg.Video.Frontend = frontendvar
	}

	return cfg, cfg.Validate()
}

func loadSymbols(dbg *debugger.Debugger, path string) {
	file, err := os.Open(path)

	if err != nil {
		log.Println("Error loading symbol file")
		log.Println(err)
		return
	}

	defer file.Close()

	symtable, err := assembler.ReadSymTable(file)

	if err != nil {
		log.Println("Error loading symbol file")
		log.Println(err)
		return
	}

	dbg.SymTable = symtable

	if symtable.Source == "" {
		return
	}

	if source, err := os.ReadFile(symtable.Source); err == nil {
		dbg.Source = bytes.NewReader(source)
	} else {
		log.Println("Error loading source file")
		log.Println(err)
	}
}

func goaw() int {
	flag.Parse()

	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	if len(flag.Args()) != 0 {
		log.Println(usage)
		return 1
	}

	cfg, err := loadConfig()

	if err != nil {
		log.Println(err)
		return 1
	}

	if debugvar && cfg.Video.Frontend == config.FRONTEND_TERMINAL {
		log.Println("The debugger needs the terminal, use the window or png frontend")
		return 1
	}

	if cfg.Log.File != "" {
		commonlog.Configure(cfg.Log.Verbosity, &cfg.Log.File)
	} else {
		commonlog.Configure(cfg.Log.Verbosity, nil)
	}

	logger := commonlog.GetLogger("goaw")

	if cfg.Path != "" {
		logger.Infof("Configuration loaded from %s", cfg.Path)
	}

	fe, err := newFrontend(cfg)

	if err != nil {
		log.Println(err)
		return 1
	}

	defer fe.Close()

	mc, err := machine.New(newHost(cfg.Data.Dir, fe, cfg.Layout()), cfg.MachineOptions())

	if err != nil {
		log.Println(err)
		return 1
	}

	var dbg *debugger.Debugger

	if debugvar {
		dbg = &debugger.Debugger{
			HandleBreak: handleBreak,
			HandleRead:  handleRead,
			HandleWrite: handleWrite,
		}

		if symbolsvar != "" {
			loadSymbols(dbg, symbolsvar)
		}

		mc.Debugger = dbg

		c := make(chan os.Signal, 1)
		defer close(c)

		signal.Notify(c, os.Interrupt)
		defer signal.Stop(c)

		go func() {
			for range c {
				fmt.Println()
				dbg.Break.Store(true)
			}
		}()
	}

	if err := mc.InitialiseChapter(cfg.Engine.StartChapter); err != nil {
		log.Println(err)
		return 1
	}

	logger.Infof("Starting chapter %d", cfg.Engine.StartChapter)

	if dbg != nil {
		debugREPL(dbg, mc)
	}

	ticks := 0

	step := func() error {
		if shouldexit {
			return errQuit
		}

		fe.Input().Apply(mc)

		if err := mc.Tick(); err != nil {
			return err
		}

		ticks++

		if mc.State.QuitRequested || (framesvar > 0 && ticks >= framesvar) {
			return errQuit
		}

		return nil
	}

	interval := time.Duration(cfg.Engine.TickMillis) * time.Millisecond

	if err := fe.Run(interval, step); err != nil {
		logger.Errorf("Stopped after %d ticks: %v", ticks, err)
		log.Println(err)
		return 1
	}

	logger.Infof("Stopped after %d ticks", ticks)

	return 0
}

func main() {
	os.Exit(goaw())
}

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
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lassandro/goaw/pkg/assembler"
)

var helpvar bool
var debugvar bool
var disasmvar bool
var outvar string

const usage = "goaw-asm [-debug] [-disasm] [-out outfile] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.awdb'",
	)
	flag.BoolVar(
		&disasmvar, "disasm", false,
		"Prints the disassembly of a bytecode file instead of assembling",
	)
	flag.StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
}

// underline renders an error with its source line and a marker under the
// offending token.
func underline(err error, line string, cursor assembler.Cursor) string {
	line = strings.TrimRight(line, "\r\n")

	size := int(cursor.Size)

	if size < 1 {
		size = 1
	}

	underlinefmt := fmt.Sprintf(
		"%% %ds%s",
		int(cursor.Byte-cursor.LineByte)+1,
		strings.Repeat("~", size-1),
	)

	return fmt.Sprintf(
		"%s\n%s\n\033[31m%s\033[0m",
		err,
		line,
		fmt.Sprintf(underlinefmt, "^"),
	)
}

func disassemble(input io.Reader, output io.Writer) error {
	code, err := io.ReadAll(input)

	if err != nil {
		return err
	}

	out := bufio.NewWriter(output)

	for pc := uint16(0); int(pc) < len(code); {
		text, next := assembler.Disassemble(code, pc)
		fmt.Fprintf(out, "\t%-32s ; %#04x\n", text, pc)

		if next == pc {
			break
		}

		pc = next
	}

	return out.Flush()
}

func goaw_asm() int {
	flag.Parse()

	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	var infile string
	var input io.ReadSeeker

	if stat, _ := os.Stdin.Stat(); stat.Mode()&os.ModeCharDevice == 0 && len(args) == 0 {
		input = os.Stdin
		log.SetPrefix("\033[1m<stdin>:\033[0m")

		if outvar == "" {
			outvar = "out.bin"
		}
	} else {
		if len(args) != 1 {
			log.Println(usage)
			return 1
		}

		file, err := os.Open(args[0])

		if err != nil {
			log.Println(err)
			return 1
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else {
			if stat.IsDir() {
				log.Printf("%s is not a valid assembly file", filename)
				return 1
			}
		}

		input = file
		infile = file.Name()
		log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m", filename))

		if outvar == "" {
			outvar = strings.ReplaceAll(
				filename, filepath.Ext(filename), ".bin",
			)
		}
	}

	if disasmvar {
		if err := disassemble(input, os.Stdout); err != nil {
			log.Println(err)
			return 1
		}

		return 0
	}

	var symtarget *assembler.SymTable = nil

	if debugvar {
		symtarget = assembler.NewSymTable("")

		if input != os.Stdin {
			var err error
			if symtarget.Source, err = filepath.Abs(infile); err != nil {
				log.Println(err)
				symtarget.Source = ""
			}
		}
	}

	result, errs := assembler.Assemble(input, symtarget)

	if len(errs) > 0 {
		for _, err := range errs {
			tokenErr, ok := err.(assembler.TokenError)

			if !ok || input == os.Stdin {
				log.Println(err)
				continue
			}

			cursor := tokenErr.GetPosition()

			if _, err := input.Seek(cursor.LineByte, io.SeekStart); err != nil {
				log.Println(err)
				continue
			}

			line, _ := bufio.NewReader(input).ReadString('\n')

			log.Println(underline(err, line, cursor))
		}

		return 1
	}

	if err := os.WriteFile(outvar, result, 0666); err != nil {
		log.Println("Error writing output file")
		log.Println(err)
		return 1
	}

	if debugvar {
		filename := filepath.Join(
			filepath.Dir(outvar),
			strings.TrimSuffix(filepath.Base(outvar), filepath.Ext(outvar))+".awdb",
		)

		file, err := os.Create(filename)

		if err != nil {
			log.Println("Error creating symbol table")
			log.Println(err)
			return 1
		}

		defer file.Close()

		if err := assembler.WriteSymTable(file, symtarget); err != nil {
			log.Println("Error writing symbol table")
			log.Println(err)
			return 1
		}
	}

	return 0
}

func main() {
	os.Exit(goaw_asm())
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	ls8io "github.com/ezrec/ls8/io"
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

const usage = "usage: ls8 [-v] [-trace auto|on|off] [-limit ticks] [-asm [-o out.ls8]] file"

// Exit statuses.
const (
	EXIT_HALT      = 0 // Program executed HLT.
	EXIT_USAGE     = 1 // Bad command line.
	EXIT_NOT_FOUND = 2 // Source file cannot be opened.
	EXIT_OPCODE    = 3 // Unknown instruction executed.
	EXIT_STACK     = 4 // Stack overflow or underflow.
	EXIT_INVALID   = 5 // Source file cannot be loaded.
	EXIT_LIMIT     = 6 // Tick limit reached before HLT.
)

// exitStatus maps a load or run failure to an exit status.
func exitStatus(err error) int {
	var eo *cpu.ErrOpcode
	switch {
	case errors.As(err, &eo):
		return EXIT_OPCODE
	case errors.Is(err, cpu.ErrStackEmpty), errors.Is(err, cpu.ErrStackFull):
		return EXIT_STACK
	case errors.Is(err, emulator.ErrTickLimit):
		return EXIT_LIMIT
	default:
		return EXIT_INVALID
	}
}

// traceEnabled decides if cycle tracing is on. In "auto" mode, tracing is
// on only when stdout is a terminal.
func traceEnabled(mode string, stdout io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}

	file, ok := stdout.(*os.File)
	return ok && isTerminal(int(file.Fd()))
}

// writeImage writes an assembled program as `.ls8` text.
func writeImage(rom *ls8io.Rom, filename string) int {
	ouf, err := os.Create(filename)
	if err != nil {
		log.Println(f("Cannot open file %v", filename))
		return EXIT_NOT_FOUND
	}
	defer ouf.Close()

	err = rom.Marshal(ouf)
	if err != nil {
		log.Printf("%v: %v", filename, err)
		return EXIT_INVALID
	}

	return EXIT_HALT
}

func ls8(args []string, stdout, stderr io.Writer) int {
	log.SetFlags(0)
	log.SetPrefix("ls8: ")
	log.SetOutput(stderr)

	var verbose bool
	var trace string
	var assemble bool
	var output string
	var limit int

	flags := flag.NewFlagSet("ls8", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVar(&verbose, "v", false, f("Verbose mode"))
	flags.StringVar(&trace, "trace", "auto", f("Trace each cycle to stdout: auto, on or off"))
	flags.IntVar(&limit, "limit", 0, f("Stop after this many instructions; 0 is unlimited"))
	flags.BoolVar(&assemble, "asm", false, f("Source file is LS8 assembly"))
	flags.StringVar(&output, "o", "", f("With -asm, write the .ls8 image to this file and exit"))

	err := flags.Parse(args)
	if err != nil {
		return EXIT_USAGE
	}

	if flags.NArg() != 1 {
		translate.Fprintln(stderr, usage)
		return EXIT_USAGE
	}

	if trace != "auto" && trace != "on" && trace != "off" {
		log.Println(f("-trace %v: expected auto, on or off", trace))
		return EXIT_USAGE
	}

	if limit < 0 {
		log.Println(f("-limit %v: must not be negative", limit))
		return EXIT_USAGE
	}

	if len(output) != 0 && !assemble {
		log.Println(f("-o requires -asm"))
		return EXIT_USAGE
	}

	filename := flags.Arg(0)
	inf, err := os.Open(filename)
	if err != nil {
		log.Println(f("Cannot open file %v", filename))
		if verbose {
			log.Println(err)
		}
		return EXIT_NOT_FOUND
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.TickLimit = limit

	if assemble {
		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}

		var prog *cpu.Program
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Printf("%v: %v", filename, err)
			return EXIT_INVALID
		}

		if len(output) != 0 {
			return writeImage(prog.Rom(), output)
		}

		emu.Program = prog
	} else {
		err = emu.Rom.Unmarshal(inf)
		if err != nil {
			log.Printf("%v: %v", filename, err)
			return EXIT_INVALID
		}
	}

	writer := bufio.NewWriter(stdout)
	defer writer.Flush()

	emu.Tape.Output = writer
	if traceEnabled(trace, stdout) {
		emu.Cpu.Trace = writer
	}

	err = emu.Reset()
	if err == nil {
		err = emu.Run()
	}
	if err != nil {
		writer.Flush()
		log.Println(err)
		return exitStatus(err)
	}

	return EXIT_HALT
}

func main() {
	os.Exit(ls8(os.Args[1:], os.Stdout, os.Stderr))
}

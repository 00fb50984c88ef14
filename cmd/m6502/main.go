// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ezrec/m6502/cpu"
	"github.com/ezrec/m6502/emulator"
	"github.com/ezrec/m6502/translate"
)

// parseAddress parses $hex, or anything strconv accepts, as an address.
// Labels from prog are also accepted.
func parseAddress(text string, prog *cpu.Program) (addr uint16, err error) {
	addr, ok := prog.Labels[text]
	if ok {
		return
	}

	base := 0
	if strings.HasPrefix(text, "$") {
		base = 16
		text = text[1:]
	}

	value, err := strconv.ParseUint(text, base, 16)
	if err != nil {
		return
	}

	addr = uint16(value)

	return
}

func main() {
	var compile string
	var image string
	var origin string
	var entry string
	var output string
	var limit int
	var breaks string
	var verbose bool
	var unsigned bool

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&image, "i", "", "Binary image to load")
	flag.StringVar(&origin, "a", "$0200", "Load address of the binary image")
	flag.StringVar(&entry, "e", "", "Entry address or label (default: 'start', or the origin)")
	flag.StringVar(&output, "o", "", "Save the assembled binary, do not execute")
	flag.IntVar(&limit, "n", 0, "Maximum instructions to run (0 for no limit)")
	flag.StringVar(&breaks, "b", "", "Comma separated breakpoint addresses or labels")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&unsigned, "u", false, "Unsigned CMP, CPX, and CPY carry")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(image) != 0 {
		log.Fatalf("%v: -c and -i are exclusive", os.Args[0])
	}

	if len(compile) == 0 && len(image) == 0 {
		log.Fatalf("%v: one of -c or -i is required", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.UnsignedCompare = unsigned

	prog := &cpu.Program{}

	// Assemble a new program.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}

		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		if len(output) != 0 {
			_, data := prog.Binary()
			err = os.WriteFile(output, data, 0o644)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			return
		}
	}

	load, err := parseAddress(origin, prog)
	if err != nil {
		log.Fatalf("-a %v: %v", origin, err)
	}

	start := load

	if len(compile) != 0 {
		start = prog.Origin()
		addr, ok := prog.Labels["start"]
		if ok {
			start = addr
		}
	}

	if len(entry) != 0 {
		start, err = parseAddress(entry, prog)
		if err != nil {
			log.Fatalf("-e %v: %v", entry, err)
		}
	}

	if len(breaks) != 0 {
		for _, text := range strings.Split(breaks, ",") {
			addr, err := parseAddress(strings.TrimSpace(text), prog)
			if err != nil {
				log.Fatalf("-b %v: %v", text, err)
			}
			emu.Breakpoints = append(emu.Breakpoints, addr)
		}
	}

	if len(image) != 0 {
		fsys := os.DirFS(filepath.Dir(image))
		err = emu.LoadImage(fsys, filepath.Base(image), load, start)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	} else {
		emu.Load(prog, start)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tty, err := openTerminal(cancel)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	emu.Console.Input = tty
	emu.Console.Output = tty

	for {
		var steps int
		steps, err = emu.Run(ctx, limit)
		if !errors.Is(err, emulator.ErrBreakpoint) {
			break
		}

		tty.Close()
		translate.Fprintf(os.Stderr, "%v: breakpoint after %d steps\n%v", os.Args[0], steps, emu.Cpu)
		tty, err = openTerminal(cancel)
		if err != nil {
			break
		}
		emu.Console.Input = tty
		emu.Console.Output = tty
	}

	tty.Close()

	if err != nil {
		translate.Fprintf(os.Stderr, "%v", emu.Cpu)
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if verbose {
		translate.Fprintf(os.Stderr, "%v", emu.Cpu)
	}
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ezrec/tiny8/cpu"
	"github.com/ezrec/tiny8/emulator"
)

// defineList collects repeated -D NAME=VALUE options.
type defineList map[string]string

func (dl defineList) String() string {
	var list []string
	for name, value := range dl {
		list = append(list, name+"="+value)
	}
	return strings.Join(list, ",")
}

func (dl defineList) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok {
		value = "1"
	}
	if len(name) == 0 {
		return fmt.Errorf("-D %v: missing name", text)
	}
	dl[name] = value
	return nil
}

// writeTrace writes the retained trace as JSON lines.
func writeTrace(path string, trace *cpu.Trace) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}
	defer ouf.Close()

	writer := bufio.NewWriter(ouf)
	enc := json.NewEncoder(writer)
	for _, rec := range trace.All() {
		err = enc.Encode(&rec)
		if err != nil {
			return
		}
	}

	err = writer.Flush()
	return
}

func main() {
	var compile string
	var ramSize int
	var romSize int
	var romImage string
	var steps int
	var tracePath string
	var traceLimit int
	var progress bool
	var verbose bool

	defines := defineList{}

	flag.StringVar(&compile, "c", "", ".s file to assemble and run")
	flag.IntVar(&ramSize, "ram", 0, "RAM size in bytes (0 for default)")
	flag.IntVar(&romSize, "rom", 0, "ROM size in bytes (0 for default)")
	flag.StringVar(&romImage, "rom-image", "", "Raw binary ROM image to load")
	flag.IntVar(&steps, "steps", cpu.DEFAULT_MAX_STEPS, "Maximum steps to execute")
	flag.StringVar(&tracePath, "trace", "", "Write the step trace as JSON lines")
	flag.IntVar(&traceLimit, "trace-limit", 0, "Maximum retained trace records (0 for unbounded)")
	flag.Var(defines, "D", "Predefine NAME=VALUE equate")
	flag.BoolVar(&progress, "p", false, "Show progress")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 {
		log.Fatalf("%v: -c is required", os.Args[0])
	}

	emu := emulator.NewEmulator(ramSize, romSize)
	emu.Verbose = verbose
	emu.Cpu.Memory.Verbose = verbose
	emu.Cpu.TraceLimit = traceLimit

	for name, value := range defines {
		emu.Predefine(name, value)
	}

	if len(romImage) != 0 {
		inf, err := os.Open(romImage)
		if err != nil {
			log.Fatalf("%v: %v", romImage, err)
		}
		err = emu.Cpu.Memory.LoadRomImage(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", romImage, err)
		}
	}

	inf, err := os.Open(compile)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
	_, err = emu.Assemble(inf)
	inf.Close()
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	var bar *progressBar
	if progress {
		bar = newProgressBar(os.Stderr, steps)
		emu.Progress = bar.Update
	}

	ran, err := emu.Run(steps)
	if bar != nil {
		bar.Done(ran)
	}

	if len(tracePath) != 0 {
		terr := writeTrace(tracePath, emu.Cpu.Trace())
		if terr != nil {
			log.Printf("%v: %v", tracePath, terr)
		}
	}

	fmt.Print(emu.Cpu.String())
	fmt.Printf("steps: %d\n", ran)

	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
}

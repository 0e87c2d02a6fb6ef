// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/ezrec/simpleos/channel"
	"github.com/ezrec/simpleos/cpu"
	"github.com/ezrec/simpleos/emulator"
	"github.com/ezrec/simpleos/io"
)

// Exit codes.
const (
	EXIT_OK        = 0
	EXIT_ERROR     = 1
	EXIT_PRIVILEGE = 2
	EXIT_PROTOCOL  = 3
)

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return EXIT_OK
	case errors.Is(err, cpu.ErrPrivilege):
		return EXIT_PRIVILEGE
	case errors.Is(err, channel.ErrProtocol):
		return EXIT_PROTOCOL
	default:
		return EXIT_ERROR
	}
}

func main() {
	var assemble bool
	var output string
	var config_file string
	var timer int
	var timeout time.Duration
	var verbose bool
	var pipe bool

	flag.BoolVar(&assemble, "a", false, "Program is assembler source")
	flag.StringVar(&output, "o", "", "Write the program image to this file, do not execute")
	flag.StringVar(&config_file, "c", "", "Starlark machine configuration")
	flag.IntVar(&timer, "t", -1, "Timer interrupt interval in instructions, 0 to disable")
	flag.DurationVar(&timeout, "timeout", -1, "Bound on each memory request")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&pipe, "p", false, "Connect CPU and memory over OS pipes")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: Expected one program file, got: %v", os.Args[0], flag.Args())
	}
	program := flag.Arg(0)

	filesys := afero.NewOsFs()

	config := emulator.DefaultConfig()
	if len(config_file) != 0 {
		var err error
		config, err = emulator.LoadConfig(filesys, config_file)
		if err != nil {
			log.Fatalf("%v: %v", config_file, err)
		}
	}

	if timer >= 0 {
		config.Timer = timer
	}
	if timeout >= 0 {
		config.Timeout = timeout
	}
	config.Verbose = config.Verbose || verbose
	config.Pipe = config.Pipe || pipe

	emu, err := emulator.NewEmulator(config)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	var img *io.Image
	if assemble {
		source, err := afero.ReadFile(filesys, program)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
		prog, err := emu.Assemble(strings.NewReader(string(source)))
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
		img = prog.Image()
	} else {
		img, err = io.OpenImage(filesys, program)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
		err = emu.Load(img)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
	}

	if len(output) != 0 {
		err = io.SaveImage(filesys, output, img)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	emu.Console.Output = os.Stdout

	err = emu.Run(context.Background())

	if emu.Console.Written > 0 && term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println()
	}

	if err != nil {
		log.Printf("%v: %v", program, err)
		if verbose {
			log.Printf("%v", emu.Cpu)
		}
	}

	os.Exit(exitCode(err))
}

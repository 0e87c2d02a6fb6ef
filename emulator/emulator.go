// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator joins the execution engine and the memory service into
// a running machine.
package emulator

import (
	"context"
	"fmt"
	stdio "io"
	"iter"
	"log"
	"maps"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/simpleos/channel"
	"github.com/ezrec/simpleos/cpu"
	"github.com/ezrec/simpleos/internal"
	"github.com/ezrec/simpleos/io"
	"github.com/ezrec/simpleos/memory"
)

// Emulator state. CPU + Memory + Console.
type Emulator struct {
	Verbose  bool           // If set, enables verbose logging.
	*cpu.Cpu                // Reference to the execution engine.
	Memory   *memory.Memory // Reference to the memory service.
	Console  io.Console     // Output device for the put instruction.
	Program  *cpu.Program   // Listing of the loaded program, if assembled.
	Config   Config         // Machine configuration.
	image    *io.Image      // Last image loaded.
}

// NewEmulator creates a new emulator.
func NewEmulator(config Config) (emu *Emulator, err error) {
	err = config.Validate()
	if err != nil {
		return
	}

	emu = &Emulator{
		Verbose: config.Verbose,
		Cpu:     cpu.NewCpu(config.Layout, nil),
		Memory:  memory.NewMemory(config.Size),
		Config:  config,
	}

	emu.Cpu.Output = &emu.Console

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		maps.All(map[string]string{
			"TIMER":      fmt.Sprintf("%d", emu.Config.Timer),
			"TIMEOUT_MS": fmt.Sprintf("%d", emu.Config.Timeout.Milliseconds()),
		}),
		emu.Cpu.Defines(),
		emu.Config.Layout.Defines(),
	)
}

// Assemble assembles a program with the machine's defines, and loads it.
func (emu *Emulator) Assemble(input stdio.Reader) (prog *cpu.Program, err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(input)
	if err != nil {
		return
	}

	err = emu.Load(prog.Image())
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// Load a program image into memory.
func (emu *Emulator) Load(img *io.Image) (err error) {
	err = emu.Memory.Load(img)
	if err != nil {
		return
	}

	emu.image = img
	emu.Program = nil

	return
}

// Reset the engine, and reload memory from the last image.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Reset()
	emu.Memory.Reset()
	emu.Console.Written = 0

	if emu.image != nil {
		err = emu.Memory.Load(emu.image)
	}

	return
}

// LineNo returns the source line for an address, or 0 if unknown.
func (emu *Emulator) LineNo(address int32) int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(address)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// connect returns the two ends of the memory protocol, and a function
// that releases them.
func (emu *Emulator) connect() (bus channel.Requester, port channel.Responder, release func(), err error) {
	if !emu.Config.Pipe {
		link := channel.NewLink(emu.Config.Timeout)
		bus, port, release = link, link, func() {}
		return
	}

	request_r, request_w, err := os.Pipe()
	if err != nil {
		return
	}
	reply_r, reply_w, err := os.Pipe()
	if err != nil {
		request_r.Close()
		request_w.Close()
		return
	}

	engine := channel.NewStream(reply_r, request_w)
	engine.Timeout = emu.Config.Timeout
	service := channel.NewStream(request_r, reply_w)
	service.Timeout = emu.Config.Timeout

	bus, port = engine, service
	release = func() {
		for _, file := range []*os.File{request_r, request_w, reply_r, reply_w} {
			file.Close()
		}
	}

	return
}

// Run the machine until the engine ends, or a fatal error.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Memory.Verbose = emu.Verbose

	bus, port, release, err := emu.connect()
	if err != nil {
		return
	}
	defer release()

	emu.Cpu.Bus = bus

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return emu.Memory.Serve(ctx, port)
	})
	group.Go(func() error {
		return emu.Cpu.Run(ctx)
	})

	// Pipe reads only see the context through their deadline.
	unblocked := make(chan struct{})
	go func() {
		defer close(unblocked)
		<-ctx.Done()
		release()
	}()

	err = group.Wait()
	<-unblocked

	if emu.Verbose {
		log.Printf("emulator: %d ticks, %d reads, %d writes", emu.Cpu.Ticks, emu.Memory.Reads, emu.Memory.Writes)
	}

	if err != nil {
		err = &ErrRuntime{PC: emu.Cpu.Address, LineNo: emu.LineNo(emu.Cpu.Address), Err: err}
	}

	return
}

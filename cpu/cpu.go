package cpu

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand/v2"

	"github.com/ezrec/simpleos/channel"
)

// Port is the device attached to OP_PUT_PORT.
type Port interface {
	Put(port int32, value int32) error
}

var _cpu_defines = map[string]string{
	"IR_EMPTY":    fmt.Sprintf("%d", IR_EMPTY),
	"MODE_USER":   fmt.Sprintf("%d", MODE_USER),
	"MODE_KERNEL": fmt.Sprintf("%d", MODE_KERNEL),
}

// Cpu is the execution engine. It owns the register file and reaches
// memory only through its Bus.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers        // Register file.
	Layout    Layout // Address space layout.

	Bus    channel.Requester // Memory protocol, engine end.
	Output Port              // Put device; nil discards output.
	Rand   *rand.Rand        // Source for OP_GET; nil uses the global source.

	Address   int32   // Address IR was fetched from.
	Ticks     int     // Instructions executed since reset.
	Anomalies []error // Malformed opcodes seen since reset.

	halted bool
}

// NewCpu creates a new engine on a memory bus.
func NewCpu(layout Layout, bus channel.Requester) (cpu *Cpu) {
	cpu = &Cpu{
		Layout: layout,
		Bus:    bus,
	}

	cpu.Reset()

	return
}

// Defines for the cpu.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Registers to their power-on values, in user mode.
// - Zeros the tick counter and clears anomalies.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.reset(cpu.Layout)
	cpu.Address = 0
	cpu.Ticks = 0
	cpu.Anomalies = nil
	cpu.halted = false
}

// Halted returns true once the engine has stopped.
func (cpu *Cpu) Halted() bool {
	return cpu.halted
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "sp", "ir", "ac", "x", "y", "mode"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%04d", cpu.PC)
		case "sp":
			strval = fmt.Sprintf("%04d", cpu.SP)
		case "ir":
			strval = fmt.Sprintf("%d (%v)", int32(cpu.IR), cpu.IR)
		case "ac":
			strval = fmt.Sprintf("%d", cpu.AC)
		case "x":
			strval = fmt.Sprintf("%d", cpu.X)
		case "y":
			strval = fmt.Sprintf("%d", cpu.Y)
		case "mode":
			strval = cpu.Mode.String()
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// access is the single privilege guard for every memory request.
func (cpu *Cpu) access(address int32) (err error) {
	switch {
	case cpu.Mode == MODE_USER && cpu.Layout.System(address):
		err = ErrPrivilege
	case !cpu.Layout.Contains(address):
		err = ErrAddress
	default:
		return
	}

	err = &ErrAccess{Address: address, Mode: cpu.Mode, Err: err}
	return
}

// read a cell through the bus.
func (cpu *Cpu) read(ctx context.Context, address int32) (value int32, err error) {
	err = cpu.access(address)
	if err != nil {
		return
	}

	return cpu.Bus.Read(ctx, address)
}

// write a cell through the bus.
func (cpu *Cpu) write(ctx context.Context, address int32, value int32) (err error) {
	err = cpu.access(address)
	if err != nil {
		return
	}

	return cpu.Bus.Write(ctx, address, value)
}

// operand reads the word at PC and advances past it.
func (cpu *Cpu) operand(ctx context.Context) (value int32, err error) {
	value, err = cpu.read(ctx, cpu.PC)
	if err != nil {
		return
	}

	cpu.PC++
	return
}

// Fetch loads the opcode at PC into IR and advances PC.
func (cpu *Cpu) Fetch(ctx context.Context) (err error) {
	cpu.Address = cpu.PC

	word, err := cpu.operand(ctx)
	if err != nil {
		return
	}

	cpu.IR = Op(word)

	if cpu.Verbose {
		log.Printf("%04d: %v", cpu.Address, cpu.IR)
	}

	return
}

// Execute decodes and executes the instruction in IR.
// An undefined opcode is recorded as an anomaly and treated as a no-op.
func (cpu *Cpu) Execute(ctx context.Context) (err error) {
	inst, ok := instructionSet[cpu.IR]
	if !ok {
		anomaly := ErrOpcode{PC: cpu.Address, IR: cpu.IR}
		cpu.Anomalies = append(cpu.Anomalies, anomaly)
		log.Printf("cpu: %v", anomaly)
		return
	}

	var value int32
	if inst.operand {
		value, err = cpu.operand(ctx)
		if err != nil {
			return
		}
	}

	return inst.exec(cpu, ctx, value)
}

// Tick executes a single fetch/decode/execute cycle.
// done is set once OP_END has been fetched and memory told to terminate.
func (cpu *Cpu) Tick(ctx context.Context) (done bool, err error) {
	if cpu.halted {
		done = true
		return
	}

	if cpu.Bus == nil {
		err = ErrBusMissing
		return
	}

	err = cpu.Fetch(ctx)
	if err != nil {
		return
	}

	if cpu.IR == OP_END {
		cpu.halted = true
		done = true
		err = cpu.Bus.Terminate(ctx)
		return
	}

	user := cpu.Mode == MODE_USER

	err = cpu.Execute(ctx)
	if err != nil {
		return
	}

	cpu.Ticks++

	// Only an instruction that starts and ends in user mode can be
	// interrupted, so user code always advances between handler runs.
	if cpu.Layout.Timer > 0 && cpu.Ticks%cpu.Layout.Timer == 0 && user && cpu.Mode == MODE_USER {
		if cpu.Verbose {
			log.Printf("cpu: timer interrupt at tick %d", cpu.Ticks)
		}
		err = cpu.interrupt(ctx)
	}

	return
}

// Run executes until OP_END or a fatal error.
// A rejected access still tells memory to terminate, so it is not left
// waiting for a request that will never come. The same holds when the
// engine has already halted.
func (cpu *Cpu) Run(ctx context.Context) (err error) {
	if cpu.halted {
		if cpu.Bus == nil {
			err = ErrBusMissing
			return
		}
		return cpu.Bus.Terminate(ctx)
	}

	for {
		var done bool
		done, err = cpu.Tick(ctx)
		if err != nil {
			break
		}
		if done {
			return
		}
	}

	cpu.halted = true

	var access *ErrAccess
	if errors.As(err, &access) {
		if cpu.Verbose {
			log.Printf("cpu: %v", err)
		}
		term_err := cpu.Bus.Terminate(ctx)
		if term_err != nil {
			err = errors.Join(err, term_err)
		}
	}

	return
}

// interrupt enters kernel mode, saving SP and PC on the system stack.
func (cpu *Cpu) interrupt(ctx context.Context) (err error) {
	cpu.Mode = MODE_KERNEL

	sp := cpu.SP
	cpu.SP = cpu.Layout.SystemStack

	err = cpu.push(ctx, sp)
	if err != nil {
		return
	}

	err = cpu.push(ctx, cpu.PC)
	if err != nil {
		return
	}

	cpu.PC = cpu.Layout.Handler

	return
}

// random returns a value in [1, 100].
func (cpu *Cpu) random() int32 {
	if cpu.Rand != nil {
		return int32(cpu.Rand.IntN(100)) + 1
	}

	return int32(rand.IntN(100)) + 1
}

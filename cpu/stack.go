package cpu

import (
	"context"
)

// stackFloor is the lowest address a push may write in the current mode.
func (cpu *Cpu) stackFloor() int32 {
	if cpu.Mode == MODE_KERNEL {
		return cpu.Layout.UserLimit
	}

	return 0
}

// push decrements SP, then writes value at SP.
// A user push into the system region is caught by the privilege guard.
func (cpu *Cpu) push(ctx context.Context, value int32) (err error) {
	sp := cpu.SP - 1
	if sp < cpu.stackFloor() {
		err = &ErrAccess{Address: sp, Mode: cpu.Mode, Err: ErrStackOverflow}
		return
	}

	err = cpu.write(ctx, sp, value)
	if err != nil {
		return
	}

	cpu.SP = sp
	return
}

// pop reads the value at SP, then increments SP.
// A user pop from the system region is caught by the privilege guard.
func (cpu *Cpu) pop(ctx context.Context) (value int32, err error) {
	if cpu.Mode == MODE_KERNEL && cpu.SP >= cpu.Layout.SystemStack {
		err = &ErrAccess{Address: cpu.SP, Mode: cpu.Mode, Err: ErrStackUnderflow}
		return
	}

	value, err = cpu.read(ctx, cpu.SP)
	if err != nil {
		return
	}

	cpu.SP++
	return
}

// Peek returns the value on top of the stack without popping it.
func (cpu *Cpu) Peek(ctx context.Context) (value int32, err error) {
	return cpu.read(ctx, cpu.SP)
}

package cpu

import (
	"fmt"
)

// Registers is the engine's register file.
type Registers struct {
	PC int32 // Address of the next instruction word.
	SP int32 // Stack pointer; the stack grows down.
	IR Op    // Opcode most recently fetched.
	AC int32 // Accumulator.
	X  int32
	Y  int32

	Mode Mode // Current privilege mode.
}

// reset sets the power-on register state.
func (regs *Registers) reset(layout Layout) {
	*regs = Registers{
		SP:   layout.UserLimit,
		IR:   IR_EMPTY,
		Mode: MODE_USER,
	}
}

// String returns the register file as a single line.
func (regs *Registers) String() string {
	return fmt.Sprintf("pc:%04d sp:%04d ir:%v ac:%d x:%d y:%d mode:%v",
		regs.PC, regs.SP, regs.IR, regs.AC, regs.X, regs.Y, regs.Mode)
}

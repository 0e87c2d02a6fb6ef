package cpu

import (
	"context"
)

// instruction is the decode entry for one opcode.
type instruction struct {
	operand bool // Reads one operand word after the opcode.
	exec    func(cpu *Cpu, ctx context.Context, operand int32) error
}

// instructionSet holds every defined opcode except OP_END, which is
// handled at fetch.
var instructionSet = map[Op]instruction{
	OP_LOAD_VAL:               {true, (*Cpu).opLoadVal},
	OP_LOAD_ADDR:              {true, (*Cpu).opLoadAddr},
	OP_LOAD_IND_ADDR:          {true, (*Cpu).opLoadIndAddr},
	OP_LOAD_IDX_X_ADDR:        {true, (*Cpu).opLoadIdxXAddr},
	OP_LOAD_IDX_Y_ADDR:        {true, (*Cpu).opLoadIdxYAddr},
	OP_LOAD_SP_X:              {false, (*Cpu).opLoadSpX},
	OP_STORE_ADDR:             {true, (*Cpu).opStoreAddr},
	OP_GET:                    {false, (*Cpu).opGet},
	OP_PUT_PORT:               {true, (*Cpu).opPutPort},
	OP_ADD_X:                  {false, (*Cpu).opAddX},
	OP_ADD_Y:                  {false, (*Cpu).opAddY},
	OP_SUB_X:                  {false, (*Cpu).opSubX},
	OP_SUB_Y:                  {false, (*Cpu).opSubY},
	OP_COPY_TO_X:              {false, (*Cpu).opCopyToX},
	OP_COPY_FROM_X:            {false, (*Cpu).opCopyFromX},
	OP_COPY_TO_Y:              {false, (*Cpu).opCopyToY},
	OP_COPY_FROM_Y:            {false, (*Cpu).opCopyFromY},
	OP_COPY_TO_SP:             {false, (*Cpu).opCopyToSp},
	OP_COPY_FROM_SP:           {false, (*Cpu).opCopyFromSp},
	OP_JUMP_ADDR:              {true, (*Cpu).opJumpAddr},
	OP_JUMP_IF_EQUAL_ADDR:     {true, (*Cpu).opJumpIfEqualAddr},
	OP_JUMP_IF_NOT_EQUAL_ADDR: {true, (*Cpu).opJumpIfNotEqualAddr},
	OP_CALL_ADDR:              {true, (*Cpu).opCallAddr},
	OP_RET:                    {false, (*Cpu).opRet},
	OP_INC_X:                  {false, (*Cpu).opIncX},
	OP_DEC_X:                  {false, (*Cpu).opDecX},
	OP_PUSH:                   {false, (*Cpu).opPush},
	OP_POP:                    {false, (*Cpu).opPop},
	OP_INT:                    {false, (*Cpu).opInt},
	OP_IRET:                   {false, (*Cpu).opIRet},
}

func (cpu *Cpu) opLoadVal(ctx context.Context, value int32) (err error) {
	cpu.AC = value
	return
}

func (cpu *Cpu) opLoadAddr(ctx context.Context, address int32) (err error) {
	cpu.AC, err = cpu.read(ctx, address)
	return
}

// opLoadIndAddr loads from the address stored at address.
func (cpu *Cpu) opLoadIndAddr(ctx context.Context, address int32) (err error) {
	target, err := cpu.read(ctx, address)
	if err != nil {
		return
	}

	cpu.AC, err = cpu.read(ctx, target)
	return
}

func (cpu *Cpu) opLoadIdxXAddr(ctx context.Context, address int32) (err error) {
	cpu.AC, err = cpu.read(ctx, address+cpu.X)
	return
}

func (cpu *Cpu) opLoadIdxYAddr(ctx context.Context, address int32) (err error) {
	cpu.AC, err = cpu.read(ctx, address+cpu.Y)
	return
}

func (cpu *Cpu) opLoadSpX(ctx context.Context, _ int32) (err error) {
	cpu.AC, err = cpu.read(ctx, cpu.SP+cpu.X)
	return
}

func (cpu *Cpu) opStoreAddr(ctx context.Context, address int32) (err error) {
	return cpu.write(ctx, address, cpu.AC)
}

func (cpu *Cpu) opGet(ctx context.Context, _ int32) (err error) {
	cpu.AC = cpu.random()
	return
}

func (cpu *Cpu) opPutPort(ctx context.Context, port int32) (err error) {
	if cpu.Output == nil {
		return
	}

	return cpu.Output.Put(port, cpu.AC)
}

func (cpu *Cpu) opAddX(ctx context.Context, _ int32) (err error) {
	cpu.AC += cpu.X
	return
}

func (cpu *Cpu) opAddY(ctx context.Context, _ int32) (err error) {
	cpu.AC += cpu.Y
	return
}

func (cpu *Cpu) opSubX(ctx context.Context, _ int32) (err error) {
	cpu.AC -= cpu.X
	return
}

func (cpu *Cpu) opSubY(ctx context.Context, _ int32) (err error) {
	cpu.AC -= cpu.Y
	return
}

func (cpu *Cpu) opCopyToX(ctx context.Context, _ int32) (err error) {
	cpu.X = cpu.AC
	return
}

func (cpu *Cpu) opCopyFromX(ctx context.Context, _ int32) (err error) {
	cpu.AC = cpu.X
	return
}

func (cpu *Cpu) opCopyToY(ctx context.Context, _ int32) (err error) {
	cpu.Y = cpu.AC
	return
}

func (cpu *Cpu) opCopyFromY(ctx context.Context, _ int32) (err error) {
	cpu.AC = cpu.Y
	return
}

func (cpu *Cpu) opCopyToSp(ctx context.Context, _ int32) (err error) {
	cpu.SP = cpu.AC
	return
}

func (cpu *Cpu) opCopyFromSp(ctx context.Context, _ int32) (err error) {
	cpu.AC = cpu.SP
	return
}

func (cpu *Cpu) opJumpAddr(ctx context.Context, address int32) (err error) {
	cpu.PC = address
	return
}

// Conditional jumps have already consumed their operand, so a branch not
// taken leaves PC just past it.
func (cpu *Cpu) opJumpIfEqualAddr(ctx context.Context, address int32) (err error) {
	if cpu.AC == 0 {
		cpu.PC = address
	}
	return
}

func (cpu *Cpu) opJumpIfNotEqualAddr(ctx context.Context, address int32) (err error) {
	if cpu.AC != 0 {
		cpu.PC = address
	}
	return
}

// opCallAddr pushes the address following the operand, then jumps.
func (cpu *Cpu) opCallAddr(ctx context.Context, address int32) (err error) {
	err = cpu.push(ctx, cpu.PC)
	if err != nil {
		return
	}

	cpu.PC = address
	return
}

func (cpu *Cpu) opRet(ctx context.Context, _ int32) (err error) {
	pc, err := cpu.pop(ctx)
	if err != nil {
		return
	}

	cpu.PC = pc
	return
}

func (cpu *Cpu) opIncX(ctx context.Context, _ int32) (err error) {
	cpu.X++
	return
}

func (cpu *Cpu) opDecX(ctx context.Context, _ int32) (err error) {
	cpu.X--
	return
}

func (cpu *Cpu) opPush(ctx context.Context, _ int32) (err error) {
	return cpu.push(ctx, cpu.AC)
}

func (cpu *Cpu) opPop(ctx context.Context, _ int32) (err error) {
	value, err := cpu.pop(ctx)
	if err != nil {
		return
	}

	cpu.AC = value
	return
}

// opInt is a system call. Nested interrupts are not taken.
func (cpu *Cpu) opInt(ctx context.Context, _ int32) (err error) {
	if cpu.Mode == MODE_KERNEL {
		return
	}

	return cpu.interrupt(ctx)
}

// opIRet returns from a system call. PC was pushed last, so pops first.
func (cpu *Cpu) opIRet(ctx context.Context, _ int32) (err error) {
	if cpu.Mode != MODE_KERNEL {
		return
	}

	pc, err := cpu.pop(ctx)
	if err != nil {
		return
	}

	sp, err := cpu.pop(ctx)
	if err != nil {
		return
	}

	cpu.PC = pc
	cpu.SP = sp
	cpu.Mode = MODE_USER

	return
}

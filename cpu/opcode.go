package cpu

import (
	"iter"
)

// Op is an instruction opcode.
type Op int32

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_LOAD_VAL               = Op(1)  // loadval
	OP_LOAD_ADDR              = Op(2)  // loadaddr
	OP_LOAD_IND_ADDR          = Op(3)  // loadind
	OP_LOAD_IDX_X_ADDR        = Op(4)  // loadidxx
	OP_LOAD_IDX_Y_ADDR        = Op(5)  // loadidxy
	OP_LOAD_SP_X              = Op(6)  // loadspx
	OP_STORE_ADDR             = Op(7)  // store
	OP_GET                    = Op(8)  // get
	OP_PUT_PORT               = Op(9)  // put
	OP_ADD_X                  = Op(10) // addx
	OP_ADD_Y                  = Op(11) // addy
	OP_SUB_X                  = Op(12) // subx
	OP_SUB_Y                  = Op(13) // suby
	OP_COPY_TO_X              = Op(14) // copytox
	OP_COPY_FROM_X            = Op(15) // copyfromx
	OP_COPY_TO_Y              = Op(16) // copytoy
	OP_COPY_FROM_Y            = Op(17) // copyfromy
	OP_COPY_TO_SP             = Op(18) // copytosp
	OP_COPY_FROM_SP           = Op(19) // copyfromsp
	OP_JUMP_ADDR              = Op(20) // jump
	OP_JUMP_IF_EQUAL_ADDR     = Op(21) // jumpifequal
	OP_JUMP_IF_NOT_EQUAL_ADDR = Op(22) // jumpifnotequal
	OP_CALL_ADDR              = Op(23) // call
	OP_RET                    = Op(24) // ret
	OP_INC_X                  = Op(25) // incx
	OP_DEC_X                  = Op(26) // decx
	OP_PUSH                   = Op(27) // push
	OP_POP                    = Op(28) // pop
	OP_INT                    = Op(29) // int
	OP_IRET                   = Op(30) // iret
	OP_END                    = Op(50) // end
)

// IR_EMPTY is the instruction register value before the first fetch.
const IR_EMPTY = Op(-1)

// Mode is the privilege mode of the engine.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_USER   = Mode(0) // user
	MODE_KERNEL = Mode(1) // kernel
)

// Output ports for OP_PUT_PORT.
const (
	PORT_INTEGER   = int32(1)
	PORT_CHARACTER = int32(2)
)

// Valid returns true if the opcode is defined.
func (op Op) Valid() bool {
	if op == OP_END {
		return true
	}
	_, ok := instructionSet[op]
	return ok
}

// Operands returns the number of operand words that follow the opcode.
func (op Op) Operands() int {
	inst, ok := instructionSet[op]
	if !ok || !inst.operand {
		return 0
	}
	return 1
}

// Ops iterates over every defined opcode, in numeric order.
func Ops() iter.Seq[Op] {
	return func(yield func(op Op) bool) {
		for op := OP_LOAD_VAL; op <= OP_END; op++ {
			if !op.Valid() {
				continue
			}
			if !yield(op) {
				return
			}
		}
	}
}

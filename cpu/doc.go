// Package cpu implements the execution engine and assembler for the simpleos machine.
//
// The engine holds a program counter (PC), a stack pointer (SP), an
// instruction register (IR), an accumulator (AC), two index registers (X, Y)
// and a privilege mode. It owns no memory: every fetch, operand, load, store
// and stack access is a request over a channel.Requester, checked first by a
// single privilege guard. User mode may only reach addresses below the user
// limit; the Int instruction and the timer enter kernel mode at the handler
// address, on the system stack.
//
// The assembler provides a line-based assembly language for the instruction
// set, supporting macros, labels, equates, and compile-time expression evaluation.
package cpu

// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory is the Memory Service: the sole owner of the address
// space, reachable only through the channel protocol.
package memory

import (
	"context"
	"errors"
	"log"

	"github.com/ezrec/simpleos/channel"
	"github.com/ezrec/simpleos/io"
)

// Memory is a flat store of int32 cells.
type Memory struct {
	Verbose bool // If set, logs every request.

	Cell []int32

	Reads  int // Read requests served.
	Writes int // Write requests served.
}

// NewMemory creates a zeroed memory of size cells.
func NewMemory(size int32) (mem *Memory) {
	mem = &Memory{
		Cell: make([]int32, size),
	}

	return
}

// Size returns the number of cells.
func (mem *Memory) Size() int32 {
	return int32(len(mem.Cell))
}

// Contains returns true if address is a cell of the memory.
func (mem *Memory) Contains(address int32) bool {
	return address >= 0 && address < mem.Size()
}

// Reset zeros all cells and the counters.
func (mem *Memory) Reset() {
	clear(mem.Cell)
	mem.Reads = 0
	mem.Writes = 0
}

// Load copies a program image into memory. Nothing is stored if any
// word of the image lies outside the memory.
func (mem *Memory) Load(img *io.Image) (err error) {
	for address := range img.All() {
		if !mem.Contains(address) {
			err = &ErrImageRange{Address: address, Size: mem.Size()}
			return
		}
	}

	for address, value := range img.All() {
		mem.Cell[address] = value
	}

	return
}

// Peek returns a cell directly, bypassing the protocol.
func (mem *Memory) Peek(address int32) (value int32, ok bool) {
	if !mem.Contains(address) {
		return
	}

	value = mem.Cell[address]
	ok = true
	return
}

// check rejects an address outside the memory.
func (mem *Memory) check(req channel.Request, address int32) (err error) {
	if mem.Contains(address) {
		return
	}

	err = errors.Join(channel.ErrProtocol, &ErrAddress{Kind: req.Kind(), Address: address})
	return
}

// Serve answers requests until a Terminate request or a fatal error.
func (mem *Memory) Serve(ctx context.Context, port channel.Responder) (err error) {
	for {
		var req channel.Request
		req, err = port.Receive(ctx)
		if err != nil {
			return
		}

		switch req := req.(type) {
		case channel.Read:
			err = mem.check(req, req.Address)
			if err != nil {
				return
			}
			value := mem.Cell[req.Address]
			mem.Reads++
			if mem.Verbose {
				log.Printf("memory: read  %04d => %d", req.Address, value)
			}
			err = port.Reply(ctx, value)
			if err != nil {
				return
			}
		case channel.Write:
			err = mem.check(req, req.Address)
			if err != nil {
				return
			}
			mem.Cell[req.Address] = req.Value
			mem.Writes++
			if mem.Verbose {
				log.Printf("memory: write %04d <= %d", req.Address, req.Value)
			}
		case channel.Terminate:
			if mem.Verbose {
				log.Printf("memory: terminate after %d reads, %d writes", mem.Reads, mem.Writes)
			}
			return
		default:
			err = channel.ErrProtocol
			return
		}
	}
}

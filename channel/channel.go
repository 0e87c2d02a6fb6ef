// Package channel implements the request/response protocol between the
// execution engine and the memory service.
//
// Every access is a blocking round trip. The engine end (Requester) issues
// Read, Write and Terminate requests one at a time; the memory end
// (Responder) receives them in order and answers reads with exactly one
// value. Writes are never acknowledged.
package channel

import (
	"context"
)

// Kind is the discriminant of a protocol request.
type Kind int32

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_READ      = Kind(0) // read
	KIND_WRITE     = Kind(1) // write
	KIND_TERMINATE = Kind(2) // terminate
)

// Valid returns true if the kind is one of the defined discriminants.
func (kind Kind) Valid() bool {
	return kind >= KIND_READ && kind <= KIND_TERMINATE
}

// Request is one of Read, Write or Terminate.
type Request interface {
	Kind() Kind
	request()
}

// Read requests the value of the cell at Address.
type Read struct {
	Address int32
}

// Write stores Value into the cell at Address.
type Write struct {
	Address int32
	Value   int32
}

// Terminate ends the memory service loop.
type Terminate struct{}

func (Read) Kind() Kind      { return KIND_READ }
func (Write) Kind() Kind     { return KIND_WRITE }
func (Terminate) Kind() Kind { return KIND_TERMINATE }

func (Read) request()      {}
func (Write) request()     {}
func (Terminate) request() {}

// Requester is the engine end of the protocol.
type Requester interface {
	// Read blocks until the memory service replies with the cell value.
	Read(ctx context.Context, address int32) (value int32, err error)
	// Write returns once the request has been handed to the memory service.
	Write(ctx context.Context, address int32, value int32) error
	// Terminate asks the memory service to stop serving.
	Terminate(ctx context.Context) error
}

// Responder is the memory end of the protocol.
type Responder interface {
	// Receive blocks until the next request arrives.
	Receive(ctx context.Context) (req Request, err error)
	// Reply answers the most recent Read.
	Reply(ctx context.Context, value int32) error
}

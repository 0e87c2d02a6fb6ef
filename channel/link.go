package channel

import (
	"context"
	"time"
)

// Link is an in-process protocol connection. Both channels are unbuffered,
// so a request is only complete once the memory end has taken it.
type Link struct {
	Timeout time.Duration // Bound on each blocking operation; 0 is unbounded.

	request chan Request
	reply   chan int32
}

var _ Requester = (*Link)(nil)
var _ Responder = (*Link)(nil)

// NewLink creates a new link.
func NewLink(timeout time.Duration) (link *Link) {
	link = &Link{
		Timeout: timeout,
		request: make(chan Request),
		reply:   make(chan int32),
	}

	return
}

// expire returns the timeout channel for one blocking operation.
func (link *Link) expire() (timeout <-chan time.Time, stop func()) {
	stop = func() {}
	if link.Timeout <= 0 {
		return
	}

	timer := time.NewTimer(link.Timeout)
	timeout = timer.C
	stop = func() { timer.Stop() }
	return
}

func (link *Link) send(ctx context.Context, req Request) (err error) {
	timeout, stop := link.expire()
	defer stop()

	select {
	case link.request <- req:
	case <-ctx.Done():
		err = ctx.Err()
	case <-timeout:
		err = ErrTimeout
	}

	return
}

// Read sends a read request and waits for the reply.
func (link *Link) Read(ctx context.Context, address int32) (value int32, err error) {
	err = link.send(ctx, Read{Address: address})
	if err != nil {
		return
	}

	timeout, stop := link.expire()
	defer stop()

	select {
	case value = <-link.reply:
	case <-ctx.Done():
		err = ctx.Err()
	case <-timeout:
		err = ErrTimeout
	}

	return
}

// Write sends a write request.
func (link *Link) Write(ctx context.Context, address int32, value int32) (err error) {
	return link.send(ctx, Write{Address: address, Value: value})
}

// Terminate sends a terminate request.
func (link *Link) Terminate(ctx context.Context) (err error) {
	return link.send(ctx, Terminate{})
}

// Receive waits for the next request.
func (link *Link) Receive(ctx context.Context) (req Request, err error) {
	timeout, stop := link.expire()
	defer stop()

	select {
	case req = <-link.request:
	case <-ctx.Done():
		err = ctx.Err()
	case <-timeout:
		err = ErrTimeout
	}

	return
}

// Reply answers a read request.
func (link *Link) Reply(ctx context.Context, value int32) (err error) {
	timeout, stop := link.expire()
	defer stop()

	select {
	case link.reply <- value:
	case <-ctx.Done():
		err = ctx.Err()
	case <-timeout:
		err = ErrTimeout
	}

	return
}

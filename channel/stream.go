package channel

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"time"
)

// Stream frames the protocol over a byte stream, as between two processes
// joined by pipes. Each word is a little-endian int32: the discriminant,
// then the payload. The same type serves either end.
type Stream struct {
	Timeout time.Duration // Read deadline, when In supports one.

	In  io.Reader
	Out io.Writer
}

var _ Requester = (*Stream)(nil)
var _ Responder = (*Stream)(nil)

// deadliner is implemented by *os.File and net.Conn.
type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// NewStream creates a stream reading from in and writing to out.
func NewStream(in io.Reader, out io.Writer) *Stream {
	return &Stream{In: in, Out: out}
}

func (st *Stream) deadline(ctx context.Context) {
	dl, ok := st.In.(deadliner)
	if !ok {
		return
	}

	var when time.Time
	if st.Timeout > 0 {
		when = time.Now().Add(st.Timeout)
	}
	if ctx_when, ok := ctx.Deadline(); ok && (when.IsZero() || ctx_when.Before(when)) {
		when = ctx_when
	}

	// Pipes on some platforms do not support deadlines; that is not fatal.
	_ = dl.SetReadDeadline(when)
}

func (st *Stream) put(words ...int32) (err error) {
	buf := make([]byte, 0, 4*len(words))
	for _, word := range words {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(word))
	}

	_, err = st.Out.Write(buf)
	return
}

func (st *Stream) get(ctx context.Context) (word int32, err error) {
	err = ctx.Err()
	if err != nil {
		return
	}

	st.deadline(ctx)

	var buf [4]byte
	_, err = io.ReadFull(st.In, buf[:])
	switch {
	case err == nil:
		word = int32(binary.LittleEndian.Uint32(buf[:]))
	case errors.Is(err, io.EOF):
		err = ErrClosed
	case errors.Is(err, io.ErrUnexpectedEOF):
		err = errors.Join(ErrProtocol, err)
	case errors.Is(err, os.ErrDeadlineExceeded):
		err = ErrTimeout
	}

	return
}

// Read sends a read request and waits for the reply.
func (st *Stream) Read(ctx context.Context, address int32) (value int32, err error) {
	err = st.put(int32(KIND_READ), address)
	if err != nil {
		return
	}

	value, err = st.get(ctx)
	if errors.Is(err, ErrClosed) {
		// A missing reply is a lost round trip, not an orderly close.
		err = errors.Join(ErrProtocol, err)
	}
	return
}

// Write sends a write request.
func (st *Stream) Write(ctx context.Context, address int32, value int32) (err error) {
	return st.put(int32(KIND_WRITE), address, value)
}

// Terminate sends a terminate request.
func (st *Stream) Terminate(ctx context.Context) (err error) {
	return st.put(int32(KIND_TERMINATE))
}

// Receive decodes the next request.
func (st *Stream) Receive(ctx context.Context) (req Request, err error) {
	word, err := st.get(ctx)
	if err != nil {
		return
	}

	kind := Kind(word)
	switch kind {
	case KIND_READ:
		var address int32
		address, err = st.payload(ctx)
		if err != nil {
			return
		}
		req = Read{Address: address}
	case KIND_WRITE:
		var address, value int32
		address, err = st.payload(ctx)
		if err != nil {
			return
		}
		value, err = st.payload(ctx)
		if err != nil {
			return
		}
		req = Write{Address: address, Value: value}
	case KIND_TERMINATE:
		req = Terminate{}
	default:
		err = ErrKind(kind)
	}

	return
}

// payload reads a word that must follow a discriminant.
func (st *Stream) payload(ctx context.Context) (word int32, err error) {
	word, err = st.get(ctx)
	if errors.Is(err, ErrClosed) {
		err = errors.Join(ErrProtocol, err)
	}
	return
}

// Reply sends the value for a read.
func (st *Stream) Reply(ctx context.Context, value int32) (err error) {
	return st.put(value)
}

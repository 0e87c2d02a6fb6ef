package channel

import (
	"errors"

	"github.com/ezrec/simpleos/translate"
)

var f = translate.From

var (
	ErrProtocol = errors.New(f("protocol desynchronized"))
	ErrTimeout  = errors.New(f("protocol timeout"))
	ErrClosed   = errors.New(f("protocol closed"))
)

// ErrKind reports a discriminant outside the request set.
type ErrKind Kind

func (ek ErrKind) Error() string {
	return f("unknown request kind %d", int32(ek))
}

func (ek ErrKind) Unwrap() error {
	return ErrProtocol
}

package memory

import (
	"github.com/ezrec/simpleos/channel"
	"github.com/ezrec/simpleos/translate"
)

var f = translate.From

// ErrAddress reports a request for a cell outside the memory.
type ErrAddress struct {
	Kind    channel.Kind
	Address int32
}

func (err *ErrAddress) Error() string {
	return f("%v of address %d out of range", err.Kind, err.Address)
}

// ErrImageRange reports a program image word outside the memory.
type ErrImageRange struct {
	Address int32
	Size    int32
}

func (err *ErrImageRange) Error() string {
	return f("image address %d outside memory of %d cells", err.Address, err.Size)
}

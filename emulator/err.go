package emulator

import (
	"errors"

	"github.com/ezrec/simpleos/translate"
)

var f = translate.From

var (
	// Configuration errors
	ErrConfigUnknown = errors.New(f("unknown setting"))
	ErrConfigType    = errors.New(f("wrong type"))
	ErrConfigRange   = errors.New(f("out of range"))
)

// ErrConfig locates a configuration error.
type ErrConfig struct {
	Name string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("config %v: %v", err.Name, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	PC     int32
	LineNo int // Source line, if a program listing is loaded.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("line %d pc %d: %v", err.LineNo, err.PC, err.Err)
	}
	return f("pc %d: %v", err.PC, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

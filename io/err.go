package io

import (
	"errors"

	"github.com/ezrec/simpleos/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageNumber = errors.New(f("number out of range"))
)

// ErrImageSyntax locates an error in a program image.
type ErrImageSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrImageSyntax) Error() string {
	return f("image line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrImageSyntax) Unwrap() error {
	return err.Err
}

// Package io provides the devices around the simulated machine: the
// program image format loaded into memory, and the console written by
// the Put instruction.
package io

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Word is a single cell of a program image.
type Word struct {
	Address int32
	Value   int32
}

// Image is a program image, in load order.
//
// The text form is one entry per line, starting in the first column:
//   - '.' followed by digits sets the load address.
//   - a signed decimal number is stored at the load address, which then
//     advances by one. Anything after the number is ignored.
//   - all other lines are ignored.
type Image struct {
	Words []Word
}

// Set appends a word to the image.
func (img *Image) Set(address int32, value int32) {
	img.Words = append(img.Words, Word{Address: address, Value: value})
}

// Len returns the number of words in the image.
func (img *Image) Len() int {
	return len(img.Words)
}

// All iterates over the (address, value) pairs in load order.
func (img *Image) All() iter.Seq2[int32, int32] {
	return func(yield func(address int32, value int32) bool) {
		for _, word := range img.Words {
			if !yield(word.Address, word.Value) {
				return
			}
		}
	}
}

// leadingNumber returns the prefix of text that forms an optionally signed
// run of decimal digits.
func leadingNumber(text string, signed bool) (number string) {
	n := 0
	if signed && n < len(text) && (text[n] == '-' || text[n] == '+') {
		n++
	}
	start := n
	for n < len(text) && text[n] >= '0' && text[n] <= '9' {
		n++
	}
	if n == start {
		return
	}

	return text[:n]
}

// ParseImage parses a program image from its text form.
func ParseImage(input io.Reader) (img *Image, err error) {
	img = &Image{}

	scanner := bufio.NewScanner(input)

	var address int32
	var lineno int
	var line string

	defer func() {
		if err != nil {
			err = &ErrImageSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		lineno++
		line = scanner.Text()

		if strings.HasPrefix(line, ".") {
			number := leadingNumber(line[1:], false)
			if len(number) == 0 {
				continue
			}
			var origin int64
			origin, err = strconv.ParseInt(number, 10, 32)
			if err != nil {
				err = ErrImageNumber
				return
			}
			address = int32(origin)
			continue
		}

		number := leadingNumber(line, true)
		if len(number) == 0 {
			continue
		}

		var value int64
		value, err = strconv.ParseInt(number, 10, 32)
		if err != nil {
			err = ErrImageNumber
			return
		}

		img.Set(address, int32(value))
		address++
	}

	err = scanner.Err()
	return
}

// Marshal writes the image in its text form. An origin directive is
// emitted whenever the next word is not at the following address.
func (img *Image) Marshal(output io.Writer) (err error) {
	w := bufio.NewWriter(output)

	next := int32(0)
	for address, value := range img.All() {
		if address != next {
			_, err = fmt.Fprintf(w, ".%d\n", address)
			if err != nil {
				return
			}
		}
		_, err = fmt.Fprintf(w, "%d\n", value)
		if err != nil {
			return
		}
		next = address + 1
	}

	return w.Flush()
}

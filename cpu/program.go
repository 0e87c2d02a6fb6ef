package cpu

import (
	"iter"

	"github.com/ezrec/simpleos/io"
)

// Statement is a single assembled source line.
type Statement struct {
	LineNo  int            // Source line number.
	Address int32          // Address of the first code word.
	Words   []string       // Source words, after equate expansion.
	Codes   []int32        // Assembled words.
	Link    map[int]string // Code indexes still to be linked to a label.
}

// Program is an assembled program listing.
type Program struct {
	Statements []Statement
}

// Debug locates the statement that assembled a given address.
type Debug struct {
	*Statement
	Index int // Index into Statement.Codes.
}

// Debug returns the statement covering address; Statement is nil if none.
func (prog *Program) Debug(address int32) (dbg Debug) {
	for n, stmt := range prog.Statements {
		if address >= stmt.Address && address < stmt.Address+int32(len(stmt.Codes)) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(address - stmt.Address),
			}
			break
		}
	}

	return
}

// Codes iterates over the (address, word) pairs of the program, in
// source order.
func (prog *Program) Codes() iter.Seq2[int32, int32] {
	return func(yield func(address int32, code int32) bool) {
		for _, stmt := range prog.Statements {
			for n, code := range stmt.Codes {
				if !yield(stmt.Address+int32(n), code) {
					return
				}
			}
		}
	}
}

// Image returns the program as a loadable image.
func (prog *Program) Image() (img *io.Image) {
	img = &io.Image{}
	for address, code := range prog.Codes() {
		img.Set(address, code)
	}

	return
}

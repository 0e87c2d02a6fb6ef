package io

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

// sample prints 15 and ends.
const sample = `// load 15, print it
1
15    // value
9
1  // integer port
50

.1500
30
`

func TestParseImage(t *testing.T) {
	assert := assert.New(t)

	img, err := ParseImage(strings.NewReader(sample))
	assert.NoError(err)

	assert.Equal([]Word{
		{Address: 0, Value: 1},
		{Address: 1, Value: 15},
		{Address: 2, Value: 9},
		{Address: 3, Value: 1},
		{Address: 4, Value: 50},
		{Address: 1500, Value: 30},
	}, img.Words)
	assert.Equal(6, img.Len())
}

func TestParseImage_Lines(t *testing.T) {
	table := [](struct {
		Text  string
		Words []Word
	}){
		{Text: "", Words: nil},
		{Text: "-7\n", Words: []Word{{0, -7}}},
		{Text: "+7\n", Words: []Word{{0, 7}}},
		{Text: "  \t3\n", Words: nil},
		{Text: "1\n   7 indented\n\t.500\n50\n", Words: []Word{{0, 1}, {1, 50}}},
		{Text: "-\n+\nx\n", Words: nil},
		{Text: ".\n.x\n4\n", Words: []Word{{0, 4}}},
		{Text: ".10\n1\n.5\n2\n", Words: []Word{{10, 1}, {5, 2}}},
		{Text: "12abc\n", Words: []Word{{0, 12}}},
		{Text: "2147483647\n-2147483648\n", Words: []Word{{0, 2147483647}, {1, -2147483648}}},
	}

	for _, entry := range table {
		img, err := ParseImage(strings.NewReader(entry.Text))
		assert.NoError(t, err, entry.Text)
		assert.Equal(t, entry.Words, img.Words, entry.Text)
	}
}

func TestParseImage_Error(t *testing.T) {
	table := [](struct {
		Text   string
		LineNo int
	}){
		{Text: "1\n2147483648\n", LineNo: 2},
		{Text: "1\n2\n.99999999999\n", LineNo: 3},
		{Text: "-2147483649\n", LineNo: 1},
	}

	for _, entry := range table {
		_, err := ParseImage(strings.NewReader(entry.Text))
		assert.ErrorIs(t, err, ErrImageNumber, entry.Text)

		var syntax *ErrImageSyntax
		if assert.True(t, errors.As(err, &syntax), entry.Text) {
			assert.Equal(t, entry.LineNo, syntax.LineNo)
		}
	}
}

func TestImage_Marshal(t *testing.T) {
	assert := assert.New(t)

	img := &Image{}
	img.Set(0, 1)
	img.Set(1, -2)
	img.Set(1500, 30)
	img.Set(1501, 50)

	var buf bytes.Buffer
	err := img.Marshal(&buf)
	assert.NoError(err)
	assert.Equal("1\n-2\n.1500\n30\n50\n", buf.String())

	again, err := ParseImage(&buf)
	assert.NoError(err)
	assert.Equal(img.Words, again.Words)
}

func TestImage_AllEarlyStop(t *testing.T) {
	assert := assert.New(t)

	img := &Image{}
	for n := range int32(10) {
		img.Set(n, n)
	}

	count := 0
	for range img.All() {
		count++
		if count == 3 {
			break
		}
	}

	assert.Equal(3, count)
}

func TestOpenImage(t *testing.T) {
	assert := assert.New(t)

	filesys := afero.NewMemMapFs()
	err := afero.WriteFile(filesys, "prog.txt", []byte(sample), 0o644)
	assert.NoError(err)

	img, err := OpenImage(filesys, "prog.txt")
	assert.NoError(err)
	assert.Equal(6, img.Len())

	err = SaveImage(filesys, "copy.txt", img)
	assert.NoError(err)

	copied, err := OpenImage(filesys, "copy.txt")
	assert.NoError(err)
	assert.Equal(img.Words, copied.Words)

	_, err = OpenImage(filesys, "missing.txt")
	assert.Error(err)
}

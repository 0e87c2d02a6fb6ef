package io

import (
	"github.com/spf13/afero"
)

// OpenImage reads a program image file.
func OpenImage(filesys afero.Fs, name string) (img *Image, err error) {
	inf, err := filesys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	return ParseImage(inf)
}

// SaveImage writes a program image file, replacing any existing file.
func SaveImage(filesys afero.Fs, name string, img *Image) (err error) {
	ouf, err := filesys.Create(name)
	if err != nil {
		return
	}

	err = img.Marshal(ouf)
	close_err := ouf.Close()
	if err == nil {
		err = close_err
	}

	return
}

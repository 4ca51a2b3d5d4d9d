package io

import (
	"io"
	"iter"
)

// Rom is a program image: the exact concatenated instruction encodings,
// with no header or padding.
type Rom struct {
	Data []byte
}

// Unmarshal replaces the image with the contents of r.
func (rom *Rom) Unmarshal(r io.Reader) (err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	if len(data) == 0 {
		err = ErrRomEmpty
		return
	}

	rom.Data = data
	return
}

// Marshal writes the image to w.
func (rom *Rom) Marshal(w io.Writer) (err error) {
	_, err = w.Write(rom.Data)
	return
}

// Lines iterates over the image in rows of up to width bytes, keyed by the
// byte offset of each row.
func (rom *Rom) Lines(width int) iter.Seq2[int, []byte] {
	return func(yield func(offset int, row []byte) bool) {
		for offset := 0; offset < len(rom.Data); offset += width {
			end := min(offset+width, len(rom.Data))
			if !yield(offset, rom.Data[offset:end]) {
				return
			}
		}
	}
}

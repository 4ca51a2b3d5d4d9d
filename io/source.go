package io

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8Bom = []byte{0xef, 0xbb, 0xbf}

// Source returns a UTF-8 reader for assembly source text. UTF-8 input,
// with or without a byte order mark, is passed through; anything else is
// decoded as Windows-1251.
func Source(r io.Reader) (text io.Reader, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	data = bytes.TrimPrefix(data, utf8Bom)
	if utf8.Valid(data) {
		text = bytes.NewReader(data)
		return
	}

	text = charmap.Windows1251.NewDecoder().Reader(bytes.NewReader(data))
	return
}

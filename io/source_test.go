package io

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func readSource(t *testing.T, data []byte) string {
	t.Helper()
	r, err := Source(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	text, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(text)
}

func TestSource(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ABS,0,0,1 ; модуль\n", readSource(t, []byte("ABS,0,0,1 ; модуль\n")))
	assert.Equal("LOAD_CONST,1,2\n", readSource(t, []byte("\xef\xbb\xbfLOAD_CONST,1,2\n")))

	// "; абс" in Windows-1251
	cp1251 := []byte{';', ' ', 0xe0, 0xe1, 0xf1}
	assert.Equal("; абс", readSource(t, cp1251))
}

package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRomMarshal(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{0x9e, 0xa7, 0x02, 0x00, 0x00, 0x07, 0x0c, 0x65, 0x00}}

	buf := &bytes.Buffer{}
	assert.NoError(rom.Marshal(buf))
	assert.Equal(rom.Data, buf.Bytes())

	other := &Rom{}
	assert.NoError(other.Unmarshal(buf))
	assert.Equal(rom.Data, other.Data)

	assert.ErrorIs(other.Unmarshal(strings.NewReader("")), ErrRomEmpty)
	assert.Equal(rom.Data, other.Data)
}

func TestRomLines(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{1, 2, 3, 4, 5}}

	var offsets []int
	var rows [][]byte
	for offset, row := range rom.Lines(2) {
		offsets = append(offsets, offset)
		rows = append(rows, row)
	}

	assert.Equal([]int{0, 2, 4}, offsets)
	assert.Equal([][]byte{{1, 2}, {3, 4}, {5}}, rows)

	count := 0
	for range rom.Lines(1) {
		count++
		break
	}
	assert.Equal(1, count)
}

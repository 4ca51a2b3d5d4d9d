package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(SetLanguage("en-US"))
	assert.Equal("register 3 out of range", From("register %d out of range", 3))
	assert.Equal("plain", From("plain"))
}

func TestSetLanguageInvalid(t *testing.T) {
	assert := assert.New(t)

	assert.Error(SetLanguage("not a tag!"))
	assert.Equal("still works", From("still works"))
}

package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceErrorCodes(t *testing.T) {
	err := ErrDuplicateKey("taken")

	assert.Equal(t, "taken", err.Error())
	assert.True(t, IsCode(err, CodeDuplicateKey))
	assert.False(t, IsCode(err, CodeNotFound))
}

func TestIsCodeSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrNotFound("missing"))
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestIsCodeIgnoresPlainErrors(t *testing.T) {
	assert.False(t, IsCode(errors.New("boom"), CodeNotFound))
	assert.False(t, IsCode(nil, CodeNotFound))
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "context"))

	wrapped := WrapError(errors.New("boom"), "context")
	assert.EqualError(t, wrapped, "context: boom")
}

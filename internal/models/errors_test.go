package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPermanent(t *testing.T) {
	assert.True(t, IsPermanent(fmt.Errorf("message is missing transcription: %w", ErrInvalidInput)))
	assert.True(t, IsPermanent(fmt.Errorf("%w: bad json", ErrDecode)))

	assert.False(t, IsPermanent(fmt.Errorf("%w: model down", ErrOracle)))
	assert.False(t, IsPermanent(fmt.Errorf("%w: db down", ErrPersistence)))
	assert.False(t, IsPermanent(fmt.Errorf("%w: broker down", ErrTransport)))
	assert.False(t, IsPermanent(fmt.Errorf("plain error")))
}

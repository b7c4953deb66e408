package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	prev := NewFunc
	defer func() { NewFunc = prev }()
	NewFunc = func() string { return "0b6a3d2e-8f1c-4c7e-9d7b-1a2b3c4d5e6f" }
	assert.Equal(t, "0b6a3d2e8f1c", Short())
	assert.Equal(t, "0b6a3d2e-8f1c-4c7e-9d7b-1a2b3c4d5e6f", New())
}

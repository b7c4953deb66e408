package idgen

import (
	"strings"

	"github.com/google/uuid"
)

// NewFunc returns a new globally unique identifier. Override in tests for
// determinism.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier as string.
func New() string { return NewFunc() }

// Short returns an identifier usable as a file name segment
func Short() string {
	id := strings.ReplaceAll(New(), "-", "")
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}

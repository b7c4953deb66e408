// Package naming judges whether a proposed allocator name is a legal Go
// identifier usable as both a source file key and an executable name.
package naming

import (
	"fmt"
	"go/token"

	"github.com/viant/allocman/model/allocator"
)

// MaxLength bounds a name so that derived file names stay portable
const MaxLength = 128

// Validate returns true when candidate is a legal allocator name
func Validate(candidate string) bool {
	if candidate == "" || len(candidate) > MaxLength {
		return false
	}
	for i := 0; i < len(candidate); i++ {
		c := candidate[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return !token.IsKeyword(candidate)
}

// Check returns allocator.ErrInvalidName for an illegal candidate
func Check(candidate string) error {
	if !Validate(candidate) {
		return fmt.Errorf("%w: %q", allocator.ErrInvalidName, candidate)
	}
	return nil
}

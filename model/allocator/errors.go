package allocator

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the naming, source, compiler and registry
// services. Callers detect conditions with errors.Is.
var (
	// ErrInvalidName is returned when a name is not a legal allocator identifier.
	ErrInvalidName = errors.New("allocator: invalid name")

	// ErrNotFound is returned when a name is not registered or persisted.
	ErrNotFound = errors.New("allocator: not found")

	// ErrAlreadyExists is returned when creating a name that is already taken.
	ErrAlreadyExists = errors.New("allocator: already exists")

	// ErrImport is returned when an external source cannot be read.
	ErrImport = errors.New("allocator: import failed")

	// ErrIO wraps storage layer read/write failures.
	ErrIO = errors.New("allocator: storage failure")

	// ErrCompile is matched by every *CompileError.
	ErrCompile = errors.New("allocator: compile failure")

	// ErrNotAvailable is returned when no usable artifact exists for a name.
	ErrNotAvailable = errors.New("allocator: artifact not available")

	// ErrSuperseded is returned for a compile whose source was replaced before it finished.
	ErrSuperseded = errors.New("allocator: compile superseded")

	// ErrClosed is returned once the registry has been closed.
	ErrClosed = errors.New("allocator: registry closed")
)

// CompileError carries toolchain diagnostics of a failed build
type CompileError struct {
	Name        string
	Status      int
	Diagnostics string
}

// Error implements error
func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %v (status %d):\n%s", e.Name, e.Status, e.Diagnostics)
}

// Is reports ErrCompile equivalence
func (e *CompileError) Is(target error) bool {
	return target == ErrCompile
}

// NewCompileError creates a compile error, diagnostics are never empty
func NewCompileError(name string, status int, diagnostics string) *CompileError {
	if diagnostics == "" {
		diagnostics = fmt.Sprintf("toolchain exited with status %d", status)
	}
	return &CompileError{Name: name, Status: status, Diagnostics: diagnostics}
}

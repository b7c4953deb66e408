package allocator

import "github.com/viant/allocman/model/schedule"

// Artifact is the compiled, invocable unit built from one allocator source.
// Release frees the underlying resources; a released artifact can no longer schedule.
type Artifact interface {
	schedule.Scheduler

	// Digest returns digest of the source text the artifact was built from
	Digest() string

	// Release frees the artifact, it is safe to call more than once
	Release() error
}

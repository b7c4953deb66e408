package registry

import (
	"sync"

	"github.com/viant/allocman/internal/clock"
	"github.com/viant/allocman/model/allocator"
)

// entry holds the authoritative state of one allocator name
type entry struct {
	mu       sync.Mutex
	record   allocator.Record //Text holds in-memory text, Digest the persisted one
	artifact allocator.Artifact
	outcome  allocator.State //last applied compile outcome
	builtOf  string          //digest the outcome was produced from
	seq      uint64          //last issued compile ticket
	applied  uint64          //last applied compile ticket
	pending  int
	removed  bool
	token    chan struct{}
}

type ticket struct {
	seq    uint64
	digest string
	text   string
}

// settle derives compile state: Compiling while builds are pending, otherwise the
// last outcome if it still matches both persisted and in-memory text
func (e *entry) settle() {
	switch {
	case e.pending > 0:
		e.record.State = allocator.StateCompiling
	case e.outcome.IsFinal() && e.builtOf == e.record.Digest && allocator.Digest(e.record.Text) == e.record.Digest:
		e.record.State = e.outcome
	default:
		e.record.State = allocator.StateUncompiled
	}
}

// reset forgets compile history, supersedes issued tickets and returns the artifact to release
func (e *entry) reset() allocator.Artifact {
	artifact := e.artifact
	e.applied = e.seq
	e.artifact = nil
	e.outcome = ""
	e.builtOf = ""
	e.record.Diagnostics = ""
	e.record.CompiledAt = nil
	return artifact
}

func (e *entry) persisted(text string) {
	e.record.Text = text
	e.record.Digest = allocator.Digest(text)
	e.record.Modified = false
	e.record.UpdatedAt = clock.Now()
}

func (e *entry) transition(from allocator.State, reason string) *allocator.Transition {
	return &allocator.Transition{
		Name:    e.record.Name,
		From:    from,
		To:      e.record.State,
		Reason:  reason,
		Removed: e.removed,
		At:      clock.Now(),
	}
}

func (e *entry) snapshot() *allocator.Record {
	return e.record.Clone()
}

func newEntry(name string) *entry {
	return &entry{
		record: allocator.Record{Name: name, State: allocator.StateUncompiled},
		token:  make(chan struct{}, 1),
	}
}

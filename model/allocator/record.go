package allocator

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Record represents a point-in-time view of a registered allocator.
// The registry owns the authoritative copy; callers only ever receive clones.
type Record struct {
	Name        string     `json:"name" yaml:"name"`
	Text        string     `json:"text,omitempty" yaml:"text,omitempty"`
	State       State      `json:"state" yaml:"state"`
	Diagnostics string     `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Modified    bool       `json:"modified" yaml:"modified"`
	Digest      string     `json:"digest,omitempty" yaml:"digest,omitempty"` //digest of persisted text
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt"`
	CompiledAt  *time.Time `json:"compiledAt,omitempty" yaml:"compiledAt,omitempty"`
}

// Clone returns a copy of the record
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	ret := *r
	if r.CompiledAt != nil {
		at := *r.CompiledAt
		ret.CompiledAt = &at
	}
	return &ret
}

// Digest returns content digest of the supplied source text
func Digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

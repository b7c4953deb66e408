package allocator

import "time"

// Transition describes a state change of a single allocator record.
// The registry publishes one for every mutation, including removal.
type Transition struct {
	Name    string    `json:"name"`
	From    State     `json:"from,omitempty"`
	To      State     `json:"to,omitempty"`
	Reason  string    `json:"reason"`
	Removed bool      `json:"removed,omitempty"`
	At      time.Time `json:"at"`
}

// Transition reasons
const (
	ReasonCreated  = "created"
	ReasonLoaded   = "loaded"
	ReasonEdited   = "edited"
	ReasonSaved    = "saved"
	ReasonCompile  = "compile"
	ReasonBuilt    = "built"
	ReasonRejected = "rejected"
	ReasonStale    = "stale"
	ReasonImported = "imported"
	ReasonDeleted  = "deleted"
	ReasonAborted  = "aborted"
)

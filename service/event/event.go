package event

import (
	"time"

	"github.com/viant/allocman/internal/clock"
)

// Context describes the origin of an event
type Context struct {
	Service   string `json:"service"`
	Method    string `json:"method"`
	EventType string `json:"eventType"`
}

// Event wraps a typed payload
type Event[T any] struct {
	Context   *Context  `json:"context"`
	CreatedAt time.Time `json:"createdAt"`
	Data      T         `json:"data"`
}

// NewEvent creates an event
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Data:      data,
	}
}

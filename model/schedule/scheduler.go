package schedule

import "context"

// Scheduler is the capability a compiled allocator exposes to the simulator
type Scheduler interface {
	// Name returns allocator name
	Name() string

	// Schedule assigns pending jobs of the request to its resources
	Schedule(ctx context.Context, request *Request) (*Assignment, error)
}

package registry

import (
	"context"

	"github.com/viant/allocman/model/allocator"
	"github.com/viant/allocman/service/event"
)

// Compiler builds allocator source into an artifact
type Compiler interface {
	Compile(ctx context.Context, name string, text string) (allocator.Artifact, error)
}

// Notifier receives state transitions
type Notifier interface {
	Publish(ctx context.Context, event *event.Event[allocator.Transition]) error
}

// Option represents registry option
type Option func(s *Service)

// WithNotifier sets transition notifier
func WithNotifier(notifier Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

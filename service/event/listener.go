package event

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

const pollInterval = 50 * time.Millisecond

// Listener dispatches consumed events to a handler on its own goroutine
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	cancel    context.CancelFunc
	done      chan struct{}
}

// Start starts consuming
func (l *Listener[T]) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(ctx)
}

func (l *Listener[T]) run(ctx context.Context) {
	defer close(l.done)
	for {
		event, err := l.publisher.Consume(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Msg("failed to consume event")
			}
		}
		if event == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollInterval):
			}
			continue
		}
		l.handler(event)
	}
}

// Stop stops consuming and waits for the handler to return
func (l *Listener[T]) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
}

// NewListener creates a listener
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	return &Listener[T]{publisher: publisher, handler: handler}
}

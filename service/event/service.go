package event

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/allocman/service/messaging"
	"github.com/viant/allocman/service/messaging/fs"
	"github.com/viant/allocman/service/messaging/memory"
)

// Service manages typed publishers and their listeners
type Service struct {
	config     Config
	fs         afs.Service
	publishers map[reflect.Type]any
	listeners  map[reflect.Type]stopper
	mux        sync.RWMutex
}

type stopper interface{ Stop() }

func keyOf[T any]() reflect.Type {
	var t T
	rType := reflect.TypeOf(t)
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

func queueOf[T any](ctx context.Context, s *Service, name string) (messaging.Queue[T], error) {
	switch s.config.Vendor {
	case messaging.VendorFS:
		return fs.NewQueue[T](ctx, s.fs, fs.Config{URL: url.Join(s.config.URL, name), Retain: s.config.Retain})
	case messaging.VendorMemory:
		return memory.NewQueue[T](memory.Config{Buffer: s.config.Buffer}), nil
	}
	return nil, fmt.Errorf("unsupported events vendor: %q", s.config.Vendor)
}

// PublisherOf returns a publisher for the provided type
func PublisherOf[T any](ctx context.Context, s *Service) (*Publisher[T], error) {
	key := keyOf[T]()
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok := s.publishers[key]; ok {
		return ret.(*Publisher[T]), nil
	}
	queue, err := queueOf[Event[T]](ctx, s, key.Name())
	if err != nil {
		return nil, err
	}
	publisher := NewPublisher[T](queue)
	s.publishers[key] = publisher
	return publisher, nil
}

// SetListenerOf replaces the listener of the provided type
func SetListenerOf[T any](ctx context.Context, s *Service, handler func(*Event[T])) error {
	publisher, err := PublisherOf[T](ctx, s)
	if err != nil {
		return err
	}
	key := keyOf[T]()
	listener := NewListener[T](publisher, handler)
	s.mux.Lock()
	previous := s.listeners[key]
	s.listeners[key] = listener
	s.mux.Unlock()
	if previous != nil {
		previous.Stop()
	}
	listener.Start()
	return nil
}

// Close stops all listeners
func (s *Service) Close() {
	s.mux.Lock()
	listeners := s.listeners
	s.listeners = make(map[reflect.Type]stopper)
	s.mux.Unlock()
	for _, listener := range listeners {
		listener.Stop()
	}
}

// New creates an event service
func New(config Config, options ...Option) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	ret := &Service{
		config:     config,
		publishers: make(map[reflect.Type]any),
		listeners:  make(map[reflect.Type]stopper),
	}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret, nil
}

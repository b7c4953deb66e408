package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/viant/allocman/model/allocator"
	"github.com/viant/allocman/model/schedule"
	"github.com/viant/allocman/service/dao/store"
	"github.com/viant/allocman/service/event"
	"github.com/viant/allocman/service/messaging"
	"github.com/viant/allocman/service/naming"
	"github.com/viant/allocman/service/source"
)

// Service represents allocator lifecycle manager
type Service struct {
	source   *source.Service
	compiler Compiler
	notifier Notifier
	entries  *store.MemoryStore[string, entry]
	mux      sync.RWMutex
	closed   bool
	builds   sync.WaitGroup
}

// Create registers a new allocator and persists its text
func (s *Service) Create(ctx context.Context, name string, text string) (*allocator.Record, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if err := naming.Check(name); err != nil {
		return nil, err
	}
	e := newEntry(name)
	e.record.Text = text
	e.mu.Lock()
	if _, ok := s.entries.PutIfAbsent(e); !ok {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", allocator.ErrAlreadyExists, name)
	}
	err := s.createLocked(ctx, e, text)
	if err != nil {
		e.removed = true
		s.entries.Delete(name, e)
		e.mu.Unlock()
		return nil, err
	}
	ret, transition := e.snapshot(), e.transition("", allocator.ReasonCreated)
	e.mu.Unlock()
	s.notify(ctx, transition)
	return ret, nil
}

func (s *Service) createLocked(ctx context.Context, e *entry, text string) error {
	exists, err := s.source.Exists(ctx, e.record.Name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %v is already persisted", allocator.ErrAlreadyExists, e.record.Name)
	}
	if err = s.source.Write(ctx, e.record.Name, text); err != nil {
		return err
	}
	e.persisted(text)
	e.settle()
	return nil
}

// Open returns persisted text
func (s *Service) Open(ctx context.Context, name string) (string, error) {
	e, err := s.locked(name)
	if err != nil {
		return "", err
	}
	defer e.mu.Unlock()
	return s.source.Read(ctx, name)
}

// Edit replaces in-memory text and marks the record modified, nothing is persisted
func (s *Service) Edit(ctx context.Context, name string, text string) (*allocator.Record, error) {
	e, err := s.locked(name)
	if err != nil {
		return nil, err
	}
	from := e.record.State
	e.record.Text = text
	e.record.Modified = true
	e.settle()
	ret, transition := e.snapshot(), e.transition(from, allocator.ReasonEdited)
	e.mu.Unlock()
	s.notify(ctx, transition)
	return ret, nil
}

// Save persists modified text; on failure the record is left unchanged
func (s *Service) Save(ctx context.Context, name string) (*allocator.Record, error) {
	e, err := s.locked(name)
	if err != nil {
		return nil, err
	}
	transition, err := s.saveLocked(ctx, e)
	ret := e.snapshot()
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.notify(ctx, transition)
	return ret, nil
}

func (s *Service) saveLocked(ctx context.Context, e *entry) (*allocator.Transition, error) {
	if !e.record.Modified {
		return nil, nil
	}
	if err := s.source.Write(ctx, e.record.Name, e.record.Text); err != nil {
		return nil, err
	}
	from := e.record.State
	e.persisted(e.record.Text)
	e.settle()
	return e.transition(from, allocator.ReasonSaved), nil
}

// Delete removes the record, its persisted text and artifact
func (s *Service) Delete(ctx context.Context, name string) error {
	e, err := s.locked(name)
	if err != nil {
		return err
	}
	if _, err = s.source.Delete(ctx, name); err != nil {
		e.mu.Unlock()
		return err
	}
	from := e.record.State
	e.removed = true
	s.entries.Delete(name, e)
	artifact := e.reset()
	transition := e.transition(from, allocator.ReasonDeleted)
	transition.To = ""
	e.mu.Unlock()
	s.release(artifact)
	s.notify(ctx, transition)
	return nil
}

// Import copies an external source into the store; an existing name is replaced,
// its compile history reset and artifact released
func (s *Service) Import(ctx context.Context, externalURL string) (*allocator.Record, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	var e *entry
	var created bool
	accept := func(name string) error {
		if err := naming.Check(name); err != nil {
			return err
		}
		e, created = s.acquire(name)
		return nil
	}
	_, text, err := s.source.ImportFrom(ctx, externalURL, accept)
	if e == nil {
		return nil, err
	}
	if err != nil {
		if created {
			e.removed = true
			s.entries.Delete(e.record.Name, e)
		}
		e.mu.Unlock()
		return nil, err
	}
	from := e.record.State
	if created {
		from = ""
	}
	artifact := e.reset()
	e.persisted(text)
	e.settle()
	ret, transition := e.snapshot(), e.transition(from, allocator.ReasonImported)
	e.mu.Unlock()
	s.release(artifact)
	s.notify(ctx, transition)
	return ret, nil
}

// Load registers every persisted allocator not yet registered, all start uncompiled
func (s *Service) Load(ctx context.Context) ([]string, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	names, err := s.source.List(ctx)
	if err != nil {
		return nil, err
	}
	var loaded []string
	for _, name := range names {
		if !naming.Validate(name) {
			log.Warn().Str("allocator", name).Msg("skipping persisted source with invalid name")
			continue
		}
		if _, ok := s.entries.Get(name); ok {
			continue
		}
		text, err := s.source.Read(ctx, name)
		if err != nil {
			if errors.Is(err, allocator.ErrNotFound) {
				continue
			}
			return loaded, err
		}
		e := newEntry(name)
		e.persisted(text)
		transition := e.transition("", allocator.ReasonLoaded)
		if _, ok := s.entries.PutIfAbsent(e); !ok {
			continue
		}
		loaded = append(loaded, name)
		s.notify(ctx, transition)
	}
	return loaded, nil
}

// List returns snapshots of all records ordered by name
func (s *Service) List(ctx context.Context) []*allocator.Record {
	entries := s.entries.List(func(a, b string) bool { return a < b })
	ret := make([]*allocator.Record, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.removed {
			ret = append(ret, e.snapshot())
		}
		e.mu.Unlock()
	}
	return ret
}

// Record returns record snapshot
func (s *Service) Record(ctx context.Context, name string) (*allocator.Record, error) {
	e, err := s.locked(name)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	return e.snapshot(), nil
}

// Text returns in-memory text
func (s *Service) Text(ctx context.Context, name string) (string, error) {
	e, err := s.locked(name)
	if err != nil {
		return "", err
	}
	defer e.mu.Unlock()
	return e.record.Text, nil
}

// Artifact returns the latest successfully compiled artifact; it is not available
// while the record is failed or compiling
func (s *Service) Artifact(ctx context.Context, name string) (schedule.Scheduler, error) {
	e, err := s.locked(name)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	switch e.record.State {
	case allocator.StateFailed, allocator.StateCompiling:
		return nil, fmt.Errorf("%w: %v is %v", allocator.ErrNotAvailable, name, e.record.State)
	}
	if e.artifact == nil {
		return nil, fmt.Errorf("%w: %v was never compiled", allocator.ErrNotAvailable, name)
	}
	return e.artifact, nil
}

// Close waits for in-flight compiles and releases all artifacts
func (s *Service) Close(ctx context.Context) error {
	s.mux.Lock()
	if s.closed {
		s.mux.Unlock()
		return nil
	}
	s.closed = true
	s.mux.Unlock()
	done := make(chan struct{})
	go func() {
		s.builds.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	for _, e := range s.entries.List(nil) {
		e.mu.Lock()
		artifact := e.reset()
		e.settle()
		e.mu.Unlock()
		s.release(artifact)
	}
	return nil
}

func (s *Service) checkOpen() error {
	s.mux.RLock()
	defer s.mux.RUnlock()
	if s.closed {
		return allocator.ErrClosed
	}
	return nil
}

// locked returns the live entry with its lock held
func (s *Service) locked(name string) (*entry, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	e, ok := s.entries.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %v", allocator.ErrNotFound, name)
	}
	e.mu.Lock()
	if e.removed {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", allocator.ErrNotFound, name)
	}
	return e, nil
}

// acquire returns the live entry for name with its lock held, creating it if needed
func (s *Service) acquire(name string) (*entry, bool) {
	for {
		e := newEntry(name)
		e.mu.Lock()
		actual, created := s.entries.PutIfAbsent(e)
		if created {
			return e, true
		}
		e.mu.Unlock()
		actual.mu.Lock()
		if !actual.removed {
			return actual, false
		}
		actual.mu.Unlock()
	}
}

func (s *Service) release(artifact allocator.Artifact) {
	if artifact == nil {
		return
	}
	if err := artifact.Release(); err != nil {
		log.Warn().Err(err).Str("allocator", artifact.Name()).Msg("failed to release artifact")
	}
}

func (s *Service) notify(ctx context.Context, transition *allocator.Transition) {
	if transition == nil {
		return
	}
	log.Debug().Str("allocator", transition.Name).Str("from", string(transition.From)).
		Str("to", string(transition.To)).Str("reason", transition.Reason).Msg("transition")
	if s.notifier == nil {
		return
	}
	eventContext := &event.Context{Service: "registry", Method: transition.Reason, EventType: "transition"}
	err := s.notifier.Publish(context.WithoutCancel(ctx), event.NewEvent(eventContext, *transition))
	switch {
	case err == nil:
	case errors.Is(err, messaging.ErrFull):
		log.Debug().Str("allocator", transition.Name).Msg("transition dropped, no consumer")
	default:
		log.Warn().Err(err).Str("allocator", transition.Name).Msg("failed to publish transition")
	}
}

// New creates a registry, call Load to register persisted allocators
func New(source *source.Service, compiler Compiler, options ...Option) *Service {
	ret := &Service{
		source:   source,
		compiler: compiler,
		entries:  store.NewMemoryStore[string, entry](func(e *entry) string { return e.record.Name }),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

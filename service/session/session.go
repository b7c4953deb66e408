// Package session tracks the allocator currently open for editing on behalf of a caller.
package session

import (
	"context"
	"errors"

	"github.com/viant/allocman/model/allocator"
	"github.com/viant/allocman/service/scaffold"
)

// ErrNotOpen is returned when an operation needs an open allocator
var ErrNotOpen = errors.New("session: no allocator is open")

// Registry represents the lifecycle operations a session uses
type Registry interface {
	Create(ctx context.Context, name string, text string) (*allocator.Record, error)
	Open(ctx context.Context, name string) (string, error)
	Edit(ctx context.Context, name string, text string) (*allocator.Record, error)
	Save(ctx context.Context, name string) (*allocator.Record, error)
	Compile(ctx context.Context, name string) (*allocator.Record, error)
	Delete(ctx context.Context, name string) error
	Record(ctx context.Context, name string) (*allocator.Record, error)
	Text(ctx context.Context, name string) (string, error)
}

// Session represents a single editing session, it is not safe for concurrent use
type Session struct {
	registry Registry
	name     string
}

// Name returns open allocator name or empty string
func (s *Session) Name() string {
	return s.name
}

// New creates an allocator from the skeleton source and opens it
func (s *Session) New(ctx context.Context, name string) (*allocator.Record, error) {
	text, err := scaffold.Source(name)
	if err != nil {
		return nil, err
	}
	record, err := s.registry.Create(ctx, name, text)
	if err != nil {
		return nil, err
	}
	s.name = name
	return record, nil
}

// Open opens an allocator and returns its current text, including unsaved edits
func (s *Session) Open(ctx context.Context, name string) (string, error) {
	if _, err := s.registry.Open(ctx, name); err != nil {
		return "", err
	}
	text, err := s.registry.Text(ctx, name)
	if err != nil {
		return "", err
	}
	s.name = name
	return text, nil
}

// Edit replaces the text of the open allocator
func (s *Session) Edit(ctx context.Context, text string) (*allocator.Record, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.registry.Edit(ctx, s.name, text)
}

// Save persists the open allocator
func (s *Session) Save(ctx context.Context) (*allocator.Record, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.registry.Save(ctx, s.name)
}

// Compile compiles the open allocator
func (s *Session) Compile(ctx context.Context) (*allocator.Record, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.registry.Compile(ctx, s.name)
}

// Delete deletes an allocator; closed reports that it was the open one and the session was closed
func (s *Session) Delete(ctx context.Context, name string) (closed bool, err error) {
	if err = s.registry.Delete(ctx, name); err != nil {
		return false, err
	}
	if name == s.name {
		s.name = ""
		return true, nil
	}
	return false, nil
}

// Close closes the open allocator, unsaved edits stay in the registry
func (s *Session) Close() {
	s.name = ""
}

// Modified returns true when the open allocator has unsaved edits
func (s *Session) Modified(ctx context.Context) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	record, err := s.registry.Record(ctx, s.name)
	if err != nil {
		return false, err
	}
	return record.Modified, nil
}

// Title returns display title, modified allocators are marked with an asterisk
func (s *Session) Title(ctx context.Context) string {
	if s.name == "" {
		return ""
	}
	if modified, err := s.Modified(ctx); err == nil && modified {
		return s.name + " *"
	}
	return s.name
}

func (s *Session) checkOpen() error {
	if s.name == "" {
		return ErrNotOpen
	}
	return nil
}

// New creates a session
func New(registry Registry) *Session {
	return &Session{registry: registry}
}

package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/viant/allocman/internal/clock"
	"github.com/viant/allocman/model/allocator"
)

// Wait waits for a compile outcome. The build itself is never bound to ctx.
type Wait func(ctx context.Context) (*allocator.Record, error)

type build struct {
	done   chan struct{}
	record *allocator.Record
	err    error
}

func (b *build) wait(ctx context.Context) (*allocator.Record, error) {
	select {
	case <-b.done:
		return b.record.Clone(), b.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func completed(record *allocator.Record, err error) Wait {
	b := &build{done: make(chan struct{}), record: record, err: err}
	close(b.done)
	return b.wait
}

// Compile saves modified text and builds it. A rejected build returns the failed
// record together with *allocator.CompileError
func (s *Service) Compile(ctx context.Context, name string) (*allocator.Record, error) {
	wait, err := s.CompileAsync(ctx, name)
	if err != nil {
		return nil, err
	}
	return wait(ctx)
}

// CompileAsync saves modified text and schedules a build of the persisted text
func (s *Service) CompileAsync(ctx context.Context, name string) (Wait, error) {
	e, err := s.locked(name)
	if err != nil {
		return nil, err
	}
	saved, err := s.saveLocked(ctx, e)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if e.pending == 0 && e.record.State == allocator.StateCompiled && e.artifact != nil && e.artifact.Digest() == e.record.Digest {
		ret := e.snapshot()
		e.mu.Unlock()
		s.notify(ctx, saved)
		return completed(ret, nil), nil
	}
	s.mux.RLock()
	if s.closed {
		s.mux.RUnlock()
		e.mu.Unlock()
		return nil, allocator.ErrClosed
	}
	s.builds.Add(1)
	s.mux.RUnlock()

	e.seq++
	t := &ticket{seq: e.seq, digest: e.record.Digest, text: e.record.Text}
	from := e.record.State
	e.pending++
	e.settle()
	transition := e.transition(from, allocator.ReasonCompile)
	e.mu.Unlock()
	s.notify(ctx, saved)
	s.notify(ctx, transition)

	b := &build{done: make(chan struct{})}
	go s.build(context.WithoutCancel(ctx), e, t, b)
	return b.wait, nil
}

func (s *Service) build(ctx context.Context, e *entry, t *ticket, b *build) {
	defer s.builds.Done()
	defer close(b.done)
	e.token <- struct{}{}
	defer func() { <-e.token }()
	var artifact allocator.Artifact
	err := allocator.ErrSuperseded
	if s.current(e, t) {
		artifact, err = s.compiler.Compile(ctx, e.record.Name, t.text)
	}
	b.record, b.err = s.apply(ctx, e, t, artifact, err)
}

// current reports whether t still matches the latest persisted text
func (s *Service) current(e *entry, t *ticket) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.removed && e.record.Digest == t.digest && t.seq > e.applied
}

func (s *Service) apply(ctx context.Context, e *entry, t *ticket, artifact allocator.Artifact, buildErr error) (*allocator.Record, error) {
	e.mu.Lock()
	e.pending--
	name := e.record.Name
	from := e.record.State
	var released allocator.Artifact
	var compileErr *allocator.CompileError
	var reason string
	var err error
	switch {
	case e.removed:
		released = artifact
		err = fmt.Errorf("%w: %v was deleted", allocator.ErrNotFound, name)
	case errors.Is(buildErr, allocator.ErrSuperseded) || e.record.Digest != t.digest || t.seq <= e.applied:
		released = artifact
		reason = allocator.ReasonStale
		err = fmt.Errorf("%w: %v", allocator.ErrSuperseded, name)
		log.Warn().Str("allocator", name).Uint64("ticket", t.seq).Msg("discarding stale compile result")
	case buildErr == nil:
		released = e.artifact
		e.artifact = artifact
		e.applied = t.seq
		e.outcome = allocator.StateCompiled
		e.builtOf = t.digest
		e.record.Diagnostics = ""
		compiledAt := clock.Now()
		e.record.CompiledAt = &compiledAt
		reason = allocator.ReasonBuilt
	case errors.As(buildErr, &compileErr):
		released = e.artifact
		e.artifact = nil
		e.applied = t.seq
		e.outcome = allocator.StateFailed
		e.builtOf = t.digest
		e.record.Diagnostics = compileErr.Diagnostics
		reason = allocator.ReasonRejected
		err = buildErr
	default:
		released = artifact
		reason = allocator.ReasonAborted
		err = buildErr
	}
	e.settle()
	ret, removed := e.snapshot(), e.removed
	var transition *allocator.Transition
	if reason != "" {
		transition = e.transition(from, reason)
	}
	e.mu.Unlock()
	s.release(released)
	s.notify(ctx, transition)
	if removed {
		return nil, err
	}
	return ret, err
}

package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/allocman/internal/clock"
	"github.com/viant/allocman/model/allocator"
	"github.com/viant/allocman/model/schedule"
	"github.com/viant/allocman/tracing"
)

// Executable is an allocator artifact speaking JSON over stdin/stdout
type Executable struct {
	name     string
	digest   string
	path     string
	url      string
	builtAt  time.Time
	fs       afs.Service
	mux      sync.RWMutex
	released bool
}

// Name returns allocator name
func (e *Executable) Name() string { return e.name }

// Digest returns source digest
func (e *Executable) Digest() string { return e.digest }

// Path returns executable location
func (e *Executable) Path() string { return e.path }

// BuiltAt returns build time
func (e *Executable) BuiltAt() time.Time { return e.builtAt }

// Released reports whether Release was called
func (e *Executable) Released() bool {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.released
}

// Schedule runs one scheduling round in a new allocator process
func (e *Executable) Schedule(ctx context.Context, request *schedule.Request) (assignment *schedule.Assignment, err error) {
	ctx, span := tracing.StartSpan(ctx, "allocator.Schedule "+e.name, tracing.KindClient)
	defer func() { tracing.EndSpan(span, err) }()
	e.mux.RLock()
	defer e.mux.RUnlock()
	if e.released {
		return nil, fmt.Errorf("%w: %v was released", allocator.ErrNotAvailable, e.name)
	}
	input, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.path)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err = cmd.Run(); err != nil {
		return nil, fmt.Errorf("allocator %v failed: %w: %s", e.name, err, strings.TrimSpace(stderr.String()))
	}
	assignment = &schedule.Assignment{}
	if err = json.Unmarshal(stdout.Bytes(), assignment); err != nil {
		return nil, fmt.Errorf("allocator %v returned invalid assignment: %w", e.name, err)
	}
	if err = assignment.Validate(request); err != nil {
		return nil, fmt.Errorf("allocator %v returned invalid assignment: %w", e.name, err)
	}
	return assignment, nil
}

// Release removes the executable, subsequent calls are no-op
func (e *Executable) Release() error {
	e.mux.Lock()
	defer e.mux.Unlock()
	if e.released {
		return nil
	}
	e.released = true
	if e.fs == nil || e.url == "" {
		return nil
	}
	if err := e.fs.Delete(context.Background(), e.url); err != nil {
		return fmt.Errorf("%w: failed to remove %v: %v", allocator.ErrIO, e.path, err)
	}
	return nil
}

func newExecutable(name, digest, path string, fs afs.Service, URL string) *Executable {
	return &Executable{name: name, digest: digest, path: path, url: URL, fs: fs, builtAt: clock.Now()}
}

var _ allocator.Artifact = (*Executable)(nil)

package allocman

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/allocman/model/allocator"
)

// unlistableFS fails every listing
type unlistableFS struct {
	afs.Service
}

func (f *unlistableFS) List(ctx context.Context, URL string, options ...storage.Option) ([]storage.Object, error) {
	return nil, fmt.Errorf("listing disabled: %v", URL)
}

func TestService_init_ClosesOnFailure(t *testing.T) {
	config := DefaultConfig()
	config.Store.URL = "mem://localhost/allocman/" + t.Name()
	config.Compiler.WorkURL = t.TempDir()
	srv := &Service{config: config, fs: &unlistableFS{Service: afs.New()}}

	err := srv.init(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, allocator.ErrIO)
	require.NotNil(t, srv.toolchain)
	_, err = srv.toolchain.Compile(context.Background(), "Fifo", "package main\n")
	assert.ErrorIs(t, err, allocator.ErrClosed, "compiler is closed after a failed start")
	_, err = srv.registry.Create(context.Background(), "Fifo", "package main\n")
	assert.ErrorIs(t, err, allocator.ErrClosed)
}

package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/allocman/model/allocator"
	"github.com/viant/allocman/service/registry"
	"github.com/viant/allocman/service/source"
)

func newTestSession(t *testing.T) (*Session, *registry.Service) {
	t.Helper()
	store, err := source.New(context.Background(), "mem://localhost/session/"+t.Name())
	require.NoError(t, err)
	reg := registry.New(store, nil)
	return New(reg), reg
}

func TestSession_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, reg := newTestSession(t)
	assert.Equal(t, "", s.Title(ctx))
	_, err := s.Edit(ctx, "x")
	assert.ErrorIs(t, err, ErrNotOpen)

	record, err := s.New(ctx, "Fair")
	require.NoError(t, err)
	assert.Equal(t, allocator.StateUncompiled, record.State)
	assert.Equal(t, "Fair", s.Title(ctx))
	persisted, err := reg.Open(ctx, "Fair")
	require.NoError(t, err)
	assert.Contains(t, persisted, `const allocator = "Fair"`)

	_, err = s.Edit(ctx, persisted+"// tuned\n")
	require.NoError(t, err)
	assert.Equal(t, "Fair *", s.Title(ctx))
	patch, stats, err := s.Diff(ctx)
	require.NoError(t, err)
	assert.Contains(t, patch, "+// tuned")
	assert.Equal(t, DiffStats{Added: 1}, stats)

	s.Close()
	text, err := s.Open(ctx, "Fair")
	require.NoError(t, err)
	assert.Equal(t, persisted+"// tuned\n", text, "unsaved edits survive close")

	_, err = s.Save(ctx)
	require.NoError(t, err)
	modified, err := s.Modified(ctx)
	require.NoError(t, err)
	assert.False(t, modified)
	patch, _, err = s.Diff(ctx)
	require.NoError(t, err)
	assert.Empty(t, patch)

	_, err = s.New(ctx, "9bad")
	assert.ErrorIs(t, err, allocator.ErrInvalidName)
	assert.Equal(t, "Fair", s.Name())
}

func TestSession_Delete(t *testing.T) {
	var testCases = []struct {
		description  string
		deleted      string
		expectClosed bool
	}{
		{description: "deleting open allocator closes session", deleted: "Fair", expectClosed: true},
		{description: "deleting other allocator keeps session", deleted: "Greedy"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			ctx := context.Background()
			s, reg := newTestSession(t)
			_, err := reg.Create(ctx, "Greedy", "package main")
			require.NoError(t, err)
			_, err = s.New(ctx, "Fair")
			require.NoError(t, err)

			closed, err := s.Delete(ctx, testCase.deleted)
			require.NoError(t, err)
			assert.Equal(t, testCase.expectClosed, closed)
			if testCase.expectClosed {
				assert.Equal(t, "", s.Name())
				_, err = s.Save(ctx)
				assert.ErrorIs(t, err, ErrNotOpen)
				return
			}
			assert.Equal(t, "Fair", s.Name())
		})
	}

	s, _ := newTestSession(t)
	_, err := s.Delete(context.Background(), "Missing")
	assert.ErrorIs(t, err, allocator.ErrNotFound)
}

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	key   string
	value int
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore[string, item](func(i *item) string { return i.key })
	first := &item{key: "b", value: 1}
	stored, ok := s.PutIfAbsent(first)
	assert.True(t, ok)
	assert.Same(t, first, stored)

	stored, ok = s.PutIfAbsent(&item{key: "b", value: 2})
	assert.False(t, ok)
	assert.Same(t, first, stored)

	s.Put(&item{key: "a", value: 3})
	s.Put(nil)
	assert.Equal(t, 2, s.Len())

	list := s.List(func(a, b string) bool { return a < b })
	assert.Equal(t, []string{"a", "b"}, []string{list[0].key, list[1].key})

	assert.False(t, s.Delete("b", &item{key: "b"}))
	assert.True(t, s.Delete("b", first))
	_, ok = s.Get("b")
	assert.False(t, ok)
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, v.value)
}

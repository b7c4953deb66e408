// Package registry implements the allocator lifecycle manager.
//
// The registry keeps one record per allocator name, persists source text through
// the source store, builds it with the compiler and publishes the resulting
// artifact. Compiles of one name are serialised; a compile result is applied
// only while it still matches the most recently persisted text of that name.
package registry

// Package compiler builds allocator sources into executables by invoking an
// external toolchain through shell sessions. Sessions are pooled; the pool
// size bounds the number of concurrent toolchain processes.
package compiler

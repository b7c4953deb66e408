// Package schedule defines the contract shared by the simulator and compiled
// allocators: a request describing pending jobs and available resources, and
// the assignment an allocator returns for it.
//
// Compiled allocators exchange these types as JSON: the request is written to
// the allocator's standard input and the assignment is read from its standard
// output.
package schedule

// Package allocator defines the allocator record, its compile state machine
// values and the error taxonomy shared across services.
package allocator

// Package idgen wraps the UUID generator so that it can be stubbed in tests.
// Identifiers name temporary source objects and build directories; callers
// treat them as opaque strings.
package idgen

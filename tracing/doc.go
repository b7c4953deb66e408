// Package tracing wraps OpenTelemetry so that compile and lifecycle code can
// record spans without importing the upstream packages directly. When no
// provider has been installed spans are no-ops.
package tracing

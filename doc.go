// Package allocman manages the lifecycle of pluggable allocators: named
// scheduling strategies authored as Go source, persisted in a storage
// namespace, compiled by the Go toolchain and handed to a simulator as
// executables speaking JSON over stdin and stdout.
//
// The root package wires the services together:
//
//	srv, _ := allocman.New(ctx, allocman.WithStoreURL("/var/allocman"))
//	reg := srv.Registry()
//	_, _ = reg.Create(ctx, "Fair", text)
//	record, err := reg.Compile(ctx, "Fair")
//	scheduler, _ := reg.Artifact(ctx, "Fair")
//	assignment, _ := scheduler.Schedule(ctx, request)
//
// See the service sub-packages for the individual components.
package allocman

package allocman

import (
	"github.com/viant/afs"
	"github.com/viant/allocman/service/compiler"
	"github.com/viant/allocman/service/registry"
)

// Option represents manager option
type Option func(s *Service)

// WithConfig sets the configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithStoreURL sets allocator source namespace
func WithStoreURL(URL string) Option {
	return func(s *Service) {
		s.config.Store.URL = URL
	}
}

// WithRunnerFactory sets the toolchain session factory
func WithRunnerFactory(factory compiler.RunnerFactory) Option {
	return func(s *Service) {
		s.newRunner = factory
	}
}

// WithCompiler replaces the toolchain compiler
func WithCompiler(compiler registry.Compiler) Option {
	return func(s *Service) {
		s.compiler = compiler
	}
}

// WithFS sets the storage service
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

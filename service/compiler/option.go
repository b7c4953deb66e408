package compiler

import "github.com/viant/afs"

// Option represents compiler option
type Option func(s *Service)

// WithConfig sets compiler config
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithRunnerFactory sets the session factory
func WithRunnerFactory(factory RunnerFactory) Option {
	return func(s *Service) {
		s.newRunner = factory
	}
}

// WithFS sets the storage service used for build workspaces
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

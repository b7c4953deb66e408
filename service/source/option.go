package source

import "github.com/viant/afs"

// Option represents source store option
type Option func(s *Service)

// WithFS sets the storage service
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

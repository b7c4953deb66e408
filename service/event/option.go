package event

import "github.com/viant/afs"

// Option represents event service option
type Option func(s *Service)

// WithFS sets storage service used by the fs vendor
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

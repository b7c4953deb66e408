package source

import (
	"context"
	"fmt"

	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/allocman/model/allocator"
)

// Accept is invoked with the derived name before anything is written
type Accept func(name string) error

// ImportFrom reads an external source, derives its name and, once accept
// approves the name, copies the content into the store. Name validation is
// the caller's concern; an accept error is returned unchanged.
func (s *Service) ImportFrom(ctx context.Context, externalURL string, accept Accept) (string, string, error) {
	if externalURL == "" {
		return "", "", fmt.Errorf("%w: location was empty", allocator.ErrImport)
	}
	externalURL = url.Normalize(externalURL, file.Scheme)
	exists, err := s.fs.Exists(ctx, externalURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: failed to check %v: %v", allocator.ErrImport, externalURL, err)
	}
	if !exists {
		return "", "", fmt.Errorf("%w: %v does not exist", allocator.ErrImport, externalURL)
	}
	data, err := s.fs.DownloadWithURL(ctx, externalURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: failed to read %v: %v", allocator.ErrImport, externalURL, err)
	}
	name := DeriveName(externalURL)
	if accept != nil {
		if err = accept(name); err != nil {
			return name, "", err
		}
	}
	text := string(data)
	if err = s.Write(ctx, name, text); err != nil {
		return name, "", err
	}
	return name, text, nil
}

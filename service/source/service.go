// Package source persists allocator source text in an afs namespace, one
// object per allocator name.
package source

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/allocman/internal/idgen"
	"github.com/viant/allocman/model/allocator"
)

// Ext is the extension of a persisted allocator source
const Ext = ".go"

// Service implements a filesystem based allocator source store
type Service struct {
	baseURL string
	fs      afs.Service
}

// BaseURL returns the namespace root
func (s *Service) BaseURL() string {
	return s.baseURL
}

// URL returns the storage location for a name
func (s *Service) URL(name string) string {
	return url.Join(s.baseURL, KeyOf(name))
}

// List returns all persisted names, sorted
func (s *Service) List(ctx context.Context) ([]string, error) {
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list %v: %v", allocator.ErrIO, s.baseURL, err)
	}
	var names []string
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		if name, ok := NameOf(object.Name()); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Exists returns true if name is persisted
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	location := s.URL(name)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return false, fmt.Errorf("%w: failed to check %v: %v", allocator.ErrIO, location, err)
	}
	return exists, nil
}

// Read returns persisted source text
func (s *Service) Read(ctx context.Context, name string) (string, error) {
	location := s.URL(name)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return "", fmt.Errorf("%w: failed to check %v: %v", allocator.ErrIO, location, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: %v", allocator.ErrNotFound, name)
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %v: %v", allocator.ErrIO, location, err)
	}
	return string(data), nil
}

// Write creates or replaces source text; the content is uploaded next to the
// target under a hidden name and then moved into place, so readers never
// observe a partial write
func (s *Service) Write(ctx context.Context, name string, text string) error {
	location := s.URL(name)
	tempURL := url.Join(s.baseURL, tempKeyOf(name))
	if err := s.fs.Upload(ctx, tempURL, file.DefaultFileOsMode, strings.NewReader(text)); err != nil {
		return fmt.Errorf("%w: failed to write %v: %v", allocator.ErrIO, tempURL, err)
	}
	if err := s.fs.Move(ctx, tempURL, location); err != nil {
		_ = s.fs.Delete(ctx, tempURL)
		return fmt.Errorf("%w: failed to replace %v: %v", allocator.ErrIO, location, err)
	}
	return nil
}

// Delete removes persisted source text, returns false if name was absent
func (s *Service) Delete(ctx context.Context, name string) (bool, error) {
	location := s.URL(name)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return false, fmt.Errorf("%w: failed to check %v: %v", allocator.ErrIO, location, err)
	}
	if !exists {
		return false, nil
	}
	if err := s.fs.Delete(ctx, location); err != nil {
		return false, fmt.Errorf("%w: failed to delete %v: %v", allocator.ErrIO, location, err)
	}
	return true, nil
}

// KeyOf maps a name to its storage key
func KeyOf(name string) string {
	return name + Ext
}

// tempKeyOf returns a hidden staging key; it keeps Ext so that afs Move
// treats the target as a file rather than a destination folder
func tempKeyOf(name string) string {
	return "." + name + "." + idgen.New() + Ext
}

// NameOf maps a storage key back to a name; hidden and foreign objects are rejected
func NameOf(key string) (string, bool) {
	if strings.HasPrefix(key, ".") || !strings.HasSuffix(key, Ext) {
		return "", false
	}
	name := strings.TrimSuffix(key, Ext)
	if name == "" {
		return "", false
	}
	return name, true
}

// DeriveName returns the allocator name implied by an external location:
// the base name without its extension
func DeriveName(externalURL string) string {
	base := path.Base(url.Path(url.Normalize(externalURL, file.Scheme)))
	return strings.TrimSuffix(base, path.Ext(base))
}

// New creates a source store rooted at baseURL, creating the location if needed
func New(ctx context.Context, baseURL string, options ...Option) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	baseURL = url.Normalize(baseURL, file.Scheme)
	exists, _ := ret.fs.Exists(ctx, baseURL)
	if !exists {
		if err := ret.fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("%w: failed to create %v: %v", allocator.ErrIO, baseURL, err)
		}
	}
	ret.baseURL = baseURL
	return ret, nil
}

// Package importer imports every allocator source found in an external location.
package importer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/allocman/model/allocator"
	"github.com/viant/allocman/service/source"
)

// Importer imports a single external source
type Importer interface {
	Import(ctx context.Context, externalURL string) (*allocator.Record, error)
}

// Result represents a single file import outcome
type Result struct {
	URL    string            `json:"url"`
	Record *allocator.Record `json:"record,omitempty"`
	Error  string            `json:"error,omitempty"`
	err    error
}

// Err returns import error
func (r *Result) Err() error {
	return r.err
}

// Service imports directories
type Service struct {
	fs       afs.Service
	importer Importer
}

// ImportDir imports every source file directly under dirURL; a failing file does not stop the batch
func (s *Service) ImportDir(ctx context.Context, dirURL string) ([]*Result, error) {
	dirURL = url.Normalize(dirURL, file.Scheme)
	objects, err := s.fs.List(ctx, dirURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list %v: %v", allocator.ErrImport, dirURL, err)
	}
	var URLs []string
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), source.Ext) || strings.HasPrefix(object.Name(), ".") {
			continue
		}
		URLs = append(URLs, url.Join(dirURL, object.Name()))
	}
	sort.Strings(URLs)
	var results []*Result
	for _, URL := range URLs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := &Result{URL: URL}
		result.Record, result.err = s.importer.Import(ctx, URL)
		if result.err != nil {
			result.Error = result.err.Error()
			log.Warn().Err(result.err).Str("url", URL).Msg("import failed")
		}
		results = append(results, result)
	}
	return results, nil
}

// New creates an importer
func New(importer Importer, fs afs.Service) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, importer: importer}
}

package session

import (
	"context"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/viant/allocman/service/source"
)

// DiffStats captures basic statistics about a unified-diff output.
type DiffStats struct {
	Added   int
	Removed int
}

// Diff returns unified diff of unsaved edits against persisted text, empty when there are none
func (s *Session) Diff(ctx context.Context) (string, DiffStats, error) {
	if err := s.checkOpen(); err != nil {
		return "", DiffStats{}, err
	}
	persisted, err := s.registry.Open(ctx, s.name)
	if err != nil {
		return "", DiffStats{}, err
	}
	current, err := s.registry.Text(ctx, s.name)
	if err != nil {
		return "", DiffStats{}, err
	}
	return generateDiff(persisted, current, source.KeyOf(s.name), 3)
}

func generateDiff(oldContent, newContent string, filePath string, contextLines int) (string, DiffStats, error) {
	if oldContent == newContent {
		return "", DiffStats{}, nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: filePath + " (saved)",
		ToFile:   filePath + " (modified)",
		Context:  contextLines,
	}
	patch, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", DiffStats{}, err
	}
	var stats DiffStats
	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			stats.Added++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			stats.Removed++
		}
	}
	return patch, stats, nil
}

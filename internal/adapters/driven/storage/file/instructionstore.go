package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
	"github.com/vibecraft/cadbook/internal/logger"
)

// Verify interface compliance.
var _ driven.InstructionStore = (*InstructionStore)(nil)

// InstructionStore implements driven.InstructionStore on the local filesystem.
type InstructionStore struct{}

// NewInstructionStore creates an InstructionStore.
func NewInstructionStore() *InstructionStore {
	return &InstructionStore{}
}

// List returns the regular files directly inside dir whose names end with
// suffix. Titles and anchors are derived from the file names.
func (s *InstructionStore) List(ctx context.Context, dir, suffix string) ([]domain.InstructionDocument, error) {
	if suffix == "" {
		suffix = domain.DefaultInstructionSuffix
	}
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInputDirMissing, dir)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInputDirMissing, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var docs []domain.InstructionDocument
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, suffix) {
			continue
		}
		title := domain.TitleFromFilename(name, suffix)
		docs = append(docs, domain.InstructionDocument{
			Path:   filepath.Join(dir, name),
			Name:   name,
			Title:  title,
			Anchor: domain.AnchorFromTitle(title),
		})
	}
	logger.Debug("found %d instruction files in %s", len(docs), dir)
	return docs, nil
}

// Read loads one instruction file and splits off its front matter.
func (s *InstructionStore) Read(ctx context.Context, path string) (*driven.InstructionContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	meta, body, ok := splitFrontMatter(string(data))
	if ok {
		logger.Debug("front matter in %s (title %q)", filepath.Base(path), meta.Title)
	}
	return &driven.InstructionContent{Title: meta.Title, Body: body}, nil
}

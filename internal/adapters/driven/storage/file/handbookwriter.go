package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.HandbookWriter = (*HandbookWriter)(nil)

// DefaultFileMode is applied to written handbooks.
const DefaultFileMode os.FileMode = 0644

// HandbookWriter writes handbooks atomically.
type HandbookWriter struct {
	mode os.FileMode
}

// NewHandbookWriter creates a HandbookWriter.
func NewHandbookWriter() *HandbookWriter {
	return &HandbookWriter{mode: DefaultFileMode}
}

// WriteHandbook writes content to a temp file next to path, syncs it and
// renames it over path.
func (w *HandbookWriter) WriteHandbook(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cadbook-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, path, err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, path, err)
	}

	if _, err := tmp.Write(content); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(w.mode); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, path, err)
	}
	return nil
}

// Package filesystem finds CAD assemblies on the local filesystem.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
	"github.com/vibecraft/cadbook/internal/logger"
)

// Verify interface compliance.
var _ driven.Discoverer = (*Discoverer)(nil)

// Options controls which files qualify as source documents.
type Options struct {
	// Extension is the required filename suffix, matched case-sensitively.
	Extension string

	// ArchiveMarker prunes any directory whose path contains it.
	ArchiveMarker string

	// HiddenPrefix excludes files whose name starts with it.
	HiddenPrefix string
}

// OptionsFromSettings builds Options from discovery settings.
func OptionsFromSettings(s domain.DiscoverySettings) Options {
	return Options{
		Extension:     s.Extension,
		ArchiveMarker: s.ArchiveMarker,
		HiddenPrefix:  s.HiddenPrefix,
	}
}

// Discoverer walks a directory tree top-down in the order the filesystem
// reports entries. Files of a directory are emitted before any of its
// subdirectories are visited.
type Discoverer struct {
	opts Options
}

// New creates a Discoverer.
func New(opts Options) *Discoverer {
	return &Discoverer{opts: opts}
}

// Discover returns every qualifying file beneath root.
func (d *Discoverer) Discover(ctx context.Context, root string) ([]domain.SourceDocument, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDiscovery, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrDiscovery, root)
	}

	entries, err := readDirUnsorted(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDiscovery, root, err)
	}

	var docs []domain.SourceDocument
	if err := d.walk(ctx, root, entries, &docs); err != nil {
		return nil, err
	}
	logger.Debug("discovered %d candidates under %s", len(docs), root)
	return docs, nil
}

func (d *Discoverer) walk(ctx context.Context, dir string, entries []fs.DirEntry, docs *[]domain.SourceDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.pruned(dir) {
		logger.Debug("pruned %s", dir)
		return nil
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if !d.Matches(entry.Name()) {
			continue
		}
		*docs = append(*docs, domain.NewSourceDocument(path))
	}

	for _, sub := range subdirs {
		subEntries, err := readDirUnsorted(sub)
		if err != nil {
			logger.Warn("cannot read %s: %v", sub, err)
			continue
		}
		if err := d.walk(ctx, sub, subEntries, docs); err != nil {
			return err
		}
	}
	return nil
}

func (d *Discoverer) pruned(dir string) bool {
	return d.opts.ArchiveMarker != "" && strings.Contains(dir, d.opts.ArchiveMarker)
}

// Matches reports whether a file name qualifies as a source document.
func (d *Discoverer) Matches(name string) bool {
	if !strings.HasSuffix(name, d.opts.Extension) {
		return false
	}
	if d.opts.HiddenPrefix != "" && strings.HasPrefix(name, d.opts.HiddenPrefix) {
		return false
	}
	return true
}

// readDirUnsorted lists a directory without sorting, unlike os.ReadDir.
func readDirUnsorted(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.ReadDir(-1)
}

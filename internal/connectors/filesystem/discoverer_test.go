package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
)

func defaultOptions() Options {
	return OptionsFromSettings(domain.DefaultSettings().Discovery)
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func paths(docs []domain.SourceDocument) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Path
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("implements Discoverer interface", func(t *testing.T) {
		var _ driven.Discoverer = New(defaultOptions())
	})

	t.Run("options from settings", func(t *testing.T) {
		opts := defaultOptions()
		assert.Equal(t, ".fcstd", opts.Extension)
		assert.Equal(t, "ARCHIVE", opts.ArchiveMarker)
		assert.Equal(t, "._", opts.HiddenPrefix)
	})
}

func TestDiscoverer_Matches(t *testing.T) {
	d := New(defaultOptions())

	tests := []struct {
		name string
		file string
		want bool
	}{
		{name: "plain assembly", file: "Floor.fcstd", want: true},
		{name: "wrong extension", file: "Floor.json", want: false},
		{name: "extension is case sensitive", file: "Floor.FCStd", want: false},
		{name: "resource fork prefix", file: "._Floor.fcstd", want: false},
		{name: "dot file without fork prefix", file: ".Floor.fcstd", want: true},
		{name: "extension inside name", file: "Floor.fcstd.bak", want: false},
		{name: "extension only", file: ".fcstd", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Matches(tt.file))
		})
	}
}

func TestDiscoverer_Discover(t *testing.T) {
	t.Run("finds assemblies in nested directories", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "Floor.fcstd"))
		touch(t, filepath.Join(root, "walls", "Wall_North.fcstd"))
		touch(t, filepath.Join(root, "walls", "deep", "Wall_South.fcstd"))
		touch(t, filepath.Join(root, "notes.txt"))

		docs, err := New(defaultOptions()).Discover(context.Background(), root)
		require.NoError(t, err)

		got := paths(docs)
		sort.Strings(got)
		assert.Equal(t, []string{
			filepath.Join(root, "Floor.fcstd"),
			filepath.Join(root, "walls", "Wall_North.fcstd"),
			filepath.Join(root, "walls", "deep", "Wall_South.fcstd"),
		}, got)
	})

	t.Run("never descends into archive directories", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "Roof.fcstd"))
		touch(t, filepath.Join(root, "ARCHIVE", "Roof_old.fcstd"))
		touch(t, filepath.Join(root, "OLD_ARCHIVE_2023", "Wall.fcstd"))
		touch(t, filepath.Join(root, "ARCHIVE", "nested", "Floor.fcstd"))

		docs, err := New(defaultOptions()).Discover(context.Background(), root)
		require.NoError(t, err)

		assert.Equal(t, []string{filepath.Join(root, "Roof.fcstd")}, paths(docs))
	})

	t.Run("skips resource fork files", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "._Floor.fcstd"))
		touch(t, filepath.Join(root, "Floor.fcstd"))

		docs, err := New(defaultOptions()).Discover(context.Background(), root)
		require.NoError(t, err)

		require.Len(t, docs, 1)
		assert.Equal(t, "Floor", docs[0].BaseName)
	})

	t.Run("emits files of a directory before its subdirectories", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "a", "Inner.fcstd"))
		touch(t, filepath.Join(root, "Top.fcstd"))

		docs, err := New(defaultOptions()).Discover(context.Background(), root)
		require.NoError(t, err)

		require.Len(t, docs, 2)
		assert.Equal(t, "Top", docs[0].BaseName)
		assert.Equal(t, "Inner", docs[1].BaseName)
	})

	t.Run("empty directory", func(t *testing.T) {
		docs, err := New(defaultOptions()).Discover(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("non-existent root is fatal", func(t *testing.T) {
		_, err := New(defaultOptions()).Discover(context.Background(), filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDiscovery)
	})

	t.Run("root that is a file is fatal", func(t *testing.T) {
		root := t.TempDir()
		file := filepath.Join(root, "Floor.fcstd")
		touch(t, file)

		_, err := New(defaultOptions()).Discover(context.Background(), file)
		assert.ErrorIs(t, err, domain.ErrDiscovery)
	})

	t.Run("unreadable subdirectory is skipped", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced")
		}
		root := t.TempDir()
		touch(t, filepath.Join(root, "Floor.fcstd"))
		locked := filepath.Join(root, "locked")
		touch(t, filepath.Join(locked, "Wall.fcstd"))
		require.NoError(t, os.Chmod(locked, 0000))
		t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

		docs, err := New(defaultOptions()).Discover(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "Floor.fcstd")}, paths(docs))
	})

	t.Run("custom options", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "Floor.step"))
		touch(t, filepath.Join(root, "Floor.fcstd"))
		touch(t, filepath.Join(root, "old", "Wall.step"))

		d := New(Options{Extension: ".step", ArchiveMarker: "old"})
		docs, err := d.Discover(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "Floor.step")}, paths(docs))
	})

	t.Run("cancelled context", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "Floor.fcstd"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(defaultOptions()).Discover(ctx, root)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("paths are absolute", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "Floor.fcstd"))

		docs, err := New(defaultOptions()).Discover(context.Background(), root)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.True(t, filepath.IsAbs(docs[0].Path))
	})
}

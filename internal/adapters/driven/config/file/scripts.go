package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vibecraft/cadbook/internal/core/ports/driven"
)

// Ensure ScriptStore implements the interface.
var _ driven.ScriptStore = (*ScriptStore)(nil)

// ScriptStore loads engine scripts from user-editable files on disk.
// Scripts are loaded from a configurable directory with fallback to the
// built-in defaults passed at construction.
//
// The store initialises lazily: the directory and default files are only
// written on the first Load.
type ScriptStore struct {
	mu        sync.RWMutex
	scriptDir string
	defaults  map[string][]byte
	cache     map[string][]byte
	initOnce  sync.Once
	initErr   error
}

// NewScriptStore creates a new file-based script store.
// If scriptDir is empty, defaults to ~/.cadbook/scripts/.
func NewScriptStore(scriptDir string, defaults map[string][]byte) (*ScriptStore, error) {
	if scriptDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		scriptDir = filepath.Join(dir, "scripts")
	}

	copied := make(map[string][]byte, len(defaults))
	for name, content := range defaults {
		copied[name] = append([]byte(nil), content...)
	}

	return &ScriptStore{
		scriptDir: scriptDir,
		defaults:  copied,
		cache:     make(map[string][]byte),
	}, nil
}

// Load returns the script for the given name, preferring the copy on disk.
func (s *ScriptStore) Load(name string) ([]byte, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if script, ok := s.defaults[name]; ok {
			return script, nil
		}
		return nil, fmt.Errorf("script store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if script, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return script, nil
	}
	s.mu.RUnlock()

	script, err := os.ReadFile(filepath.Join(s.scriptDir, name))
	if err != nil || len(strings.TrimSpace(string(script))) == 0 {
		if fallback, ok := s.defaults[name]; ok {
			return fallback, nil
		}
		if err == nil {
			err = fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("load script %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		script = cached
	} else {
		s.cache[name] = script
	}
	s.mu.Unlock()

	return script, nil
}

// Reload clears the script cache, forcing fresh loads from disk.
func (s *ScriptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()
}

// Dir returns the script directory path.
func (s *ScriptStore) Dir() string {
	return s.scriptDir
}

// initialise creates the script directory and writes any missing defaults.
func (s *ScriptStore) initialise() {
	if err := os.MkdirAll(s.scriptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create script directory: %w", err)
		return
	}

	names := make([]string, 0, len(s.defaults))
	for name := range s.defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(s.scriptDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, s.defaults[name], 0600); err != nil {
				s.initErr = fmt.Errorf("create default script %q: %w", name, err)
				return
			}
		}
	}
}

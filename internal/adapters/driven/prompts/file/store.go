// Package file provides a prompt store with compiled-in defaults and
// per-prompt file overrides.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
	"github.com/Arlieeee/StudyBuddy-AI/internal/logger"
)

// PromptStore serves prompt templates. Each prompt has a compiled-in
// default; dropping a <name>.txt file into the prompts directory
// overrides it. Overrides are cached and the cache is invalidated when
// the directory changes on disk.
type PromptStore struct {
	mu      sync.RWMutex
	dir     string
	cache   map[string]string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

var _ driven.PromptStore = (*PromptStore)(nil)

// NewPromptStore creates a store reading overrides from dir. If dir is
// empty, defaults to ~/.studybuddy/prompts. The directory is created
// so users can discover where overrides go.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".studybuddy", "prompts")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create prompts directory: %w", err)
	}

	s := &PromptStore{
		dir:   dir,
		cache: make(map[string]string),
		done:  make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// Editing a prompt then requires a restart, nothing worse.
		logger.Warn("prompt file watching disabled: %v", err)
		return s, nil
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		logger.Warn("prompt file watching disabled: %v", err)
		return s, nil
	}
	s.watcher = watcher
	go s.watch()
	return s, nil
}

// Load returns the prompt template for the given name. Overrides on
// disk win over compiled-in defaults.
func (s *PromptStore) Load(name string) (string, error) {
	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	prompt, err := s.load(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[name] = prompt
	s.mu.Unlock()
	return prompt, nil
}

// Reload clears the cache, forcing fresh loads on next access.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Close stops the file watcher.
func (s *PromptStore) Close() error {
	close(s.done)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Dir returns the directory consulted for overrides.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) load(name string) (string, error) {
	path := filepath.Join(s.dir, name+".txt")
	data, err := os.ReadFile(path)
	if err == nil {
		prompt := strings.TrimSpace(string(data))
		if prompt != "" {
			return prompt, nil
		}
		// Empty override falls through to the default.
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read prompt %s: %w", name, err)
	}

	prompt, ok := defaultPrompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return prompt, nil
}

func (s *PromptStore) watch() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".txt") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("prompt file changed: %s", filepath.Base(event.Name))
				s.Reload()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("prompt watcher error: %v", err)
		case <-s.done:
			return
		}
	}
}

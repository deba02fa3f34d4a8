package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rrrconstruction/portfolio/internal/infrastructure/config"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/logger"
)

// Document file names inside the data directory.
const (
	ProjectsFile     = "projects.json"
	TestimonialsFile = "testimonials.json"
	MessagesFile     = "messages.json"
	AdminFile        = "admin.json"
)

// Store owns the data directory holding one JSON document per collection
// plus the admin singleton. Every document has its own mutex so a
// load-mutate-save cycle on one file is never interleaved with another.
type Store struct {
	dir    string
	logger *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates the data directory if needed and returns a store rooted there
func New(cfg config.StorageConfig, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", cfg.DataDir, err)
	}

	return &Store{
		dir:    cfg.DataDir,
		logger: log.WithComponent("store"),
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

// Dir returns the data directory
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path of a document
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Lock returns the mutex guarding the named document
func (s *Store) Lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// Ping checks that the data directory is reachable
func (s *Store) Ping() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", s.dir)
	}
	return nil
}

// HealthCheck checks that the data directory accepts writes
func (s *Store) HealthCheck() error {
	if err := s.Ping(); err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}

	f, err := os.CreateTemp(s.dir, ".health-*")
	if err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	name := f.Name()
	f.Close()
	_ = os.Remove(name)

	return nil
}

// GetStorageInfo returns per-document size information
func (s *Store) GetStorageInfo() map[string]interface{} {
	info := map[string]interface{}{
		"data_dir": s.dir,
	}

	for _, name := range []string{ProjectsFile, TestimonialsFile, MessagesFile, AdminFile} {
		st, err := os.Stat(s.Path(name))
		if err != nil {
			info[name] = map[string]interface{}{"exists": false}
			continue
		}
		info[name] = map[string]interface{}{
			"exists":     true,
			"size_bytes": st.Size(),
			"modified":   st.ModTime().UTC(),
		}
	}

	return info
}

// LoadFile decodes the document at path. A missing file yields def with a
// nil error; unreadable or invalid content yields def with the cause.
func LoadFile[T any](path string, def T) (T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return def, nil
		}
		return def, fmt.Errorf("read %s: %w", path, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return def, fmt.Errorf("decode %s: %w", path, err)
	}

	return v, nil
}

// SaveFile encodes v with four-space indentation and replaces the document
// at path. The content goes to a temp file first and is renamed into place.
func SaveFile[T any](path string, v T) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}

// Read loads the named document, substituting def when the file is missing
// or corrupt. Corruption is logged, never returned.
func Read[T any](s *Store, name string, def T) T {
	v, err := LoadFile(s.Path(name), def)
	if err != nil {
		s.logger.LogStorageOperation("load", s.Path(name), err)
	}
	return v
}

// Write replaces the named document
func Write[T any](s *Store, name string, v T) error {
	err := SaveFile(s.Path(name), v)
	s.logger.LogStorageOperation("save", s.Path(name), err)
	return err
}

// Transact runs one read-modify-write cycle on the named document while
// holding its lock. When fn returns an error nothing is written.
func Transact[T any](ctx context.Context, s *Store, name string, def T, fn func(T) (T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l := s.Lock(name)
	l.Lock()
	defer l.Unlock()

	current := Read(s, name, def)

	next, err := fn(current)
	if err != nil {
		return err
	}

	return Write(s, name, next)
}

// View reads the named document under its lock
func View[T any](ctx context.Context, s *Store, name string, def T) (T, error) {
	if err := ctx.Err(); err != nil {
		return def, err
	}

	l := s.Lock(name)
	l.Lock()
	defer l.Unlock()

	return Read(s, name, def), nil
}

package dataaccess

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/Jacobbrewer1/invoicer/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/Jacobbrewer1/invoicer/pkg/logging"
)

const fileStoreName = "file_store"

// FileStore keeps the guild configuration document as an indented JSON file keyed by guild ID.
type FileStore struct {
	// l is the logger.
	l *slog.Logger

	// path is the location of the document.
	path string

	mu sync.Mutex
}

// NewFileStore creates a new file store at path.
func NewFileStore(l *slog.Logger, path string) *FileStore {
	return &FileStore{
		l:    l.With(slog.String(logging.KeyDal, fileStoreName)),
		path: path,
	}
}

// Load reads the document. A missing file is returned as an error wrapping os.ErrNotExist.
func (f *FileStore) Load(_ context.Context) (guilds map[string]entities.GuildConfig, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() { countFileOperation("load", err) }()

	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", f.path, err)
	}

	guilds = make(map[string]entities.GuildConfig)
	if err := json.Unmarshal(b, &guilds); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", f.path, err)
	}
	return guilds, nil
}

// Save replaces the document. The file is written to a temporary file first and renamed into place.
func (f *FileStore) Save(_ context.Context, guilds map[string]entities.GuildConfig) (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() { countFileOperation("save", err) }()

	if guilds == nil {
		guilds = map[string]entities.GuildConfig{}
	}

	b, err := json.MarshalIndent(guilds, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding guild configuration: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name()) // No-op once renamed.

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("error replacing %s: %w", f.path, err)
	}

	f.l.Debug("Guild configuration saved", slog.Int("guilds", len(guilds)))
	return nil
}

// Ping checks that the directory holding the document is accessible.
func (f *FileStore) Ping(_ context.Context) error {
	dir := filepath.Dir(f.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("error accessing %s: %w", dir, err)
	}
	return nil
}

func countFileOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	monitoring.FileStoreOperations.WithLabelValues(operation, result).Inc()
}

package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/sqlite-ext-bundle/internal/domain/extension"
)

// Store defines persistence operations for the extension manifest.
type Store interface {
	Load(ctx context.Context) (*extension.Manifest, error)
	Save(ctx context.Context, m *extension.Manifest) error
}

// FileStore persists the manifest to a JSON file on disk.
// Writes go through a temporary file in the same directory followed by a
// rename, so an interrupted process never leaves a half-written manifest.
type FileStore struct {
	// path is the filesystem location of the manifest file.
	path string
	// mu protects concurrent access to the manifest file.
	mu sync.Mutex
}

// ErrCorruptManifest is returned when the manifest file exists but cannot be
// parsed or does not match the documented schema.
var ErrCorruptManifest = errors.New("corrupt manifest")

// manifestFilePermissions is the permission mode for the manifest file.
const manifestFilePermissions = 0o644

// NewFileStore creates a store that reads/writes JSON at the provided path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: filepath.Clean(path),
	}
}

// Load reads the manifest from disk. If the file does not exist yet, a
// default manifest covering every known extension with no hashes is
// synthesized, persisted and returned.
func (s *FileStore) Load(_ context.Context) (*extension.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			defaultManifest := extension.NewDefault()
			if err = s.saveLocked(defaultManifest); err != nil {
				return nil, fmt.Errorf("persist default manifest: %w", err)
			}

			return defaultManifest, nil
		}

		return nil, fmt.Errorf("read manifest file: %w", err)
	}

	var m extension.Manifest
	if err = json.Unmarshal(contents, &m); err != nil {
		return nil, fmt.Errorf("decode manifest file: %s: %w", err, ErrCorruptManifest)
	}

	if err = m.Validate(); err != nil {
		return nil, fmt.Errorf("validate manifest: %s: %w", err, ErrCorruptManifest)
	}

	return &m, nil
}

// Save writes the manifest to disk atomically.
func (s *FileStore) Save(_ context.Context, m *extension.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveLocked(m)
}

// saveLocked performs the write-to-temp-then-rename sequence.
// Callers must hold s.mu.
func (s *FileStore) saveLocked(m *extension.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	directory := filepath.Dir(s.path)
	if err = os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	temporaryFile, err := os.CreateTemp(directory, filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temporary manifest: %w", err)
	}

	temporaryName := temporaryFile.Name()

	if err = writeAndClose(temporaryFile, data); err != nil {
		_ = os.Remove(temporaryName)

		return err
	}

	if err = os.Chmod(temporaryName, manifestFilePermissions); err != nil {
		_ = os.Remove(temporaryName)

		return fmt.Errorf("set manifest permissions: %w", err)
	}

	if err = os.Rename(temporaryName, s.path); err != nil {
		_ = os.Remove(temporaryName)

		return fmt.Errorf("replace manifest file: %w", err)
	}

	return nil
}

// writeAndClose writes data to the file, syncs it to stable storage and closes it.
func writeAndClose(file *os.File, data []byte) error {
	if _, err := file.Write(data); err != nil {
		_ = file.Close()

		return fmt.Errorf("write temporary manifest: %w", err)
	}

	if err := file.Sync(); err != nil {
		_ = file.Close()

		return fmt.Errorf("sync temporary manifest: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close temporary manifest: %w", err)
	}

	return nil
}

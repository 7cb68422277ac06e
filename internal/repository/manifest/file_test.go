package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/sqlite-ext-bundle/internal/domain/extension"
	"github.com/oshokin/sqlite-ext-bundle/internal/platform"
)

// TestFileStore_Load_SynthesizesDefault verifies a missing file yields the
// default manifest, persists it, and that a second load is stable.
func TestFileStore_Load_SynthesizesDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.json")
	store := NewFileStore(path)

	m, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, m.Extensions, len(extension.All()))

	for _, id := range extension.All() {
		for _, key := range platform.AllKeys() {
			require.False(t, m.Record(id).Variant(key).Available())
		}
	}

	firstContents, err := os.ReadFile(path)
	require.NoError(t, err)

	// A subsequent load reads the persisted file back unchanged.
	again, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, m, again)

	secondContents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, firstContents, secondContents)
}

// TestFileStore_SaveLoad_Roundtrip ensures Save followed by Load returns the
// same manifest.
func TestFileStore_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.json")
	store := NewFileStore(path)

	want := extension.NewDefault()
	digest := "0b7f849446d3383546d15a480966084442cd2193ae9fd9cbb8e78d96a2c9c9ab"
	want.Record(extension.FTS5).Platforms[platform.LinuxX86].SHA256 = &digest

	require.NoError(t, store.Save(context.Background(), want))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// TestFileStore_Load_CorruptJSON verifies truncated JSON raises
// ErrCorruptManifest instead of silently returning a default manifest.
func TestFileStore_Load_CorruptJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"format_version":"1.0","ext`), 0o644))

	m, err := NewFileStore(path).Load(context.Background())
	require.ErrorIs(t, err, ErrCorruptManifest)
	require.Nil(t, m)
}

// TestFileStore_Load_MissingKeys verifies a parseable file that does not
// match the schema shape is rejected.
func TestFileStore_Load_MissingKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"extensions":{}}`), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	require.ErrorIs(t, err, ErrCorruptManifest)

	// A record without a name is also a schema violation.
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"format_version":"1.0","extensions":{"fts5":{}}}`), 0o644))

	_, err = NewFileStore(path).Load(context.Background())
	require.ErrorIs(t, err, ErrCorruptManifest)
}

// TestFileStore_Save_LeavesNoTemporaryFiles ensures the temp-then-rename
// sequence cleans up after itself.
func TestFileStore_Save_LeavesNoTemporaryFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "manifest.json"))

	require.NoError(t, store.Save(context.Background(), extension.NewDefault()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "manifest.json", entries[0].Name())
}

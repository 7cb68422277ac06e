package extension

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/sqlite-ext-bundle/internal/platform"
)

// TestNewDefault ensures the synthesized manifest covers the whole catalog
// with every platform variant present and nothing bundled.
func TestNewDefault(t *testing.T) {
	t.Parallel()

	m := NewDefault()
	require.Equal(t, FormatVersion, m.FormatVersion)
	require.Len(t, m.Extensions, len(All()))

	for _, id := range All() {
		record := m.Record(id)
		require.NotNil(t, record)
		require.Equal(t, string(id), record.Name)
		require.Equal(t, DefaultSQLiteMinVersion, record.SQLiteMinVersion)
		require.Equal(t, []string{DefaultEntryPoint(id)}, record.EntryPoints)
		require.Len(t, record.Platforms, len(platform.AllKeys()))

		for _, key := range platform.AllKeys() {
			variant := record.Variant(key)
			require.NotNil(t, variant)
			require.False(t, variant.Available())
		}
	}
}

// TestVariantAvailable covers the nil, empty and populated digest cases.
func TestVariantAvailable(t *testing.T) {
	t.Parallel()

	var variant *VariantRecord
	require.False(t, variant.Available())

	variant = &VariantRecord{}
	require.False(t, variant.Available())

	empty := ""
	variant.SHA256 = &empty
	require.False(t, variant.Available())

	digest := "ab"
	variant.SHA256 = &digest
	require.True(t, variant.Available())
}

// TestResolveInfo verifies resolution against availability and unknown ids.
func TestResolveInfo(t *testing.T) {
	t.Parallel()

	m := NewDefault()

	// Nothing is bundled by default.
	require.Nil(t, m.ResolveInfo(FTS5, platform.LinuxX86))

	// Unknown extension.
	require.Nil(t, m.ResolveInfo(ID("bogus"), platform.LinuxX86))

	digest := "deadbeef"
	m.Record(FTS5).Platforms[platform.LinuxX86].SHA256 = &digest

	info := m.ResolveInfo(FTS5, platform.LinuxX86)
	require.NotNil(t, info)
	require.Equal(t, FTS5, info.ID)
	require.Equal(t, platform.LinuxX86, info.Platform)
	require.Equal(t, digest, *info.Variant.SHA256)

	// Other platforms stay unavailable.
	require.Nil(t, m.ResolveInfo(FTS5, platform.WinX64))
}

// TestManifestValidate rejects manifests missing required keys.
func TestManifestValidate(t *testing.T) {
	t.Parallel()

	m := &Manifest{}
	require.Error(t, m.Validate())

	m.FormatVersion = FormatVersion
	require.Error(t, m.Validate())

	m.Extensions = map[ID]*Record{FTS5: nil}
	require.Error(t, m.Validate())

	m.Extensions = map[ID]*Record{FTS5: {Name: "fts5"}}
	require.NoError(t, m.Validate())
}

// TestKnown checks catalog membership.
func TestKnown(t *testing.T) {
	t.Parallel()

	for _, id := range All() {
		require.True(t, Known(id))
	}

	require.False(t, Known(ID("bogus")))
}

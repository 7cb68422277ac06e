package bundler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/sqlite-ext-bundle/internal/config"
	"github.com/oshokin/sqlite-ext-bundle/internal/domain/extension"
	"github.com/oshokin/sqlite-ext-bundle/internal/platform"
	"github.com/oshokin/sqlite-ext-bundle/internal/repository/manifest"
)

// digestAAAA is the SHA-256 hex digest of the literal content "AAAA".
const digestAAAA = "63c1dd951ffedf6f7fd968ad4efa39b8ed584f162f46e715114ee184f8de9201"

// newTestBundler wires a bundler against a temp directory layout with a
// fixed platform, bypassing host detection.
func newTestBundler(t *testing.T, opts *Options) (*bundler, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		ExtensionsDir:    t.TempDir(),
		ManifestFilename: config.DefaultManifestFilename,
		LogLevel:         config.DefaultLogLevel,
	}

	store := manifest.NewFileStore(cfg.ManifestPath())

	m, err := store.Load(context.Background())
	require.NoError(t, err)

	return &bundler{
		cfg:   cfg,
		store: store,
		provider: &platform.Provider{
			System:         "linux",
			Arch:           "amd64",
			Key:            platform.LinuxX86,
			SuffixBySystem: platform.DefaultSuffixBySystem(),
		},
		m:    m,
		opts: opts,
	}, cfg
}

// TestRun_HashesStagedBundles verifies digests are recorded only for staged
// files and carry the provided build metadata.
func TestRun_HashesStagedBundles(t *testing.T) {
	t.Parallel()

	b, cfg := newTestBundler(t, &Options{Version: "1.2.0", Compiler: "zig cc"})

	bundleDir := cfg.BundleDir(string(platform.LinuxX86))
	require.NoError(t, os.MkdirAll(bundleDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bundleDir, "fts5.so"), []byte("AAAA"), 0o755))

	require.NoError(t, b.Run(context.Background()))

	reloaded, err := manifest.NewFileStore(cfg.ManifestPath()).Load(context.Background())
	require.NoError(t, err)

	variant := reloaded.Record(extension.FTS5).Variant(platform.LinuxX86)
	require.True(t, variant.Available())
	require.Equal(t, digestAAAA, *variant.SHA256)
	require.Equal(t, "1.2.0", variant.Version)
	require.Equal(t, "zig cc", variant.Compiler)
	require.NotEmpty(t, variant.BuildDate)

	// Extensions without a staged bundle stay unavailable.
	require.False(t, reloaded.Record(extension.JSON1).Variant(platform.LinuxX86).Available())

	// Other platforms are untouched.
	require.False(t, reloaded.Record(extension.FTS5).Variant(platform.WinX64).Available())
}

// TestRun_ClearsDigestForRemovedBundle ensures the manifest never claims
// availability after the staged file disappears.
func TestRun_ClearsDigestForRemovedBundle(t *testing.T) {
	t.Parallel()

	b, cfg := newTestBundler(t, &Options{})

	bundleDir := cfg.BundleDir(string(platform.LinuxX86))
	require.NoError(t, os.MkdirAll(bundleDir, 0o755))

	staged := filepath.Join(bundleDir, "fts5.so")
	require.NoError(t, os.WriteFile(staged, []byte("AAAA"), 0o755))
	require.NoError(t, b.Run(context.Background()))
	require.True(t, b.m.Record(extension.FTS5).Variant(platform.LinuxX86).Available())

	require.NoError(t, os.Remove(staged))
	require.NoError(t, b.Run(context.Background()))
	require.False(t, b.m.Record(extension.FTS5).Variant(platform.LinuxX86).Available())
}

// TestRun_NoStagedBundles leaves the default manifest untouched.
func TestRun_NoStagedBundles(t *testing.T) {
	t.Parallel()

	b, cfg := newTestBundler(t, &Options{})

	require.NoError(t, b.Run(context.Background()))

	reloaded, err := manifest.NewFileStore(cfg.ManifestPath()).Load(context.Background())
	require.NoError(t, err)

	for _, id := range extension.All() {
		require.False(t, reloaded.Record(id).Variant(platform.LinuxX86).Available())
	}
}

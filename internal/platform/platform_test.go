package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestKeyFor covers the supported OS/arch pairs and the unsupported fallback.
func TestKeyFor(t *testing.T) {
	t.Parallel()

	cases := map[[2]string]Key{
		{"windows", "amd64"}: WinX64,
		{"linux", "amd64"}:   LinuxX86,
		{"linux", "386"}:     LinuxX86,
		{"linux", "arm64"}:   LinuxARM64,
		{"darwin", "amd64"}:  MacOSX86,
		{"darwin", "arm64"}:  MacOSARM64,
	}
	for pair, want := range cases {
		got, err := keyFor(pair[0], pair[1])
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := keyFor("plan9", "amd64")
	require.ErrorIs(t, err, ErrUnsupportedPlatform)

	_, err = keyFor("windows", "arm")
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
}

// TestProviderSuffix verifies suffix resolution and library file naming.
func TestProviderSuffix(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"windows": ".dll",
		"linux":   ".so",
		"darwin":  ".dylib",
	}
	for system, suffix := range cases {
		p := &Provider{
			System:         system,
			SuffixBySystem: DefaultSuffixBySystem(),
		}
		require.Equal(t, suffix, p.Suffix())
		require.Equal(t, "fts5"+suffix, p.LibraryFilename("fts5"))
	}
}

// TestAllKeys ensures the key set is stable and complete.
func TestAllKeys(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		[]Key{WinX64, LinuxX86, LinuxARM64, MacOSX86, MacOSARM64},
		AllKeys())
}

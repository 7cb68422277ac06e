package platform

import (
	"context"
	"errors"
	"fmt"
)

// Key identifies a supported (OS, architecture) pair.
// Keys double as directory names under the extensions base directory.
type Key string

// Supported platform keys.
const (
	WinX64     Key = "win-x64"
	LinuxX86   Key = "linux-x86"
	LinuxARM64 Key = "linux-arm64"
	MacOSX86   Key = "macos-x86"
	MacOSARM64 Key = "macos-arm64"
)

// ErrUnsupportedPlatform is returned when the host OS/arch pair has no key.
var ErrUnsupportedPlatform = errors.New("platform is not supported")

// AllKeys returns every supported platform key in stable order.
func AllKeys() []Key {
	return []Key{WinX64, LinuxX86, LinuxARM64, MacOSX86, MacOSARM64}
}

// DefaultSuffixBySystem maps an OS name to the shared library suffix used for
// extension binaries on that OS.
func DefaultSuffixBySystem() map[string]string {
	return map[string]string{
		"windows": ".dll",
		"linux":   ".so",
		"darwin":  ".dylib",
	}
}

// Provider supplies everything the installer needs to know about the host:
// the OS, the architecture, the resolved platform key and the shared library
// suffix table. It is constructed once and passed around explicitly.
type Provider struct {
	// System is the host operating system ("linux", "darwin", "windows").
	System string
	// Arch is the normalized architecture ("amd64", "arm64", "386").
	Arch string
	// Key is the resolved platform key for the host.
	Key Key
	// SuffixBySystem maps OS names to shared library suffixes.
	SuffixBySystem map[string]string
}

// Suffix returns the shared library suffix for the provider's OS.
func (p *Provider) Suffix() string {
	return p.SuffixBySystem[p.System]
}

// LibraryFilename returns the file name of an extension binary on this platform.
func (p *Provider) LibraryFilename(extensionName string) string {
	return extensionName + p.Suffix()
}

// Detector resolves the host into a Provider.
type Detector interface {
	Detect(ctx context.Context) (*Provider, error)
}

// keyFor maps an (OS, arch) pair to a platform key.
func keyFor(system, arch string) (Key, error) {
	switch system {
	case "windows":
		if arch == "amd64" {
			return WinX64, nil
		}
	case "linux":
		switch arch {
		case "amd64", "386":
			return LinuxX86, nil
		case "arm64":
			return LinuxARM64, nil
		}
	case "darwin":
		switch arch {
		case "amd64":
			return MacOSX86, nil
		case "arm64":
			return MacOSARM64, nil
		}
	}

	return "", fmt.Errorf("%s/%s: %w", system, arch, ErrUnsupportedPlatform)
}

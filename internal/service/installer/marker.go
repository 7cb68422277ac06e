package installer

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/sqlite-ext-bundle/internal/logger"
)

const (
	// MarkerFilename marks that an install is running right now to avoid
	// two processes writing into the same install directory.
	MarkerFilename = "ext-bundle-install-marker.bin"

	// markerLifetime is the period after which a marker is considered stale.
	markerLifetime = 30 * time.Second

	// installerProcessName is the executable name other install processes
	// run under, used when deciding whether a stale marker can be reclaimed.
	installerProcessName = "ext-bundle"
)

// IsInstallRunningNow checks presence of a marker file and reclaims it when
// it is stale and no other installer process is alive.
func IsInstallRunningNow(ctx context.Context) bool {
	fileInfo, err := os.Stat(MarkerFilename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false
		}

		logger.Infof(ctx, "Unable to read install marker: %v", err)

		return false
	}

	if time.Since(fileInfo.ModTime()) <= markerLifetime {
		return true
	}

	logger.Info(ctx, "The install marker is stale, attempting cleanup")

	if otherInstallerRunning() {
		return true
	}

	if err = os.Remove(MarkerFilename); err != nil {
		return true
	}

	return false
}

// otherInstallerRunning reports whether another installer process is alive.
func otherInstallerRunning() bool {
	processList, err := ps.Processes()
	if err != nil {
		// Without a process list, assume the marker owner is still alive.
		return true
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if strings.HasPrefix(process.Executable(), installerProcessName) {
			return true
		}
	}

	return false
}

// createMarker writes the install marker file.
func createMarker() error {
	marker, err := os.Create(MarkerFilename)
	if err != nil {
		return err
	}

	return marker.Close()
}

// removeMarker deletes the install marker file if present.
func removeMarker() {
	if _, err := os.Stat(MarkerFilename); err == nil {
		_ = os.Remove(MarkerFilename)
	}
}

package platform

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/oshokin/sqlite-ext-bundle/internal/logger"
)

// RealDetector resolves the platform of the machine the process runs on.
type RealDetector struct{}

// NewDetector creates a detector for the current host.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect derives the platform key from runtime.GOOS and runtime.GOARCH and
// logs host details via gopsutil when they are obtainable. Host detail
// failures are not fatal: the key alone is enough to resolve bundles.
func (d *RealDetector) Detect(ctx context.Context) (*Provider, error) {
	key, err := keyFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return nil, err
	}

	if platformName, family, version, hostErr := host.PlatformInformationWithContext(ctx); hostErr == nil {
		logger.DebugKV(ctx, "Detected host platform",
			"platform", platformName, "family", family, "version", version)
	}

	return &Provider{
		System:         runtime.GOOS,
		Arch:           runtime.GOARCH,
		Key:            key,
		SuffixBySystem: DefaultSuffixBySystem(),
	}, nil
}

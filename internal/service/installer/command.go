package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/sqlite-ext-bundle/internal/config"
	"github.com/oshokin/sqlite-ext-bundle/internal/domain/extension"
	"github.com/oshokin/sqlite-ext-bundle/internal/logger"
	"github.com/oshokin/sqlite-ext-bundle/internal/platform"
	"github.com/oshokin/sqlite-ext-bundle/internal/repository/manifest"
)

// errInstallerAlreadyRunning indicates another install is in progress.
var errInstallerAlreadyRunning = errors.New("an install is already running")

// Options are inputs accepted by the installer entry points.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
}

// Run executes the install workflow and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "installer")

	if IsInstallRunningNow(ctx) {
		return errInstallerAlreadyRunning
	}

	if err := createMarker(); err != nil {
		return fmt.Errorf("create install marker: %w", err)
	}

	defer removeMarker()

	inst, cfg, provider, err := build(ctx, opts)
	if err != nil {
		return err
	}

	platformKey := string(provider.Key)

	summary, err := inst.Install(ctx, cfg.BundleDir(platformKey), cfg.InstallDir(platformKey))
	if err != nil {
		logger.ErrorKV(ctx, "Install failed", "error", err)
		return err
	}

	logger.InfoKV(ctx, "Install completed",
		"installed", len(summary.Installed), "skipped", len(summary.Skipped))

	return nil
}

// ListAvailable resolves the extensions installable on the current platform.
func ListAvailable(ctx context.Context, opts *Options) ([]*extension.Info, error) {
	ctx = logger.WithName(ctx, "installer")

	inst, _, _, err := build(ctx, opts)
	if err != nil {
		return nil, err
	}

	return inst.ListAvailable(), nil
}

// VerifyFile checks a file on disk against the manifest digest for the given
// extension on the current platform. An unknown identifier reports false, it
// is not an error.
func VerifyFile(ctx context.Context, opts *Options, id, path string) (bool, error) {
	ctx = logger.WithName(ctx, "installer")

	inst, _, _, err := build(ctx, opts)
	if err != nil {
		return false, err
	}

	return inst.Verify(extension.ID(id), path), nil
}

// build loads settings, detects the platform and loads the manifest,
// returning a ready installer along with the collaborators it was built from.
func build(ctx context.Context, opts *Options) (*Installer, *config.Config, *platform.Provider, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load settings: %w", err)
	}

	provider, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("detect platform: %w", err)
	}

	logger.InfoKV(ctx, "Resolved host platform",
		"key", provider.Key, "system", provider.System, "arch", provider.Arch)

	store := manifest.NewFileStore(cfg.ManifestPath())

	m, err := store.Load(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load manifest: %w", err)
	}

	return New(m, provider), cfg, provider, nil
}

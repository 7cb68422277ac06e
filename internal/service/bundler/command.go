package bundler

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oshokin/sqlite-ext-bundle/internal/config"
	"github.com/oshokin/sqlite-ext-bundle/internal/domain/extension"
	"github.com/oshokin/sqlite-ext-bundle/internal/logger"
	"github.com/oshokin/sqlite-ext-bundle/internal/platform"
	"github.com/oshokin/sqlite-ext-bundle/internal/repository/manifest"
	"github.com/oshokin/sqlite-ext-bundle/internal/service/installer"
)

// Options contains inputs for the bundler entry point.
type Options struct {
	// ConfigPath is an optional path to the settings YAML file.
	ConfigPath string
	// Version is recorded on every variant refreshed in this run.
	// Empty keeps each variant's current version.
	Version string
	// Compiler identifies the toolchain that produced the staged bundles.
	Compiler string
}

// bundler refreshes the manifest from the staged bundle directory.
// It is unexported, callers should use Run.
type bundler struct {
	// cfg holds the directory layout configuration.
	cfg *config.Config
	// store persists the refreshed manifest.
	store manifest.Store
	// provider identifies the platform whose variants are refreshed.
	provider *platform.Provider
	// m is the manifest being refreshed.
	m *extension.Manifest
	// opts carries version and compiler metadata for refreshed variants.
	opts *Options
}

// errInstallRunning indicates a refresh was attempted during an install.
var errInstallRunning = errors.New("an install is running now")

// Run refreshes the current platform's variant digests from the staged
// bundles and saves the manifest. Bundles absent from the staging directory
// get their digest cleared so the manifest never claims availability it
// cannot back with a file.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "bundler")

	if installer.IsInstallRunningNow(ctx) {
		return errInstallRunning
	}

	b, err := newBundler(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize bundler: %w", err)
	}

	if err = b.Run(ctx); err != nil {
		return fmt.Errorf("bundler failed: %w", err)
	}

	logger.Info(ctx, "Manifest refresh completed")

	return nil
}

// newBundler loads settings, platform identity and the manifest.
func newBundler(ctx context.Context, opts *Options) (*bundler, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	provider, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}

	store := manifest.NewFileStore(cfg.ManifestPath())

	m, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	return &bundler{
		cfg:      cfg,
		store:    store,
		provider: provider,
		m:        m,
		opts:     opts,
	}, nil
}

// Run recomputes digests and persists the manifest.
func (b *bundler) Run(ctx context.Context) error {
	logger.InfoKV(ctx, "Refreshing manifest from staged bundles",
		"platform", b.provider.Key, "bundle_dir", b.cfg.BundleDir(string(b.provider.Key)))

	refreshed, err := b.refreshDigests(ctx)
	if err != nil {
		return err
	}

	if err = b.store.Save(ctx, b.m); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}

	b.printNextSteps(ctx, refreshed)

	return nil
}

// refreshDigests hashes every staged bundle for the current platform and
// updates the matching variant records. It returns the refreshed names.
func (b *bundler) refreshDigests(ctx context.Context) ([]string, error) {
	var (
		bundleDir = b.cfg.BundleDir(string(b.provider.Key))
		buildDate = time.Now().UTC().Format(time.RFC3339)
		refreshed []string
	)

	for _, id := range extension.All() {
		record := b.m.Record(id)
		if record == nil {
			continue
		}

		variant := record.Variant(b.provider.Key)
		if variant == nil {
			if record.Platforms == nil {
				record.Platforms = make(map[platform.Key]*extension.VariantRecord, 1)
			}

			variant = &extension.VariantRecord{Version: extension.DefaultVariantVersion}
			record.Platforms[b.provider.Key] = variant
		}

		fileName := b.provider.LibraryFilename(record.Name)
		source := filepath.Join(bundleDir, fileName)

		if _, err := os.Stat(source); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("stat %s: %w", source, err)
			}

			variant.SHA256 = nil

			logger.DebugKV(ctx, "No staged bundle, digest cleared", "extension", id)

			continue
		}

		checksum, err := installer.FileChecksum(source)
		if err != nil {
			return nil, fmt.Errorf("hash %s: %w", source, err)
		}

		digest := hex.EncodeToString(checksum)
		variant.SHA256 = &digest
		variant.BuildDate = buildDate

		if b.opts.Version != "" {
			variant.Version = b.opts.Version
		}

		if b.opts.Compiler != "" {
			variant.Compiler = b.opts.Compiler
		}

		refreshed = append(refreshed, fileName)

		logger.InfoKV(ctx, "Refreshed digest", "extension", id, "file", fileName)
	}

	return refreshed, nil
}

// printNextSteps logs human-readable guidance for using the refreshed manifest.
func (b *bundler) printNextSteps(ctx context.Context, refreshed []string) {
	if len(refreshed) == 0 {
		logger.Infof(ctx, "No bundles staged under %s, nothing was hashed",
			b.cfg.BundleDir(string(b.provider.Key)))

		return
	}

	sort.Strings(refreshed)

	var builder strings.Builder

	builder.WriteString("The manifest now covers the following bundles for ")
	builder.WriteString(string(b.provider.Key))
	builder.WriteString(":\n")

	for i, name := range refreshed {
		if i > 0 {
			builder.WriteString(",\n")
		}

		builder.WriteString(name)
	}

	builder.WriteString("\nRun: ext-bundle install")

	logger.Info(ctx, builder.String())
}

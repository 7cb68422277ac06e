package installer

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/sqlite-ext-bundle/internal/domain/extension"
	"github.com/oshokin/sqlite-ext-bundle/internal/logger"
	"github.com/oshokin/sqlite-ext-bundle/internal/platform"
)

// ErrTargetUnwritable is returned when the install directory cannot be
// created or written. It aborts the whole install call: nothing could be
// installed afterward anyway.
var ErrTargetUnwritable = errors.New("install directory is not writable")

const (
	// defaultDirMode is used when creating the install directory.
	defaultDirMode os.FileMode = 0o755

	// DefaultFileMode is the fallback mode for installed binaries when the
	// source file mode cannot be determined.
	DefaultFileMode os.FileMode = 0o755
)

// Installer selects, verifies and installs extension binaries for one platform.
// All collaborators are passed in explicitly: the manifest is the source of
// truth for expected hashes and the provider supplies platform identity.
type Installer struct {
	// manifest is the loaded extension catalog.
	manifest *extension.Manifest
	// provider identifies the host platform and its library suffix.
	provider *platform.Provider
}

// Summary reports the outcome of an install run.
// Per-extension problems never fail the run, they only move the extension
// into Skipped.
type Summary struct {
	// Installed lists extensions copied into the install directory.
	Installed []extension.ID
	// Skipped lists extensions left out because their bundle was missing or
	// failed verification.
	Skipped []extension.ID
}

// New creates an installer for the provided manifest and platform.
func New(m *extension.Manifest, p *platform.Provider) *Installer {
	return &Installer{
		manifest: m,
		provider: p,
	}
}

// ListAvailable returns the extensions that have a built artifact for the
// installer's platform, sorted by identifier for deterministic output.
func (i *Installer) ListAvailable() []*extension.Info {
	ids := make([]extension.ID, 0, len(i.manifest.Extensions))
	for id := range i.manifest.Extensions {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	available := make([]*extension.Info, 0, len(ids))

	for _, id := range ids {
		if info := i.manifest.ResolveInfo(id, i.provider.Key); info != nil {
			available = append(available, info)
		}
	}

	return available
}

// Verify reports whether the file at path matches the manifest digest for the
// extension on the installer's platform. It never fails: a missing file, an
// unknown extension or an unbundled variant all report false.
func (i *Installer) Verify(id extension.ID, path string) bool {
	info := i.manifest.ResolveInfo(id, i.provider.Key)
	if info == nil {
		return false
	}

	if _, err := os.Stat(path); err != nil {
		return false
	}

	actual, err := FileChecksumHex(path)
	if err != nil {
		return false
	}

	return strings.EqualFold(actual, *info.Variant.SHA256)
}

// Install copies every available, verified extension bundle from bundleDir
// into targetDir. Problems with individual extensions are logged and counted
// in the summary; only an unwritable target directory aborts the call.
func (i *Installer) Install(ctx context.Context, bundleDir, targetDir string) (*Summary, error) {
	if err := os.MkdirAll(targetDir, defaultDirMode); err != nil {
		return nil, fmt.Errorf("create %s: %s: %w", targetDir, err, ErrTargetUnwritable)
	}

	summary := &Summary{}

	for _, info := range i.ListAvailable() {
		fileName := i.provider.LibraryFilename(info.Name)
		source := filepath.Join(bundleDir, fileName)

		if _, err := os.Stat(source); err != nil {
			logger.WarnKV(ctx, "Bundle is missing, skipping extension",
				"extension", info.ID, "path", source)

			summary.Skipped = append(summary.Skipped, info.ID)

			continue
		}

		if !i.Verify(info.ID, source) {
			logger.WarnKV(ctx, "Bundle integrity mismatch, skipping extension",
				"extension", info.ID, "path", source)

			summary.Skipped = append(summary.Skipped, info.ID)

			continue
		}

		if err := i.installOne(info, source, filepath.Join(targetDir, fileName)); err != nil {
			logger.WarnKV(ctx, "Could not install extension, skipping",
				"extension", info.ID, "error", err)

			summary.Skipped = append(summary.Skipped, info.ID)

			continue
		}

		logger.InfoKV(ctx, "Installed extension",
			"extension", info.ID, "version", info.Variant.Version, "path", filepath.Join(targetDir, fileName))

		summary.Installed = append(summary.Installed, info.ID)
	}

	return summary, nil
}

// installOne applies a verified bundle onto the target path.
// The write is checksum-gated and goes through a temporary file followed by a
// rename, so a concurrent reader never observes a partially-written binary.
func (i *Installer) installOne(info *extension.Info, source, target string) error {
	data, err := os.ReadFile(filepath.Clean(source))
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}

	checksum, err := hex.DecodeString(*info.Variant.SHA256)
	if err != nil {
		return fmt.Errorf("decode manifest digest: %w", err)
	}

	targetMode := DefaultFileMode

	sourceInfo, err := os.Stat(source)
	if err == nil {
		targetMode = sourceInfo.Mode().Perm()
	}

	if _, err = os.Stat(target); err != nil && errors.Is(err, os.ErrNotExist) {
		var created *os.File

		if created, err = os.Create(filepath.Clean(target)); err != nil {
			return fmt.Errorf("create target: %w", err)
		}

		if err = created.Close(); err != nil {
			return fmt.Errorf("close target: %w", err)
		}
	}

	options := goupdate.Options{
		TargetPath: target,
		TargetMode: targetMode,
		Checksum:   checksum,
		Hash:       DefaultChecksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("apply bundle: %w", err)
	}

	// go-update keeps the previous binary around; remove the leftover.
	oldTarget := target + ".old"
	if _, err = os.Stat(oldTarget); err == nil {
		_ = os.Remove(oldTarget)
	}

	if sourceInfo != nil {
		_ = os.Chtimes(target, sourceInfo.ModTime(), sourceInfo.ModTime())
	}

	return nil
}

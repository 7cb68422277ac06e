package extension

import (
	"errors"
	"fmt"

	"github.com/oshokin/sqlite-ext-bundle/internal/platform"
)

const (
	// FormatVersion is the manifest schema version written by this tool.
	FormatVersion = "1.0"

	// DefaultSQLiteMinVersion is the engine version assumed for new records.
	DefaultSQLiteMinVersion = "3.38.0"

	// DefaultVariantVersion is the version assumed for not-yet-built variants.
	DefaultVariantVersion = "1.0.0"
)

var (
	// errNoFormatVersion indicates a manifest without a schema version tag.
	errNoFormatVersion = errors.New("missing format_version")
	// errNoExtensions indicates a manifest without an extensions mapping.
	errNoExtensions = errors.New("missing extensions mapping")
	// errNoRecordName indicates a record without a name.
	errNoRecordName = errors.New("extension record has no name")
)

// VariantRecord describes one (extension, platform) build artifact.
type VariantRecord struct {
	// Version is the semantic version of the built artifact.
	Version string `json:"version"`
	// SHA256 is the hex digest of the artifact contents.
	// Nil means the extension has not been bundled for this platform yet.
	SHA256 *string `json:"sha256"`
	// BuildDate is when the artifact was built, if known.
	BuildDate string `json:"build_date,omitempty"`
	// Compiler identifies the toolchain that produced the artifact.
	Compiler string `json:"compiler,omitempty"`
}

// Available reports whether an artifact actually exists for this variant.
func (v *VariantRecord) Available() bool {
	return v != nil && v.SHA256 != nil && *v.SHA256 != ""
}

// Record is the per-extension manifest entry.
type Record struct {
	// Name is the base file name of the extension binary, without suffix.
	Name string `json:"name"`
	// Platforms maps platform keys to variant metadata.
	Platforms map[platform.Key]*VariantRecord `json:"platforms"`
	// Dependencies lists extensions that must be installed alongside this one.
	Dependencies []ID `json:"dependencies"`
	// SQLiteMinVersion is the minimum compatible engine version.
	SQLiteMinVersion string `json:"sqlite_min_version"`
	// EntryPoints lists callable init symbols exported by the binary.
	EntryPoints []string `json:"entry_points"`
}

// Variant returns the variant metadata for a platform, or nil if absent.
func (r *Record) Variant(key platform.Key) *VariantRecord {
	if r == nil {
		return nil
	}

	return r.Platforms[key]
}

// Manifest is the persisted catalog of known extensions and their expected
// per-platform integrity hashes. It is the sole source of truth for what
// extensions exist and what their hashes should be.
type Manifest struct {
	// FormatVersion tags the manifest schema.
	FormatVersion string `json:"format_version"`
	// Extensions maps extension identifiers to their records.
	Extensions map[ID]*Record `json:"extensions"`
}

// NewDefault synthesizes a manifest covering every known extension with all
// platform variants present and no hashes, meaning nothing is bundled yet.
func NewDefault() *Manifest {
	extensions := make(map[ID]*Record, len(All()))

	for _, id := range All() {
		platforms := make(map[platform.Key]*VariantRecord, len(platform.AllKeys()))
		for _, key := range platform.AllKeys() {
			platforms[key] = &VariantRecord{
				Version: DefaultVariantVersion,
				SHA256:  nil,
			}
		}

		extensions[id] = &Record{
			Name:             string(id),
			Platforms:        platforms,
			Dependencies:     []ID{},
			SQLiteMinVersion: DefaultSQLiteMinVersion,
			EntryPoints:      []string{DefaultEntryPoint(id)},
		}
	}

	return &Manifest{
		FormatVersion: FormatVersion,
		Extensions:    extensions,
	}
}

// Record returns the record for an extension, or nil if unknown.
func (m *Manifest) Record(id ID) *Record {
	if m == nil {
		return nil
	}

	return m.Extensions[id]
}

// Validate checks that the manifest matches the documented schema shape.
func (m *Manifest) Validate() error {
	if m.FormatVersion == "" {
		return errNoFormatVersion
	}

	if m.Extensions == nil {
		return errNoExtensions
	}

	for id, record := range m.Extensions {
		if record == nil || record.Name == "" {
			return fmt.Errorf("%s: %w", id, errNoRecordName)
		}
	}

	return nil
}

// Info is a resolved, read-only view of an extension on one platform.
// It combines the record with its platform-specific variant and is returned
// to callers, never persisted.
type Info struct {
	// ID is the extension identifier.
	ID ID
	// Name is the base file name of the extension binary, without suffix.
	Name string
	// Platform is the key the variant was resolved for.
	Platform platform.Key
	// Dependencies lists extensions required alongside this one.
	Dependencies []ID
	// SQLiteMinVersion is the minimum compatible engine version.
	SQLiteMinVersion string
	// EntryPoints lists callable init symbols exported by the binary.
	EntryPoints []string
	// Variant is the platform-specific metadata, copied to avoid leaking
	// manifest internals.
	Variant VariantRecord
}

// ResolveInfo builds the read-only view for an extension on a platform.
// It returns nil when the variant is absent or not available.
func (m *Manifest) ResolveInfo(id ID, key platform.Key) *Info {
	record := m.Record(id)

	variant := record.Variant(key)
	if !variant.Available() {
		return nil
	}

	return &Info{
		ID:               id,
		Name:             record.Name,
		Platform:         key,
		Dependencies:     append([]ID(nil), record.Dependencies...),
		SQLiteMinVersion: record.SQLiteMinVersion,
		EntryPoints:      append([]string(nil), record.EntryPoints...),
		Variant:          *variant,
	}
}

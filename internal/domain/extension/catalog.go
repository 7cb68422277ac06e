package extension

// ID names a known extension capability.
// The catalog is closed: adding an extension means adding a constant here and
// listing it in All, not defining new types elsewhere.
type ID string

// Known extension identifiers.
const (
	// FTS5 provides full-text search virtual tables.
	FTS5 ID = "fts5"
	// JSON1 provides JSON functions and operators.
	JSON1 ID = "json1"
	// RTree provides spatial index virtual tables.
	RTree ID = "rtree"
	// Zstd provides transparent page compression.
	Zstd ID = "zstd"
)

// All returns every known extension identifier in stable order.
func All() []ID {
	return []ID{FTS5, JSON1, RTree, Zstd}
}

// Known reports whether the identifier belongs to the catalog.
func Known(id ID) bool {
	for _, known := range All() {
		if id == known {
			return true
		}
	}

	return false
}

// DefaultEntryPoint returns the conventional init symbol for an extension.
func DefaultEntryPoint(id ID) string {
	return "sqlite3_" + string(id) + "_init"
}

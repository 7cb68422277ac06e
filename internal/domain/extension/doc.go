// Package extension contains core domain types for the extension catalog.
//
// It defines the closed set of extension identifiers, the Manifest persisted
// as JSON, per-extension Records with per-platform VariantRecords, and the
// resolved Info view handed to callers.
package extension

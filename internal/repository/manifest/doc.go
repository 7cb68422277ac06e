// Package manifest persists the extension catalog as a JSON file.
//
// Load synthesizes and saves a default manifest when the file is missing and
// fails with ErrCorruptManifest when it exists but does not match the schema.
// Save always goes through write-to-temp-then-rename so a crash cannot leave
// a half-written manifest behind.
package manifest

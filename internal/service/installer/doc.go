// Package installer selects, verifies and installs extension binaries.
//
// It resolves the extensions available for the host platform from the
// manifest, verifies each staged bundle against its stored SHA-256 digest and
// applies verified binaries into the install directory atomically. Failures
// are isolated per extension: a missing or tampered bundle is skipped with a
// warning while the rest of the run proceeds.
package installer

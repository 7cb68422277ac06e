// Package bundler refreshes the manifest from staged bundle binaries.
//
// For the current platform it hashes every bundle present in the staging
// directory, records the digests with build metadata, clears digests for
// bundles that are no longer staged, and saves the manifest atomically.
package bundler

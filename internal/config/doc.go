// Package config defines filesystem and logging settings used by binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the extensions base directory layout; path helpers
// derive the manifest, bundle staging and install locations from it so no
// component hardcodes a process-wide default path.
package config

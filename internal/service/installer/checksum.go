package installer

import (
	"crypto"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Ensure SHA256 is available for checksum calculation.
	_ "crypto/sha256"
)

var errHashUnavailable = errors.New("hash function unavailable")

// DefaultChecksumFunction is used to verify extension binaries.
// The manifest stores digests of this function in hex form.
const DefaultChecksumFunction crypto.Hash = crypto.SHA256

// FileChecksum returns checksum bytes for a file using DefaultChecksumFunction.
func FileChecksum(path string) ([]byte, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	if !DefaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultChecksumFunction.New()
	if _, err = hasher.Write(contents); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}

// FileChecksumHex returns the hex digest of a file using DefaultChecksumFunction.
func FileChecksumHex(path string) (string, error) {
	checksum, err := FileChecksum(path)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(checksum), nil
}

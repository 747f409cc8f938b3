// Package imageid derives a stable identifier from an image's path. The ID
// names sidecar result files, so it must be deterministic and filename-safe.
package imageid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// ImageID returns a stable hex identifier for the given path. The path is
// cleaned first, so spelling variants of the same location agree.
func ImageID(path string) string {
	normalized := filepath.Clean(path)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// SidecarName returns the sidecar file name for the given source path.
func SidecarName(path string) string {
	return ImageID(path) + ".json"
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKey builds the cache key for a rendered artifact: the dataset
// hash plus a fingerprint of everything that changes the output.
func ArtifactKey(datasetHash, format string, fingerprint any) string {
	fp, _ := json.Marshal(fingerprint)
	return fmt.Sprintf("artifact:%s:%s:%s", format, datasetHash, Hash(fp))
}

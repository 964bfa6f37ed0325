// Package checksum computes and verifies SHA-1/SHA-256 content hashes, used
// both by the fetcher's optional verification hook and by connectors that
// expose a HasFileWithChecksum check.
package checksum

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// BytesSHA1 returns the lowercase hex SHA-1 digest of data.
func BytesSHA1(data []byte) string {
	h := sha1.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// BytesSHA256 returns the lowercase hex SHA-256 digest of data.
func BytesSHA256(data []byte) string {
	h := sha256.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FileSHA1 streams path through SHA-1 without loading it entirely into memory.
func FileSHA1(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FileSHA256 streams path through SHA-256 without loading it entirely into memory.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Package fetch holds the SHA-1 verification helpers the bootstrap engine
// uses for its optional checksum-gated recheck. Actual transport lives on
// the connector.Connector the engine is configured with.
package fetch

import (
	"github.com/sammwy/mcbootstrap-go/pkg/checksum"
)

// SHA1 streams path through SHA-1 and returns the lowercase hex digest.
func SHA1(path string) (string, error) {
	return checksum.FileSHA1(path)
}

// VerifySHA1 reports whether the file at path exists and matches want. An
// empty want always passes without reading the file.
func VerifySHA1(path, want string) bool {
	if want == "" {
		return true
	}
	got, err := checksum.FileSHA1(path)
	if err != nil {
		return false
	}
	return got == want
}

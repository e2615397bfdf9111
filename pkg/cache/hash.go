package cache

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// hashKey builds a "prefix:hash" key over the NUL-separated parts.
func hashKey(prefix string, parts ...string) string {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return fmt.Sprintf("%s:%016x", prefix, d.Sum64())
}

// Hash returns the 16-character hex xxhash of data. It names cache files
// and is not meant to be collision resistant against adversarial input.
func Hash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

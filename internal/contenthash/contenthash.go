// Package contenthash deduplicates in-memory assets by raw content.
package contenthash

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Sum returns a stable digest of data: the same bytes always produce the
// same digest, regardless of call order or prior state. The digest is
// used only for deduplication, not for security; accidental collisions
// are an accepted (very low probability) risk.
func Sum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

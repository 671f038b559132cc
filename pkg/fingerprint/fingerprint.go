// Package fingerprint provides the stable content hash used to fingerprint
// serialized state, e.g. a lock file between watch-mode rebuilds.
package fingerprint

import (
	"os"

	"github.com/OneOfOne/xxhash"
)

// Sum32 returns the XXH32 hash (seed 0) of data. The width is pinned to 32
// bits rather than the faster 64-bit variant: the persisted format the
// fingerprint feeds into stores integers as signed 64-bit values, and the
// narrower hash keeps headroom on that side. Values must stay bit-for-bit
// stable across releases or previously persisted fingerprints break.
func Sum32(data []byte) uint32 {
	return xxhash.Checksum32(data)
}

// File returns Sum32 over the contents of the file at path.
func File(path string) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return Sum32(data), nil
}

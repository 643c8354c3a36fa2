package band

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Digest returns a position-sensitive fingerprint of the snapshot.
// Names are hashed in sorted order so equal snapshots always hash
// equal. Used by determinism tests and the rehearsal run log.
func (s Snapshot) Digest() uint64 {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)

	h := xxhash.New()
	var tmp [8]byte
	for _, name := range names {
		h.WriteString(name)
		p := s[name]
		binary.LittleEndian.PutUint64(tmp[:], uint64(int64(p.X)))
		h.Write(tmp[:])
		binary.LittleEndian.PutUint64(tmp[:], uint64(int64(p.Y)))
		h.Write(tmp[:])
	}
	return h.Sum64()
}

// Digest fingerprints the whole timeline by chaining snapshot digests.
func (t Timeline) Digest() uint64 {
	h := xxhash.New()
	var tmp [8]byte
	for _, snap := range t {
		binary.LittleEndian.PutUint64(tmp[:], snap.Digest())
		h.Write(tmp[:])
	}
	return h.Sum64()
}

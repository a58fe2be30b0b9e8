package driver

import (
	"crypto/sha256"
	"slices"

	"solfront/internal/driver/dag"
	"solfront/internal/version"
)

// Digest identifies the inputs of one unit.
type Digest [32]byte

// combineDigest hashes content followed by deps in the given order.
func combineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// fileDigest hashes a path and its text.
func fileDigest(path, text string) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(path))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(text))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// unitKey covers the front-end version, the configuration, every file of
// closure and the paths the unit imports that could not be loaded.
func (s *session) unitKey(closure []dag.NodeID) Digest {
	parts := make([]Digest, 0, len(closure)+2)
	parts = append(parts, fileDigest("version", version.String()))
	for _, n := range closure {
		e := s.files[s.idx.IDToName[n]]
		parts = append(parts, fileDigest(e.path, e.text))
	}
	own := s.files[s.idx.IDToName[closure[len(closure)-1]]]
	var missing []string
	for _, p := range own.importPaths() {
		if _, ok := s.missing[p]; ok {
			missing = append(missing, p)
		}
	}
	slices.Sort(missing)
	for _, p := range missing {
		parts = append(parts, fileDigest(p, ""))
	}
	return combineDigest(Digest(s.opts.Config.Fingerprint()), parts...)
}

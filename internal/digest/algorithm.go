// Package digest implements a concurrent multi-digest engine: it reads an
// input stream once and feeds identical chunks to one hashing worker per
// requested algorithm, so that computing N digests costs a single read pass
// and roughly the wall time of the slowest algorithm.
package digest

import (
	"crypto/md5"  //nolint:gosec // md5 is offered as a checksum algorithm, not for security
	"crypto/sha1" //nolint:gosec // sha1 is offered as a checksum algorithm, not for security
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// Algorithm identifies one supported digest algorithm. Values are the
// lowercase names accepted on the command line (e.g. "sha256", "sha3_512").
type Algorithm string

// Supported algorithm names.
const (
	MD5      Algorithm = "md5"
	SHA1     Algorithm = "sha1"
	SHA224   Algorithm = "sha224"
	SHA256   Algorithm = "sha256"
	SHA384   Algorithm = "sha384"
	SHA512   Algorithm = "sha512"
	SHA3_224 Algorithm = "sha3_224"
	SHA3_256 Algorithm = "sha3_256"
	SHA3_384 Algorithm = "sha3_384"
	SHA3_512 Algorithm = "sha3_512"
	BLAKE2b  Algorithm = "blake2b"
	BLAKE2s  Algorithm = "blake2s"
	BLAKE3   Algorithm = "blake3"
	XXH64    Algorithm = "xxh64"
)

// Registry maps algorithm names to hash constructors and fixes the canonical
// column order. It is constructed once and passed explicitly to the Hasher;
// there is no ambient global registry.
type Registry struct {
	order     []Algorithm
	factories map[Algorithm]func() hash.Hash
}

// NewRegistry builds the default registry. The order matches the original
// multi-hasher tool: the hashlib-guaranteed set sorted by name, followed by
// the extension algorithms (blake3, xxh64).
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[Algorithm]func() hash.Hash)}

	register := func(a Algorithm, factory func() hash.Hash) {
		r.order = append(r.order, a)
		r.factories[a] = factory
	}

	register(BLAKE2b, func() hash.Hash {
		h, err := blake2b.New512(nil)
		if err != nil {
			// New512 fails only for an over-long key; we pass none.
			panic(err)
		}
		return h
	})
	register(BLAKE2s, func() hash.Hash {
		h, err := blake2s.New256(nil)
		if err != nil {
			panic(err)
		}
		return h
	})
	register(MD5, md5.New)
	register(SHA1, sha1.New)
	register(SHA224, sha256.New224)
	register(SHA256, sha256.New)
	register(SHA384, sha512.New384)
	register(SHA3_224, sha3.New224)
	register(SHA3_256, sha3.New256)
	register(SHA3_384, sha3.New384)
	register(SHA3_512, sha3.New512)
	register(SHA512, sha512.New)
	register(BLAKE3, func() hash.Hash { return blake3.New() })
	register(XXH64, func() hash.Hash { return xxhash.New() })

	return r
}

// Supported returns the supported algorithms in canonical column order.
// The returned slice is a copy and may be modified by the caller.
func (r *Registry) Supported() []Algorithm {
	out := make([]Algorithm, len(r.order))
	copy(out, r.order)
	return out
}

// IsSupported reports whether name is a registered algorithm.
func (r *Registry) IsSupported(a Algorithm) bool {
	_, ok := r.factories[a]
	return ok
}

// Resolve validates a list of requested algorithm names and returns them as
// a job-ready ordered list. It fails if the list is empty, contains a name
// not in the registry, or contains duplicates. Duplicates are rejected rather
// than deduplicated so that a caller-supplied column layout never silently
// differs from what was requested.
func (r *Registry) Resolve(names []string) ([]Algorithm, error) {
	if len(names) == 0 {
		return nil, ErrNoAlgorithms
	}

	algos := make([]Algorithm, 0, len(names))
	seen := make(map[Algorithm]struct{}, len(names))
	for _, name := range names {
		a := Algorithm(name)
		if !r.IsSupported(a) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, name)
		}
		if _, dup := seen[a]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAlgorithm, name)
		}
		seen[a] = struct{}{}
		algos = append(algos, a)
	}
	return algos, nil
}

// NewAccumulator creates a fresh, zero-state accumulator for the given
// algorithm.
func (r *Registry) NewAccumulator(a Algorithm) (*Accumulator, error) {
	factory, ok := r.factories[a]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, a)
	}
	return &Accumulator{algo: a, h: factory()}, nil
}

package digest

import "hash"

// Accumulator is the per-algorithm incremental hash state for one job.
// It is exclusively owned by a single worker goroutine for the lifetime of
// one job and must never be shared or reused across jobs.
type Accumulator struct {
	algo      Algorithm
	h         hash.Hash
	finalized bool
}

// Algorithm returns the algorithm this accumulator computes.
func (a *Accumulator) Algorithm() Algorithm {
	return a.algo
}

// Update feeds the next chunk of input into the hash state. Chunks must be
// delivered in stream order. Calling Update after Finalize returns
// ErrAccumulatorFinalized.
func (a *Accumulator) Update(chunk []byte) error {
	if a.finalized {
		return ErrAccumulatorFinalized
	}
	// hash.Hash.Write never returns an error.
	_, _ = a.h.Write(chunk)
	return nil
}

// Finalize consumes the hash state and returns the digest bytes. A second
// call returns ErrAccumulatorFinalized: digest state is destroyed on
// finalization, so calling twice is always a caller bug.
func (a *Accumulator) Finalize() ([]byte, error) {
	if a.finalized {
		return nil, ErrAccumulatorFinalized
	}
	a.finalized = true
	return a.h.Sum(nil), nil
}

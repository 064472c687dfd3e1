package digest

import "errors"

// Error definitions for static error handling
var (
	// ErrNoAlgorithms indicates that a job was requested with an empty algorithm list.
	ErrNoAlgorithms = errors.New("at least one algorithm is required")

	// ErrUnsupportedAlgorithm indicates that a requested algorithm name is not in the registry.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrDuplicateAlgorithm indicates that the same algorithm was requested more than once for one job.
	ErrDuplicateAlgorithm = errors.New("duplicate algorithm")

	// ErrAccumulatorFinalized indicates that an accumulator was updated or finalized
	// after it had already been finalized. This is always a bug in the caller,
	// never a recoverable runtime condition.
	ErrAccumulatorFinalized = errors.New("accumulator already finalized")

	// ErrNilRegistry indicates that a Hasher was constructed without a registry.
	ErrNilRegistry = errors.New("registry cannot be nil")
)

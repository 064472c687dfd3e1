package digest

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/isseis/go-multi-digest/internal/common"
)

// HeaderLabel is the first column of the header row.
const HeaderLabel = "filename"

// Options configures a Hasher. The zero value selects the defaults.
type Options struct {
	// BlockSize is the chunk size in bytes (default DefaultBlockSize).
	BlockSize int

	// QueueDepth is the per-worker chunk queue depth (default
	// DefaultQueueDepth). The reader blocks when the slowest worker's
	// queue is full, bounding peak memory.
	QueueDepth int

	// FS opens path inputs (default: the real file system).
	FS common.FileSystem

	// Stdin is the stream used for stdin inputs (default os.Stdin).
	Stdin io.Reader

	// Serial selects the single-goroutine reference path instead of the
	// concurrent fan-out. Results are identical; only scheduling differs.
	Serial bool
}

// Row is the result of hashing one input: its label and one digest per
// requested algorithm, in request order.
type Row struct {
	Label   string
	Digests [][]byte
}

// HexDigests returns the digests rendered as lowercase hex strings.
func (r Row) HexDigests() []string {
	out := make([]string, len(r.Digests))
	for i, d := range r.Digests {
		out[i] = hex.EncodeToString(d)
	}
	return out
}

// Hasher computes a fixed set of digests over inputs, reading each input once
// and hashing all algorithms concurrently. A Hasher is immutable after New
// and may be reused across inputs and goroutines; per-job state lives in the
// accumulators created fresh for every input.
type Hasher struct {
	registry   *Registry
	algos      []Algorithm
	blockSize  int
	queueDepth int
	fs         common.FileSystem
	stdin      io.Reader
	serial     bool
}

// New creates a Hasher for the given algorithm names. Names are validated
// against the registry before any I/O happens: an empty list, an unknown
// name, or a duplicate is a validation error.
func New(registry *Registry, names []string, opts Options) (*Hasher, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	algos, err := registry.Resolve(names)
	if err != nil {
		return nil, err
	}

	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}
	if opts.QueueDepth <= 0 {
		opts.QueueDepth = DefaultQueueDepth
	}
	if opts.FS == nil {
		opts.FS = common.NewDefaultFileSystem()
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}

	return &Hasher{
		registry:   registry,
		algos:      algos,
		blockSize:  opts.BlockSize,
		queueDepth: opts.QueueDepth,
		fs:         opts.FS,
		stdin:      opts.Stdin,
		serial:     opts.Serial,
	}, nil
}

// Algorithms returns the job's algorithms in request (column) order.
func (h *Hasher) Algorithms() []Algorithm {
	out := make([]Algorithm, len(h.algos))
	copy(out, h.algos)
	return out
}

// Header returns the header row: "filename" followed by the algorithm names
// in column order.
func (h *Hasher) Header() []string {
	header := make([]string, 0, len(h.algos)+1)
	header = append(header, HeaderLabel)
	for _, a := range h.algos {
		header = append(header, string(a))
	}
	return header
}

// HashInput reads the input once and returns one digest per algorithm, in
// column order. On any open or read failure no digests are returned: results
// are all-or-nothing per input.
//
// One worker goroutine per algorithm drains a bounded chunk queue; the reader
// broadcasts each chunk, by reference, to every queue in stream order and
// closes the queues at end of stream. A read error or context cancellation
// cancels the worker group, which unblocks and aborts every worker without
// finalizing.
func (h *Hasher) HashInput(ctx context.Context, in Input) ([][]byte, error) {
	if h.serial {
		return h.HashInputSequential(ctx, in)
	}

	accs, err := h.newAccumulators()
	if err != nil {
		return nil, err
	}

	src, err := openSource(in, h.fs, h.stdin, h.blockSize)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.close() }()

	queues := make([]chan []byte, len(accs))
	for i := range queues {
		queues[i] = make(chan []byte, h.queueDepth)
	}
	digests := make([][]byte, len(accs))

	g, ctx := errgroup.WithContext(ctx)

	for i, acc := range accs {
		g.Go(func() error {
			for {
				select {
				case chunk, ok := <-queues[i]:
					if !ok {
						d, err := acc.Finalize()
						if err != nil {
							return err
						}
						digests[i] = d
						return nil
					}
					if err := acc.Update(chunk); err != nil {
						return err
					}
				case <-ctx.Done():
					// Abort: drop partial state without finalizing.
					return ctx.Err()
				}
			}
		})
	}

	g.Go(func() error {
		defer func() {
			for _, q := range queues {
				close(q)
			}
		}()
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			chunk, err := src.next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", in.Label(), err)
			}
			for _, q := range queues {
				select {
				case q <- chunk:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return digests, nil
}

// HashInputSequential computes the same digests as HashInput with a plain
// single-goroutine loop. It exists as the degenerate reference path: tests
// cross-check the concurrent engine against it, and callers can select it
// when spawning workers is not worth it for tiny inputs.
func (h *Hasher) HashInputSequential(ctx context.Context, in Input) ([][]byte, error) {
	accs, err := h.newAccumulators()
	if err != nil {
		return nil, err
	}

	src, err := openSource(in, h.fs, h.stdin, h.blockSize)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.close() }()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunk, err := src.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", in.Label(), err)
		}
		for _, acc := range accs {
			if err := acc.Update(chunk); err != nil {
				return nil, err
			}
		}
	}

	digests := make([][]byte, len(accs))
	for i, acc := range accs {
		d, err := acc.Finalize()
		if err != nil {
			return nil, err
		}
		digests[i] = d
	}
	return digests, nil
}

// HashAll hashes the inputs in order and yields one Row per input, lazily:
// each row is computed only when the consumer asks for it and no result set
// is buffered. Accumulators are constructed fresh for every input.
//
// A per-input failure yields that input's label with a non-nil error and the
// run continues with the next input; only context cancellation stops the
// whole sequence. Callers must not include more than one stdin input.
func (h *Hasher) HashAll(ctx context.Context, inputs []Input) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for _, in := range inputs {
			digests, err := h.HashInput(ctx, in)
			if err != nil {
				if !yield(Row{Label: in.Label()}, err) {
					return
				}
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if !yield(Row{Label: in.Label(), Digests: digests}, nil) {
				return
			}
		}
	}
}

func (h *Hasher) newAccumulators() ([]*Accumulator, error) {
	accs := make([]*Accumulator, len(h.algos))
	for i, a := range h.algos {
		acc, err := h.registry.NewAccumulator(a)
		if err != nil {
			return nil, err
		}
		accs[i] = acc
	}
	return accs, nil
}

package digest

import (
	"errors"
	"fmt"
	"io"

	"github.com/isseis/go-multi-digest/internal/common"
)

// StdinLabel is the label used for standard input and unnamed streams,
// mirroring the conventional "-" of checksum tools.
const StdinLabel = "-"

// DefaultBlockSize is the chunk size used when none is configured (1 MiB,
// matching the original multi-hasher tool).
const DefaultBlockSize = 1 << 20

// DefaultQueueDepth is the per-worker chunk queue depth used when none is
// configured. Peak memory is roughly depth x block size x algorithm count.
const DefaultQueueDepth = 10

// inputKind discriminates the Input variant.
type inputKind int

const (
	inputPath inputKind = iota
	inputStdin
	inputReader
)

// Input is a tagged variant selecting one digest source: a file path, the
// process's standard input, or a caller-supplied byte stream.
type Input struct {
	kind  inputKind
	path  string
	label string
	r     io.Reader
}

// PathInput selects the file at path.
func PathInput(path string) Input {
	return Input{kind: inputPath, path: path, label: path}
}

// StdinInput selects the process's standard input. At most one stdin input
// may appear per run; a second read pass would find the stream exhausted.
func StdinInput() Input {
	return Input{kind: inputStdin, label: StdinLabel}
}

// ReaderInput selects an already-open byte stream. The stream is not closed
// by the engine. An empty label is rendered as "-".
func ReaderInput(label string, r io.Reader) Input {
	if label == "" {
		label = StdinLabel
	}
	return Input{kind: inputReader, label: label, r: r}
}

// Label returns the name used for this input in result rows.
func (in Input) Label() string {
	return in.label
}

// IsStdin reports whether the input selects the process's standard input.
func (in Input) IsStdin() bool {
	return in.kind == inputStdin
}

// chunkSource reads fixed-size chunks from one input. It is owned and
// accessed exclusively by the coordinator's reader loop.
type chunkSource struct {
	r         io.Reader
	closer    io.Closer // nil when the stream is not owned by the source
	blockSize int
	pending   error // read error held back until the preceding chunk is delivered
}

// openSource resolves an Input into a readable chunk source. File inputs are
// opened through fsys; stdin inputs read from stdin; reader inputs use the
// caller's stream directly.
func openSource(in Input, fsys common.FileSystem, stdin io.Reader, blockSize int) (*chunkSource, error) {
	src := &chunkSource{blockSize: blockSize}
	switch in.kind {
	case inputPath:
		f, err := fsys.Open(in.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", in.path, err)
		}
		src.r = f
		src.closer = f
	case inputStdin:
		src.r = stdin
	case inputReader:
		src.r = in.r
	}
	return src, nil
}

// next returns the next chunk, io.EOF at end of stream, or the read error.
// The final chunk may be shorter than the block size. Each chunk is a freshly
// allocated buffer: chunks are broadcast by reference to all workers and must
// stay immutable after they leave the reader.
//
// A read that yields both data and an error delivers the data first and holds
// the error back for the following call. Readers are not required to repeat
// an error once returned, so dropping it here would silently truncate the
// stream.
func (s *chunkSource) next() ([]byte, error) {
	if s.pending != nil {
		err := s.pending
		s.pending = nil
		return nil, err
	}

	buf := make([]byte, s.blockSize)
	n, err := io.ReadFull(s.r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.pending = err
	}
	if n > 0 {
		return buf[:n], nil
	}
	if s.pending != nil {
		err := s.pending
		s.pending = nil
		return nil, err
	}
	return nil, io.EOF
}

// close releases the underlying file if the source owns it.
func (s *chunkSource) close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Package output renders digest result rows. Two formats are supported:
// tab-separated text matching the original multi-hasher tool, and JSON lines
// for machine consumption.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/isseis/go-multi-digest/internal/digest"
)

// Format names accepted by NewWriter.
const (
	FormatTSV  = "tsv"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned by NewWriter for an unrecognized format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Writer renders a header and result rows to an output stream. Flush must be
// called once after the last row.
type Writer interface {
	WriteHeader(header []string) error
	WriteRow(row digest.Row) error
	Flush() error
}

// NewWriter creates a writer for the named format.
func NewWriter(format string, w io.Writer) (Writer, error) {
	switch format {
	case "", FormatTSV:
		return NewTSVWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// TSVWriter writes tab-separated rows: the header first, then one line per
// input with the label followed by hex digests.
type TSVWriter struct {
	w *bufio.Writer
}

// NewTSVWriter creates a TSVWriter.
func NewTSVWriter(w io.Writer) *TSVWriter {
	return &TSVWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (t *TSVWriter) WriteHeader(header []string) error {
	_, err := fmt.Fprintln(t.w, strings.Join(header, "\t"))
	return err
}

// WriteRow writes one result line.
func (t *TSVWriter) WriteRow(row digest.Row) error {
	fields := append([]string{row.Label}, row.HexDigests()...)
	_, err := fmt.Fprintln(t.w, strings.Join(fields, "\t"))
	return err
}

// Flush flushes buffered output.
func (t *TSVWriter) Flush() error {
	return t.w.Flush()
}

// jsonDigest is one algorithm/digest pair. A slice preserves column order,
// which a JSON object would not.
type jsonDigest struct {
	Algorithm string `json:"algorithm"`
	Digest    string `json:"digest"`
}

// jsonRow is the JSON rendering of one result row.
type jsonRow struct {
	Filename string       `json:"filename"`
	Digests  []jsonDigest `json:"digests"`
}

// JSONWriter writes one JSON object per line. The header determines the
// algorithm names attached to each digest.
type JSONWriter struct {
	w     *bufio.Writer
	algos []string
}

// NewJSONWriter creates a JSONWriter.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: bufio.NewWriter(w)}
}

// WriteHeader records the algorithm column names; no output is produced,
// the names are embedded in every row instead.
func (j *JSONWriter) WriteHeader(header []string) error {
	if len(header) > 0 {
		j.algos = header[1:]
	}
	return nil
}

// WriteRow writes one result object.
func (j *JSONWriter) WriteRow(row digest.Row) error {
	out := jsonRow{Filename: row.Label, Digests: make([]jsonDigest, 0, len(row.Digests))}
	for i, hexDigest := range row.HexDigests() {
		algo := ""
		if i < len(j.algos) {
			algo = j.algos[i]
		}
		out.Digests = append(out.Digests, jsonDigest{Algorithm: algo, Digest: hexDigest})
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(j.w, string(encoded))
	return err
}

// Flush flushes buffered output.
func (j *JSONWriter) Flush() error {
	return j.w.Flush()
}

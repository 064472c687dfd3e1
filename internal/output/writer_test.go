package output

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isseis/go-multi-digest/internal/digest"
)

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter("", &buf)
	require.NoError(t, err)
	assert.IsType(t, &TSVWriter{}, w)

	w, err = NewWriter(FormatTSV, &buf)
	require.NoError(t, err)
	assert.IsType(t, &TSVWriter{}, w)

	w, err = NewWriter(FormatJSON, &buf)
	require.NoError(t, err)
	assert.IsType(t, &JSONWriter{}, w)

	_, err = NewWriter("xml", &buf)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewTSVWriter(&buf)

	require.NoError(t, w.WriteHeader([]string{"filename", "md5", "sha1"}))
	require.NoError(t, w.WriteRow(digest.Row{
		Label:   "a.txt",
		Digests: [][]byte{{0xde, 0xad}, {0xbe, 0xef}},
	}))
	require.NoError(t, w.Flush())

	want := "filename\tmd5\tsha1\na.txt\tdead\tbeef\n"
	assert.Equal(t, want, buf.String())
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)

	require.NoError(t, w.WriteHeader([]string{"filename", "md5", "sha1"}))
	require.NoError(t, w.WriteRow(digest.Row{
		Label:   "a.txt",
		Digests: [][]byte{{0xde, 0xad}, {0xbe, 0xef}},
	}))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "the header must not be interleaved into the data rows")

	var row struct {
		Filename string `json:"filename"`
		Digests  []struct {
			Algorithm string `json:"algorithm"`
			Digest    string `json:"digest"`
		} `json:"digests"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &row))

	assert.Equal(t, "a.txt", row.Filename)
	require.Len(t, row.Digests, 2)
	assert.Equal(t, "md5", row.Digests[0].Algorithm)
	assert.Equal(t, "dead", row.Digests[0].Digest)
	assert.Equal(t, "sha1", row.Digests[1].Algorithm)
	assert.Equal(t, "beef", row.Digests[1].Digest)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isseis/go-multi-digest/internal/cmdcommon"
	"github.com/isseis/go-multi-digest/internal/digest"
)

// runDigest runs the command with the given args and stdin content and
// returns the exit code plus captured stdout/stderr.
func runDigest(t *testing.T, args []string, stdin string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_NoAlgorithmSelected(t *testing.T) {
	code, _, stderr := runDigest(t, nil, "")
	assert.Equal(t, cmdcommon.ExitUsage, code)
	assert.Contains(t, stderr, "at least one algorithm flag is required")
	assert.Contains(t, stderr, "Usage:")
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, stderr := runDigest(t, []string{"--crc16"}, "")
	assert.Equal(t, cmdcommon.ExitUsage, code)
	assert.Contains(t, stderr, "unknown flag")
}

func TestRun_HashFile(t *testing.T) {
	path := writeTestFile(t, "abc.txt", "abc")

	code, stdout, _ := runDigest(t, []string{"--md5", "--sha1", path}, "")
	assert.Equal(t, cmdcommon.ExitOK, code)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "filename\tmd5\tsha1", lines[0])
	assert.Equal(t, path+"\t900150983cd24fb0d6963f7d28e17f72\ta9993e364706816aba3e25717850c26c9cd0d89d", lines[1])
}

func TestRun_StdinDefault(t *testing.T) {
	code, stdout, _ := runDigest(t, []string{"--md5"}, "abc")
	assert.Equal(t, cmdcommon.ExitOK, code)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "-\t900150983cd24fb0d6963f7d28e17f72", lines[1])
}

func TestRun_AlgorithmFlagOrderIsCanonical(t *testing.T) {
	// The original tool emits columns in registry order regardless of the
	// order the flags appear on the command line.
	_, stdout1, _ := runDigest(t, []string{"--sha1", "--md5"}, "x")
	_, stdout2, _ := runDigest(t, []string{"--md5", "--sha1"}, "x")
	assert.Equal(t, stdout1, stdout2)
	assert.True(t, strings.HasPrefix(stdout1, "filename\tmd5\tsha1\n"))
}

func TestRun_InputFlagAndPositional(t *testing.T) {
	path1 := writeTestFile(t, "one.txt", "one")
	path2 := writeTestFile(t, "two.txt", "two")

	code, stdout, _ := runDigest(t, []string{"--sha256", "-i", path1, path2}, "")
	assert.Equal(t, cmdcommon.ExitOK, code)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], path1+"\t"))
	assert.True(t, strings.HasPrefix(lines[2], path2+"\t"))
}

func TestRun_MultipleStdinRejected(t *testing.T) {
	code, _, stderr := runDigest(t, []string{"--md5", "-", "-"}, "")
	assert.Equal(t, cmdcommon.ExitUsage, code)
	assert.Contains(t, stderr, "at most once")
}

func TestRun_MissingFileContinues(t *testing.T) {
	path := writeTestFile(t, "ok.txt", "abc")
	missing := filepath.Join(t.TempDir(), "missing.txt")

	code, stdout, stderr := runDigest(t, []string{"--md5", missing, path}, "")
	assert.Equal(t, cmdcommon.ExitFailure, code, "a failed input makes the run exit non-zero")
	assert.Contains(t, stderr, missing)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2, "the good input still produces its row")
	assert.True(t, strings.HasPrefix(lines[1], path+"\t"))
}

func TestRun_JSONFormat(t *testing.T) {
	path := writeTestFile(t, "abc.txt", "abc")

	code, stdout, _ := runDigest(t, []string{"--sha256", "--format", "json", path}, "")
	assert.Equal(t, cmdcommon.ExitOK, code)

	var row struct {
		Filename string `json:"filename"`
		Digests  []struct {
			Algorithm string `json:"algorithm"`
			Digest    string `json:"digest"`
		} `json:"digests"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(stdout)), &row))
	assert.Equal(t, path, row.Filename)
	require.Len(t, row.Digests, 1)
	assert.Equal(t, "sha256", row.Digests[0].Algorithm)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", row.Digests[0].Digest)
}

func TestRun_OutputFile(t *testing.T) {
	path := writeTestFile(t, "abc.txt", "abc")
	outPath := filepath.Join(t.TempDir(), "digests.tsv")

	code, stdout, _ := runDigest(t, []string{"--md5", "-o", outPath, path}, "")
	assert.Equal(t, cmdcommon.ExitOK, code)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "900150983cd24fb0d6963f7d28e17f72")
}

func TestRun_SerialMatchesConcurrent(t *testing.T) {
	path := writeTestFile(t, "data.txt", strings.Repeat("payload ", 1000))

	_, concurrent, _ := runDigest(t, []string{"--sha256", "--blake2b", path}, "")
	_, serial, _ := runDigest(t, []string{"--sha256", "--blake2b", "--serial", path}, "")
	assert.Equal(t, concurrent, serial)
}

func TestRun_QueueDepthFlag(t *testing.T) {
	path := writeTestFile(t, "data.txt", strings.Repeat("payload ", 1000))

	_, deep, _ := runDigest(t, []string{"--sha256", path}, "")
	code, shallow, _ := runDigest(t, []string{"--sha256", "--queue-depth", "1", "--block-size", "64", path}, "")
	assert.Equal(t, cmdcommon.ExitOK, code)
	assert.Equal(t, deep, shallow, "queue depth changes throughput, never the digests")
}

func TestParseArgs_QueueDepthOverridesConfig(t *testing.T) {
	cfgPath := writeTestFile(t, "digest.toml", "queue_depth = 4\n")

	reg := digest.NewRegistry()
	cfg, _, err := parseArgs(reg, []string{"--md5", "--queue-depth", "2", "--config", cfgPath}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.queueDepth, "the flag wins over the config value")

	cfg, _, err = parseArgs(reg, []string{"--md5", "--config", cfgPath}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.queueDepth, "the config value applies when the flag is absent")
}

func TestRun_ListAlgorithms(t *testing.T) {
	code, stdout, _ := runDigest(t, []string{"--list-algorithms"}, "")
	assert.Equal(t, cmdcommon.ExitOK, code)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Contains(t, lines, "md5")
	assert.Contains(t, lines, "sha3_512")
	assert.Contains(t, lines, "blake3")
	assert.Contains(t, lines, "xxh64")
}

func TestRun_ConfigFileDefaults(t *testing.T) {
	cfgPath := writeTestFile(t, "digest.toml", "algorithms = [\"md5\"]\n")

	code, stdout, _ := runDigest(t, []string{"--config", cfgPath}, "abc")
	assert.Equal(t, cmdcommon.ExitOK, code)
	assert.Contains(t, stdout, "900150983cd24fb0d6963f7d28e17f72")
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	cfgPath := writeTestFile(t, "digest.toml", "algorithms = [\"md5\"]\nformat = \"json\"\n")

	code, stdout, _ := runDigest(t, []string{"--sha1", "--format", "tsv", "--config", cfgPath}, "abc")
	assert.Equal(t, cmdcommon.ExitOK, code)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, "filename\tsha1", lines[0], "the sha1 flag replaces the config algorithms")
}

func TestRun_BadConfigFile(t *testing.T) {
	cfgPath := writeTestFile(t, "digest.toml", "block_size = \"huge\"\n")

	code, _, stderr := runDigest(t, []string{"--md5", "--config", cfgPath}, "")
	assert.Equal(t, cmdcommon.ExitUsage, code)
	assert.Contains(t, stderr, "Error:")
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runDigest(t, []string{"--help"}, "")
	assert.Equal(t, cmdcommon.ExitOK, code)
	assert.Contains(t, stderr, "Usage:")
}

func TestRun_BadLogLevel(t *testing.T) {
	code, _, stderr := runDigest(t, []string{"--md5", "--log-level", "loud"}, "")
	assert.Equal(t, cmdcommon.ExitUsage, code)
	assert.Contains(t, stderr, "unknown log level")
}

func TestResolveInputs(t *testing.T) {
	inputs, err := resolveInputs([]string{"a.txt", "-", "b.txt"})
	require.NoError(t, err)
	require.Len(t, inputs, 3)
	assert.Equal(t, "a.txt", inputs[0].Label())
	assert.True(t, inputs[1].IsStdin())

	_, err = resolveInputs([]string{"-", "a.txt", "-"})
	assert.ErrorIs(t, err, errMultipleStdin)
}

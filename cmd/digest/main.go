// Package main provides the digest command: it computes one or more
// cryptographic digests for one or more inputs, reading each input once and
// hashing all requested algorithms concurrently, one worker per algorithm.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/isseis/go-multi-digest/internal/cmdcommon"
	"github.com/isseis/go-multi-digest/internal/color"
	"github.com/isseis/go-multi-digest/internal/config"
	"github.com/isseis/go-multi-digest/internal/digest"
	"github.com/isseis/go-multi-digest/internal/logging"
	"github.com/isseis/go-multi-digest/internal/output"
	"github.com/isseis/go-multi-digest/internal/terminal"
)

const outputFilePerm = 0o644

// Error definitions
var (
	errNoAlgorithmSelected = errors.New("at least one algorithm flag is required (e.g. --sha256)")
	errMultipleStdin       = errors.New("standard input (\"-\") may be used at most once per run")
)

type digestConfig struct {
	algorithms []string
	inputs     []string
	outputPath string
	format     string
	blockSize  int
	queueDepth int
	serial     bool
	listAlgos  bool
	logLevel   string
	quiet      bool
	noColor    bool
	forceColor bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	registry := digest.NewRegistry()

	cfg, fs, err := parseArgs(registry, args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cmdcommon.ExitOK
		}
		printUsage(fs, stderr)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitUsage
	}

	if cfg.listAlgos {
		for _, a := range registry.Supported() {
			_, _ = fmt.Fprintln(stdout, a)
		}
		return cmdcommon.ExitOK
	}

	runID := logging.GenerateRunID()
	level, err := logging.ParseLevel(cfg.logLevel)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitUsage
	}
	logging.Setup(logging.Options{Level: level, Writer: stderr, RunID: runID, Quiet: cfg.quiet})

	detector := terminal.NewDetector(int(os.Stderr.Fd()), terminal.Options{
		ForceColor:   cfg.forceColor,
		DisableColor: cfg.noColor,
	})
	palette := color.NewPalette(detector.SupportsColor())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hasher, err := cmdcommon.CreateHasher(cfg.algorithms, digest.Options{
		BlockSize:  cfg.blockSize,
		QueueDepth: cfg.queueDepth,
		Stdin:      stdin,
		Serial:     cfg.serial,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitUsage
	}

	inputs, err := resolveInputs(cfg.inputs)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitUsage
	}

	out, closeOut, err := openOutput(cfg.outputPath, stdout)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitFailure
	}
	defer closeOut()

	writer, err := output.NewWriter(cfg.format, out)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitUsage
	}

	return process(ctx, hasher, writer, inputs, palette, stderr)
}

func parseArgs(registry *digest.Registry, args []string, stderr io.Writer) (*digestConfig, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("digest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs, stderr) }
	fs.SortFlags = false

	supported := registry.Supported()
	algoFlags := make(map[digest.Algorithm]*bool, len(supported))
	for _, a := range supported {
		algoFlags[a] = fs.Bool(string(a), false, string(a)+" hash algorithm")
	}

	options := struct {
		inputs     []string
		outputPath string
		format     string
		configPath string
		blockSize  int
		queueDepth int
		serial     bool
		listAlgos  bool
		logLevel   string
		quiet      bool
		noColor    bool
		forceColor bool
	}{}

	fs.StringArrayVarP(&options.inputs, "input", "i", nil, "input file (repeatable, \"-\" for STDIN; default STDIN)")
	fs.StringVarP(&options.outputPath, "output", "o", "", "output file instead of STDOUT")
	fs.StringVar(&options.format, "format", "", "output format: tsv or json (default tsv)")
	fs.StringVar(&options.configPath, "config", "", "path to TOML config file with defaults")
	fs.IntVar(&options.blockSize, "block-size", 0, "read block size in bytes (default 1 MiB)")
	fs.IntVar(&options.queueDepth, "queue-depth", 0, "per-worker chunk queue depth (default 10)")
	fs.BoolVar(&options.serial, "serial", false, "hash algorithms sequentially instead of one worker per algorithm")
	fs.BoolVar(&options.listAlgos, "list-algorithms", false, "list supported algorithms and exit")
	fs.StringVar(&options.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.BoolVarP(&options.quiet, "quiet", "q", false, "suppress log output below error level")
	fs.BoolVar(&options.noColor, "no-color", false, "disable colored diagnostics")
	fs.BoolVar(&options.forceColor, "force-color", false, "force colored diagnostics")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}

	cfg := &digestConfig{
		outputPath: options.outputPath,
		format:     options.format,
		blockSize:  options.blockSize,
		queueDepth: options.queueDepth,
		serial:     options.serial,
		listAlgos:  options.listAlgos,
		logLevel:   options.logLevel,
		quiet:      options.quiet,
		noColor:    options.noColor,
		forceColor: options.forceColor,
	}

	// Algorithm flags select columns in registry order, matching the
	// original tool: --sha1 --md5 and --md5 --sha1 produce the same layout.
	for _, a := range supported {
		if *algoFlags[a] {
			cfg.algorithms = append(cfg.algorithms, string(a))
		}
	}

	cfg.inputs = append(cfg.inputs, options.inputs...)
	cfg.inputs = append(cfg.inputs, fs.Args()...)

	if options.configPath != "" {
		if err := applyConfigFile(cfg, options.configPath); err != nil {
			return nil, fs, err
		}
	}

	if cfg.listAlgos {
		return cfg, fs, nil
	}
	if len(cfg.algorithms) == 0 {
		return nil, fs, errNoAlgorithmSelected
	}
	if len(cfg.inputs) == 0 {
		cfg.inputs = []string{digest.StdinLabel}
	}

	return cfg, fs, nil
}

// applyConfigFile fills unset fields of cfg from the TOML config at path.
// Command-line flags always win over config values.
func applyConfigFile(cfg *digestConfig, path string) error {
	fileCfg, err := config.NewLoader().Load(path)
	if err != nil {
		return err
	}
	if len(cfg.algorithms) == 0 {
		cfg.algorithms = fileCfg.Algorithms
	}
	if cfg.blockSize == 0 {
		cfg.blockSize = fileCfg.BlockSize
	}
	if cfg.queueDepth == 0 {
		cfg.queueDepth = fileCfg.QueueDepth
	}
	if cfg.format == "" {
		cfg.format = fileCfg.Format
	}
	if cfg.logLevel == "" {
		cfg.logLevel = fileCfg.LogLevel
	}
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	if fs == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "Usage: %s [flags] [<file>...]\n", filepath.Base(os.Args[0]))
	_, _ = fmt.Fprintln(w, "Calculate one or more hashes for one or more files, one algorithm per worker.")
	_, _ = fmt.Fprintln(w, fs.FlagUsages())
}

// resolveInputs maps the input arguments to digest inputs, enforcing that
// stdin is selected at most once.
func resolveInputs(names []string) ([]digest.Input, error) {
	inputs := make([]digest.Input, 0, len(names))
	stdinCount := 0
	for _, name := range names {
		if name == digest.StdinLabel {
			stdinCount++
			if stdinCount > 1 {
				return nil, errMultipleStdin
			}
			inputs = append(inputs, digest.StdinInput())
			continue
		}
		inputs = append(inputs, digest.PathInput(name))
	}
	return inputs, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" || path == digest.StdinLabel {
		return stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputFilePerm) //nolint:gosec // path comes from explicit user input
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func process(ctx context.Context, hasher *digest.Hasher, writer output.Writer, inputs []digest.Input, palette color.Palette, stderr io.Writer) int {
	if err := writer.WriteHeader(hasher.Header()); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitFailure
	}

	failures := 0
	for row, err := range hasher.HashAll(ctx, inputs) {
		if err != nil {
			failures++
			_, _ = fmt.Fprintln(stderr, palette.Red(fmt.Sprintf("digest: %s: %v", row.Label, err)))
			slog.Warn("input failed", "input", row.Label, "error", err)
			continue
		}
		if err := writer.WriteRow(row); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return cmdcommon.ExitFailure
		}
		slog.Debug("input hashed", "input", row.Label)
	}

	if err := writer.Flush(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitFailure
	}
	if failures > 0 {
		return cmdcommon.ExitFailure
	}
	return cmdcommon.ExitOK
}

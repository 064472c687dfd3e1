// Package terminal provides helpers for detecting whether the current
// process writes to an interactive terminal and whether colored output
// should be used.
package terminal

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ciEnvVars contains common CI environment variables.
var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"TRAVIS",
	"CIRCLECI",
	"JENKINS_URL",
	"GITLAB_CI",
	"BUILDKITE",
	"DRONE",
	"TF_BUILD",
}

// colorTerminals lists TERM values (or prefixes) known to support basic
// terminal colors.
var colorTerminals = []string{
	"xterm",
	"screen",
	"tmux",
	"rxvt",
	"vt100",
	"vt220",
	"ansi",
	"linux",
	"cygwin",
	"putty",
}

// Options contains command-line overrides for terminal detection.
type Options struct {
	ForceColor   bool // enable color regardless of environment
	DisableColor bool // disable color regardless of environment
}

// Detector answers interactivity and color questions for one output stream.
type Detector struct {
	options Options
	fd      int
}

// NewDetector creates a detector for the stream with the given file
// descriptor (normally stderr).
func NewDetector(fd int, options Options) *Detector {
	return &Detector{options: options, fd: fd}
}

// IsInteractive returns true if the stream should be treated as interactive:
// a terminal is attached and no CI environment is detected.
func (d *Detector) IsInteractive() bool {
	if d.isCIEnvironment() {
		return false
	}
	return term.IsTerminal(d.fd)
}

// SupportsColor returns true if colored output should be emitted. Priority:
// command-line overrides, then CLICOLOR_FORCE, then NO_COLOR, then TERM
// detection in interactive mode.
func (d *Detector) SupportsColor() bool {
	if d.options.ForceColor {
		return true
	}
	if d.options.DisableColor {
		return false
	}
	if isTruthy(os.Getenv("CLICOLOR_FORCE")) {
		return true
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return d.IsInteractive() && termSupportsColor(os.Getenv("TERM"))
}

func (d *Detector) isCIEnvironment() bool {
	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}

// termSupportsColor checks a TERM value against the known color-capable
// terminal list. Unknown terminals default to no color: missing color beats
// writing escape sequences to a terminal that cannot render them.
func termSupportsColor(termName string) bool {
	termName = strings.ToLower(strings.TrimSpace(termName))
	if termName == "" || termName == "dumb" {
		return false
	}
	for _, colorTerm := range colorTerminals {
		if termName == colorTerm || strings.HasPrefix(termName, colorTerm+"-") {
			return true
		}
	}
	return false
}

// isTruthy checks if a string value should be considered "true".
// Supports: "1", "true", "yes" (case insensitive).
func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

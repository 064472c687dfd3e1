// Package cmdcommon provides common functionality for command-line tools.
package cmdcommon

import (
	"github.com/isseis/go-multi-digest/internal/digest"
)

// Exit codes shared by the digest commands.
const (
	// ExitOK means every input was hashed successfully.
	ExitOK = 0

	// ExitFailure means at least one input failed to open or read.
	ExitFailure = 1

	// ExitUsage means argument or configuration validation failed before
	// any input was touched.
	ExitUsage = 2
)

// CreateHasher builds a Hasher over the default registry. It exists so the
// commands and their tests construct the engine the same way.
func CreateHasher(names []string, opts digest.Options) (*digest.Hasher, error) {
	return digest.New(digest.NewRegistry(), names, opts)
}

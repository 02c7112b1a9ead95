package env

import (
	"errors"
	"fmt"
	"os"
)

// Options describes where fallback values come from.
type Options struct {
	// Overrides take precedence over every other fallback source.
	Overrides map[string]string
	// Files are .env files, earlier files win over later ones.
	Files []string
	// Prefix is prepended to names looked up in the process environment.
	Prefix string
	// IgnoreMissingFiles skips env files that do not exist.
	IgnoreMissingFiles bool
}

// NewChain builds the fallback chain: configuration overrides, then env
// files, then the process environment.
func NewChain(opts Options) (Chain, error) {
	chain := Chain{}
	if len(opts.Overrides) > 0 {
		chain = append(chain, MapSource(opts.Overrides))
	}

	for _, path := range opts.Files {
		vars, err := LoadDotEnv(path)
		if err != nil {
			if opts.IgnoreMissingFiles && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("loading env file %s: %w", path, err)
		}
		chain = append(chain, MapSource(vars))
	}

	return append(chain, OSEnv{Prefix: opts.Prefix}), nil
}

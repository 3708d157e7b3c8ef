// Package runtime provides a context type that holds the engine and logger
// for use throughout the CLI. This avoids passing multiple parameters.
package runtime

import (
	"os"

	"linearize.dev/linearize/internal/engine"
	"linearize.dev/linearize/internal/output"
)

// Context provides access to the engine and the diagnostic logger
type Context struct {
	Engine *engine.Engine
	Splog  *output.Splog
}

// NewContext creates an engine for the current working directory with the
// given configuration
func NewContext(cfg engine.Config) (*Context, error) {
	debug := cfg.Debug || os.Getenv("DEBUG") == "true"
	splog, err := output.NewSplogWithConfig(os.Stderr, debug, os.Getenv("LINEARIZE_LOG_FILE"))
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(cwd, cfg, splog)
	if err != nil {
		return nil, err
	}

	return &Context{Engine: eng, Splog: splog}, nil
}

package codegen

import (
	"github.com/rs/zerolog"

	"github.com/tracdap/tracgen/internal/codegen/python"
	"github.com/tracdap/tracgen/internal/config"
	"github.com/tracdap/tracgen/internal/schema"
)

// DefaultRegistry is the global registry instance with pre-registered generators
var DefaultRegistry = NewRegistry()

func newPython(opts config.Options, types *schema.TypeRegistry, logger zerolog.Logger) (Generator, error) {
	return python.NewGenerator(opts, types, logger)
}

func init() {
	DefaultRegistry.Register("python", newPython)

	// Register py as an alias for python
	DefaultRegistry.Register("py", newPython)
}

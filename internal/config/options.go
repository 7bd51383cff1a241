package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultTargetPackage is the Python root package that cross-package imports
// resolve to when no target_package is given
const DefaultTargetPackage = "trac"

// Options controls a generation run. It is built once and passed by value to
// generators.
type Options struct {
	// TargetPackage is the root package used in aliased cross-package imports
	TargetPackage string `yaml:"target_package,omitempty"`

	// Packages restricts emitted content to one package subtree (dot path)
	Packages string `yaml:"packages,omitempty"`

	// FlatPack merges all files of a package into a single module
	FlatPack bool `yaml:"flat_pack,omitempty"`

	// Language selects the generator; only "python" is registered
	Language string `yaml:"language,omitempty"`
}

// DefaultOptions returns options with every default applied
func DefaultOptions() Options {
	return Options{
		TargetPackage: DefaultTargetPackage,
		Language:      "python",
	}
}

// WithDefaults fills unset fields from DefaultOptions
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.TargetPackage == "" {
		o.TargetPackage = d.TargetPackage
	}
	if o.Language == "" {
		o.Language = d.Language
	}
	return o
}

// ParseParameter parses a protoc plugin parameter string, a comma separated
// list of key=value pairs. A bare key sets a boolean option to true. Unknown
// keys are logged and ignored so protoc can pass parameters meant for other
// tools.
func ParseParameter(param string, logger zerolog.Logger) (Options, error) {
	opts := DefaultOptions()

	for _, item := range strings.Split(param, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		key, value, hasValue := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "target_package":
			if value == "" {
				return Options{}, fmt.Errorf("option target_package requires a value")
			}
			opts.TargetPackage = value
		case "packages":
			opts.Packages = value
		case "flat_pack":
			if !hasValue {
				opts.FlatPack = true
				continue
			}
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Options{}, fmt.Errorf("invalid value for flat_pack: %q", value)
			}
			opts.FlatPack = b
		case "lang", "language":
			opts.Language = value
		default:
			logger.Warn().Str("option", key).Msg("ignoring unknown option")
		}
	}

	return opts, nil
}

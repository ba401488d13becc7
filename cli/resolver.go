package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/autoconfig/cli/cmd"
)

// resolve is a [kong.ConfigurationLoader] that reads flag values from a YAML
// document.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Keys may be written with hyphens or underscores, and nested mappings are
// joined to their parent key with a hyphen. The following documents both
// set --log-level and --probe-cache:
//
//	log_level: debug
//	probe-cache: true
//
//	log:
//	  level: debug
//	probe:
//	  cache: true
//
// Command-line flags override config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, cmd.ErrReadConfig.Wrap(err)
	}

	cfg := make(config)
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over a flattened YAML document keyed by
// hyphenated flag name.
type config map[string]any

func (c config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := value.(type) {
		case map[string]any:
			c.flatten(key, v)

		case nil:

		case string, bool, []any:
			c[key] = v

		default:
			// kong decodes numbers from their text form
			c[key] = fmt.Sprint(v)
		}
	}
}

// Validate implements [kong.Resolver]. Unknown keys are ignored.
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	value, ok := c[flag.Name]
	if !ok {
		return nil, nil //nolint:nilnil
	}

	return value, nil
}

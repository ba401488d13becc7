package manifest

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"
)

// document is the YAML layout of a manifest file:
//
//	dependencies:
//	  zlib: 1.3.1
//	  openssl: 3.0.2
type document struct {
	Dependencies yaml.MapSlice `yaml:"dependencies"`
}

// Load decodes the dependency specs of a YAML manifest in document order.
func Load(r io.Reader) ([]Spec, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadManifest.Wrap(err)
	}

	var doc document

	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict()); err != nil {
		return nil, ErrReadManifest.Wrap(err)
	}

	specs := make([]Spec, 0, len(doc.Dependencies))

	for _, item := range doc.Dependencies {
		name := fmt.Sprint(item.Key)
		if name == "" || item.Value == nil {
			return nil, ErrInvalidSpec.Wrapf("%q: missing name or version", name)
		}

		spec, err := NewSpec(name, fmt.Sprint(item.Value))
		if err != nil {
			return nil, err
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

// LoadFile decodes the manifest at path.
func LoadFile(path string) ([]Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadManifest.With(slog.String("path", path)).Wrap(err)
	}
	defer f.Close()

	return Load(f)
}

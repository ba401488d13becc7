package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/autoconfig/log"
	"github.com/ardnew/autoconfig/profile"
)

// configFileMode is the permission of a newly written configuration file.
const configFileMode = 0o600

// Init generates a configuration file holding the current global flag
// values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	file := slog.String("file", confPath)

	var data []byte

	if doc := i.document(ktx); len(doc) > 0 {
		data, err = yaml.MarshalWithOptions(doc, yaml.IndentSequence(true))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !i.Force {
		flag |= os.O_EXCL
	}

	f, err := os.OpenFile(confPath, flag, configFileMode)
	if errors.Is(err, fs.ErrExist) {
		return ErrWriteConfig.With(file, slog.Bool("exists", true)).Wrap(ErrFileExists)
	}

	if err != nil {
		return ErrWriteConfig.With(file).Wrap(err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return ErrWriteConfig.With(file).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file", file)

	return nil
}

// document collects the set global flags in declaration order.
func (i *Init) document(ktx *kong.Context) yaml.MapSlice {
	var doc yaml.MapSlice

	ignore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v, ok := yamlValue(ktx.FlagValue(flag)); ok {
			doc = append(doc, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return doc
}

// yamlValue converts a flag value to its YAML form. Empty strings and
// empty lists are omitted.
func yamlValue(v any) (any, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Invalid:
		return nil, false

	case reflect.String:
		return rv.String(), rv.Len() > 0

	case reflect.Bool:
		return rv.Bool(), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true

	case reflect.Float32, reflect.Float64:
		return rv.Float(), true

	case reflect.Slice:
		if rv.Len() == 0 {
			return nil, false
		}

		out := make([]any, 0, rv.Len())
		for j := range rv.Len() {
			if e, ok := yamlValue(rv.Index(j).Interface()); ok {
				out = append(out, e)
			}
		}

		return out, len(out) > 0

	default:
		return fmt.Sprint(v), true
	}
}

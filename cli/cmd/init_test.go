package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				writeFile(t, confPath, "existing content")
			}

			ctx, _, _ := kongContext(t, kong.Vars{ConfigIdentifier: confPath})

			err := (&Init{Force: tt.force}).Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr != nil {
				if got := readFile(t, confPath); got != "existing content" {
					t.Errorf("existing file modified: %q", got)
				}

				return
			}

			var doc map[string]any
			if err := yaml.Unmarshal([]byte(readFile(t, confPath)), &doc); err != nil {
				t.Errorf("generated config is not valid YAML: %v", err)
			}
		})
	}
}

// TestInitDocument tests that document records set flags in order.
func TestInitDocument(t *testing.T) {
	var cli struct {
		Settings `embed:""`

		Verbose bool `hidden:""`
	}

	confPath := filepath.Join(t.TempDir(), "config.yaml")

	parser, err := kong.New(&cli,
		kong.Vars{ConfigIdentifier: confPath},
		kong.Vars(cli.Vars()),
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse([]string{
		"--compiler=clang", "--isystem=/opt/include", "-D", "level=3", "--allow-freeze",
	})
	if err != nil {
		t.Fatal(err)
	}

	doc := (&Init{}).document(ktx)

	got := make(map[string]any, len(doc))
	keys := make([]string, 0, len(doc))

	for _, item := range doc {
		key, _ := item.Key.(string)
		keys = append(keys, key)
		got[key] = item.Value
	}

	for key, want := range map[string]any{
		"compiler":     "clang",
		"language":     "c",
		"allow-freeze": true,
		"probe-cache":  false,
		"args-log":     "arguments.txt",
	} {
		if got[key] != want {
			t.Errorf("%s = %v, want %v", key, got[key], want)
		}
	}

	if v, ok := got["isystem"].([]any); !ok || len(v) != 1 || v[0] != "/opt/include" {
		t.Errorf("isystem = %#v", got["isystem"])
	}

	for _, key := range []string{"help", "cc", "manifest", "verbose", "dependency"} {
		if _, ok := got[key]; ok {
			t.Errorf("unexpected key %q in %v", key, keys)
		}
	}

	if len(keys) == 0 || keys[0] != "compiler" {
		t.Errorf("keys not in declaration order: %v", keys)
	}
}

func TestYAMLValue(t *testing.T) {
	type named string

	tests := []struct {
		in     any
		want   any
		wantOK bool
	}{
		{nil, nil, false},
		{"", nil, false},
		{named("debug"), "debug", true},
		{false, false, true},
		{int32(4), int64(4), true},
		{uint8(2), uint64(2), true},
		{1.5, 1.5, true},
		{[]string{}, nil, false},
		{struct{ A int }{1}, "{1}", true},
	}

	for _, tt := range tests {
		got, ok := yamlValue(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("yamlValue(%#v) = %#v, %v; want %#v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.star")
	writeFile(t, path, "x = 1\n")

	got, err := readSource(path)
	if err != nil || string(got) != "x = 1\n" {
		t.Errorf("readSource() = %q, %v", got, err)
	}

	if _, err := readSource(path + ".missing"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("readSource() error = %v, want ErrNotExist", err)
	}
}

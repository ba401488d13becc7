package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
)

func TestRun_Eval(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))

	dir := t.TempDir()
	input := filepath.Join(dir, "config.h.in")
	output := filepath.Join(dir, "config.h")
	path := filepath.Join(dir, "autoconfig.star")

	if err := os.WriteFile(input, []byte("#cmakedefine HAVE_ZLIB\n#cmakedefine01 DEBUG\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	script := `
conf = configuration_data()
conf.set("HAVE_ZLIB", dependency("zlib").found())
conf.set("DEBUG", get_option("debug"))
configure_file(configuration = conf)
`
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		t.Fatal(err)
	}

	exit := func(code int) { t.Fatalf("unexpected exit(%d)", code) }

	err := Run(context.Background(), exit,
		"--log-level=error",
		"-d", "zlib=1.3.1",
		"-D", "debug=true",
		"--args-log", filepath.Join(dir, "arguments.txt"),
		"--input", input,
		"--output", output,
		path,
	)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}

	if want := "#define HAVE_ZLIB\n#define DEBUG 1\n"; string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	if _, err := os.Stat(configPath()); err != nil {
		t.Errorf("configuration directory not created: %v", err)
	}

	if err := Run(context.Background(), exit, "init"); err != nil {
		t.Fatalf("Run(init) error = %v", err)
	}

	if _, err := os.Stat(configPath(baseConfig)); err != nil {
		t.Errorf("configuration file not written: %v", err)
	}

	if err := Run(context.Background(), exit, "--log-level=error", "--input", input, "--output", output, path); err != nil {
		t.Fatalf("Run() with configuration file error = %v", err)
	}
}

func TestCLI_Label(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"translate", "meson.build"}, "translate"},
		{[]string{"eval", "dir/autoconfig.star"}, "eval-autoconfig.star"},
		{[]string{"-c", "dir/meson.build"}, "eval-meson.build"},
		{[]string{"init"}, "init"},
	}

	for _, tt := range tests {
		var cli CLI

		parser, err := kong.New(&cli, kong.Vars(cli.Settings.Vars()), cli.Log.vars(), cli.Pprof.vars(),
			kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}

		ktx, err := parser.Parse(tt.args)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.args, err)
		}

		if got := cli.label(ktx); got != tt.want {
			t.Errorf("label(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

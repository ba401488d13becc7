package toolchain

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
}

func TestExecRunner_ToolPath(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "fakecc", `echo "$PATH"; cat; exit 3`)

	r := NewExecRunner(WithToolPath(dir))

	res, err := r.Run(context.Background(), Invocation{
		Path:  "fakecc",
		Stdin: []byte("hello"),
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if res.ExitCode != 3 || res.OK() {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}

	out := string(res.Stdout)
	if !strings.HasPrefix(out, dir) {
		t.Errorf("PATH does not start with the tool directory: %q", out)
	}

	if !strings.HasSuffix(out, "hello") {
		t.Errorf("stdin not forwarded: %q", out)
	}
}

func TestExecRunner_SpawnFailure(t *testing.T) {
	r := NewExecRunner()

	_, err := r.Run(context.Background(), Invocation{Path: "autoconfig-no-such-compiler"})
	if !errors.Is(err, ErrSpawn) {
		t.Errorf("expected ErrSpawn, got %v", err)
	}

	p := NewProber(New(FamilyGCC, "autoconfig-no-such-compiler", LanguageC))
	if p.Compiles(context.Background(), "int x;") {
		t.Error("expected false when the compiler cannot be started")
	}
}

func TestExecRunner_RealCompiler(t *testing.T) {
	exe, err := exec.LookPath("cc")
	if err != nil {
		t.Skip("no C compiler available")
	}

	ctx := context.Background()
	p := NewProber(New(FamilyGCC, exe, LanguageC))

	if !p.Compiles(ctx, "int main(void) { return 0; }") {
		t.Error("valid program did not compile")
	}

	if p.Compiles(ctx, "this is not C") {
		t.Error("invalid program compiled")
	}

	if !p.HasHeader(ctx, "stddef.h", "") {
		t.Error("stddef.h not found")
	}

	size, err := p.Sizeof(ctx, "char", "")
	if err != nil {
		t.Fatalf("Sizeof() error: %v", err)
	}

	if size != 1 {
		t.Errorf("Sizeof(char) = %d, want 1", size)
	}
}

func TestHasFunction_RealCompiler(t *testing.T) {
	exe, err := exec.LookPath("gcc")
	if err != nil {
		t.Skip("gcc not available")
	}

	ctx := context.Background()
	p := NewProber(New(FamilyGCC, exe, LanguageC))

	tests := []struct {
		fn, prefix string
		want       bool
	}{
		{fn: "totally_fake_fn_xyz", want: false},
		{fn: "totally_fake_fn_xyz", prefix: "#include <string.h>", want: false},
		{fn: "strlen", want: true},
		{fn: "strlen", prefix: "#include <string.h>", want: true},
	}

	for _, tt := range tests {
		if got := p.HasFunction(ctx, tt.fn, tt.prefix); got != tt.want {
			t.Errorf("HasFunction(%q, %q) = %v, want %v", tt.fn, tt.prefix, got, tt.want)
		}
	}
}

package script

import (
	"encoding/binary"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// Platform describes a machine in the terms build scripts use.
type Platform struct {
	GOOS   string
	GOARCH string

	// KernelArch reports the running kernel's architecture, such as
	// "armv7l". It refines CPU when set.
	KernelArch func() (string, error)

	BigEndian bool
}

// HostPlatform returns the Platform of the running process.
func HostPlatform() Platform {
	var b [2]byte

	binary.NativeEndian.PutUint16(b[:], 1)

	return Platform{
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		KernelArch: host.KernelArch,
		BigEndian:  b[0] == 0,
	}
}

// System returns the operating system name, such as "linux" or "darwin".
func (p Platform) System() (string, error) {
	switch p.GOOS {
	case "android", "darwin", "dragonfly", "freebsd", "linux", "netbsd",
		"openbsd", "windows", "aix":
		return p.GOOS, nil
	case "ios":
		return "darwin", nil
	case "solaris", "illumos":
		return "sunos", nil
	case "js":
		return "emscripten", nil
	default:
		return "", ErrUnknownPlatform.Wrapf("unknown system %s", p.GOOS)
	}
}

// Kernel returns the kernel name, such as "linux", "nt", or "xnu".
func (p Platform) Kernel() (string, error) {
	switch p.GOOS {
	case "linux", "android":
		return "linux", nil
	case "freebsd", "openbsd", "netbsd", "dragonfly", "illumos", "solaris", "aix":
		return p.GOOS, nil
	case "windows":
		return "nt", nil
	case "darwin", "ios":
		return "xnu", nil
	case "js":
		return "none", nil
	default:
		return "", ErrUnknownPlatform.Wrapf("unknown kernel %s", p.GOOS)
	}
}

// Subsystem returns "macos" or "ios" on Apple systems and "none" elsewhere.
func (p Platform) Subsystem() string {
	switch p.GOOS {
	case "darwin":
		return "macos"
	case "ios":
		return "ios"
	default:
		return "none"
	}
}

// Endian returns "little" or "big".
func (p Platform) Endian() string {
	if p.BigEndian {
		return "big"
	}

	return "little"
}

// CPUFamily returns the processor family, such as "x86_64" or "aarch64".
func (p Platform) CPUFamily() string {
	switch p.GOARCH {
	case "386":
		return "x86"
	case "amd64":
		return "x86_64"
	case "arm":
		return "arm"
	case "arm64":
		return "aarch64"
	case "loong64":
		return "loongarch64"
	case "mips", "mipsle":
		return "mips"
	case "mips64", "mips64le":
		return "mips64"
	case "ppc64", "ppc64le":
		return "ppc64"
	case "riscv64", "s390x":
		return p.GOARCH
	case "wasm":
		return "wasm32"
	default:
		return "unknown"
	}
}

// CPU returns the specific processor, such as "i686" or "armv8-a".
func (p Platform) CPU() string {
	switch p.GOARCH {
	case "386":
		return "i686"
	case "amd64":
		return "x86_64"
	case "arm":
		if p.KernelArch != nil {
			if arch, err := p.KernelArch(); err == nil && strings.HasPrefix(arch, "armv") {
				return arch
			}
		}

		return "arm"
	case "arm64":
		return "armv8-a"
	case "mips", "mipsle":
		return "mips"
	case "mips64", "mips64le":
		return "mips64"
	case "ppc64", "ppc64le":
		return "ppc64"
	case "riscv64":
		return "rv64"
	case "s390x":
		return "s390x"
	default:
		return "unknown"
	}
}

// Module returns the Starlark namespace for p, named name.
func (p Platform) Module(name string) *starlarkstruct.Module {
	fn := func(method string, f func() (string, error)) *starlark.Builtin {
		return starlark.NewBuiltin(name+"."+method, func(
			_ *starlark.Thread,
			b *starlark.Builtin,
			args starlark.Tuple,
			kwargs []starlark.Tuple,
		) (starlark.Value, error) {
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
				return nil, err
			}

			s, err := f()
			if err != nil {
				return nil, err
			}

			return starlark.String(s), nil
		})
	}

	infallible := func(f func() string) func() (string, error) {
		return func() (string, error) { return f(), nil }
	}

	return &starlarkstruct.Module{
		Name: name,
		Members: starlark.StringDict{
			"system":     fn("system", p.System),
			"kernel":     fn("kernel", p.Kernel),
			"subsystem":  fn("subsystem", infallible(p.Subsystem)),
			"endian":     fn("endian", infallible(p.Endian)),
			"cpu_family": fn("cpu_family", infallible(p.CPUFamily)),
			"cpu":        fn("cpu", infallible(p.CPU)),
		},
	}
}

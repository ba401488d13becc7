//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/autoconfig/log"
	"github.com/ardnew/autoconfig/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Profile the evaluation run." placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory."                         type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      cachePath(profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start starts profiling the run named by label if a mode is configured.
func (f pprofConfig) start(ctx context.Context, label string) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	cfg := profile.Config{Mode: f.Mode, Dir: f.Dir}
	profile.WithLabel(label)(&cfg)

	attrs := []slog.Attr{slog.String("mode", f.Mode), slog.String("path", cfg.Path())}

	log.DebugContext(ctx, "pprof start", attrs...)

	profiler := profile.Start(
		profile.WithMode(cfg.Mode),
		profile.WithDir(cfg.Dir),
		profile.WithLabel(cfg.Label),
		profile.WithQuiet(true),
	)

	return func() {
		profiler.Stop()
		log.DebugContext(ctx, "pprof stop", attrs...)
	}
}

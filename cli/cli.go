package cli

import (
	"context"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/autoconfig/cli/cmd"
	"github.com/ardnew/autoconfig/pkg"
)

// CLI is the top-level command-line interface for autoconfig.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	cmd.Settings `embed:""`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Init      cmd.Init      `cmd:"" help:"Write the configuration file from the current flags."`
	Translate cmd.Translate `cmd:"" help:"Print the embedded-dialect translation of a legacy script."`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate a build script."`
}

// groups returns the flag groups in the order they appear in help output.
func (cli *CLI) groups() []kong.Group {
	return []kong.Group{
		{Key: "compiler", Title: "Compiler probes"},
		{Key: "manifest", Title: "Dependencies"},
		cli.Log.group(),
		cli.Pprof.group(),
	}
}

// label names the selected command and, for eval, its script.
func (cli *CLI) label(ktx *kong.Context) string {
	node := ktx.Selected()
	if node == nil {
		return ""
	}

	script := cli.Eval.Script
	if script == "" {
		script = cli.Eval.Config
	}

	if node.Name == "eval" && script != "" {
		return node.Name + "-" + filepath.Base(script)
	}

	return node.Name
}

// Run executes the autoconfig CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cachePath(),
		"version":            pkg.Version(),
	}.
		CloneWith(cli.Settings.Vars()).
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before parsing so that parse errors are already
	// logged with the requested level and format.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(cli.groups()),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx, cli.label(ktx))()

	return ktx.Run(&cli.Settings)
}

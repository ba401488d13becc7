package script

import (
	"context"

	"go.starlark.net/starlark"

	"github.com/ardnew/autoconfig/log"
	"github.com/ardnew/autoconfig/manifest"
	"github.com/ardnew/autoconfig/toolchain"
)

// DefaultArgsLog is the file add_project_arguments appends to when
// [Context.ArgsLog] is empty.
const DefaultArgsLog = "arguments.txt"

// Thread-local keys. Scripts cannot name these.
const (
	contextKey = "autoconfig.context"
	projectKey = "autoconfig.project"
)

// Context is the run-scoped state every builtin reads. It is attached to
// the evaluating thread by [Run].
type Context struct {
	// Manifest answers dependency() lookups. A nil Manifest finds nothing.
	Manifest *manifest.Manifest

	// Prober answers compiler capability queries.
	Prober *toolchain.Prober

	// Options holds get_option values by name.
	Options map[string]any

	// Input and Output are the configure_file paths used when a script
	// omits them.
	Input  string
	Output string

	// ArgsLog is the file add_project_arguments appends to.
	ArgsLog string

	// AllowFreeze enables freezing configuration_data values.
	AllowFreeze bool

	Logger log.Logger

	ctx context.Context //nolint:containedctx
}

// attach binds c and ctx to thread.
func (c *Context) attach(ctx context.Context, thread *starlark.Thread) {
	c.ctx = ctx
	thread.SetLocal(contextKey, c)
}

// runContext returns the Go context of the run.
func (c *Context) runContext() context.Context {
	if c.ctx == nil {
		return context.Background()
	}

	return c.ctx
}

func (c *Context) argsLog() string {
	if c.ArgsLog == "" {
		return DefaultArgsLog
	}

	return c.ArgsLog
}

// contextOf returns the Context attached to thread, or an empty Context.
func contextOf(thread *starlark.Thread) *Context {
	if c, ok := thread.Local(contextKey).(*Context); ok {
		return c
	}

	return &Context{}
}

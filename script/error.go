package script

import "github.com/ardnew/autoconfig/pkg"

var (
	ErrNoProject         = pkg.NewError("did you call project() first")
	ErrProjectRedefined  = pkg.NewError("project() already called")
	ErrInvalidArgument   = pkg.NewError("invalid argument")
	ErrInvalidOption     = pkg.NewError("invalid option")
	ErrInvalidConstraint = pkg.NewError("failed to parse semver range")
	ErrUnknownPlatform   = pkg.NewError("unknown platform")
	ErrWriteArguments    = pkg.NewError("cannot write project arguments")
	ErrNoCompiler        = pkg.NewError("no compiler configured")
	ErrRequired          = pkg.NewError("required check failed")
	ErrScript            = pkg.NewError("script error")
	ErrAssertion         = pkg.NewError("assertion failed")
	ErrEval              = pkg.NewError("evaluation failed")
)

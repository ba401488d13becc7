package configure

import "github.com/ardnew/autoconfig/pkg"

var (
	ErrMalformedDirective = pkg.NewError("malformed template directive")
	ErrReadTemplate       = pkg.NewError("cannot read template")
	ErrWriteOutput        = pkg.NewError("cannot write output")
)

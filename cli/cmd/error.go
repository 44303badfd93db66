package cmd

import "github.com/ardnew/smartscript/pkg"

var (
	ErrReadSource  = pkg.NewError("read source")
	ErrWriteOutput = pkg.NewError("write output")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
	ErrCheckFailed = pkg.NewError("check failed")
)

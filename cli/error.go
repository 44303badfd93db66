package cli

import "github.com/ardnew/smartscript/pkg"

// ErrRuntimeDir reports a failure creating the configuration or cache
// directory.
var ErrRuntimeDir = pkg.NewError("create runtime directory")

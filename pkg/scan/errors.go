package scan

import "github.com/fran314/bbup/pkg/core"

// NonDirEntryPointError indicates that the root path handed to Scan does
// not resolve to a directory, which is required since a snapshot's root is
// always itself a directory entry (§4.1).
type NonDirEntryPointError struct {
	Path core.AbstPath
}

func (e *NonDirEntryPointError) Error() string {
	return "scan entry point is not a directory: " + e.Path.String()
}

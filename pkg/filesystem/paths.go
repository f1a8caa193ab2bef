package filesystem

import (
	"path/filepath"
)

const (
	// BbupConfigurationName is the name of the global bbup configuration
	// file inside the user's home directory (§6.3): `bbup-server`'s listen
	// address and archive root, or `bbup`'s default remote connection
	// settings, depending on which binary loads it.
	BbupConfigurationName = ".bbup.yml"
)

// HomeDirectory is the cached path to the current user's home directory,
// computed once at startup via mustComputeHomeDirectory (split by platform
// in paths_posix.go/paths_windows.go).
var HomeDirectory string

// BbupConfigurationPath is the path to the global bbup configuration file.
var BbupConfigurationPath string

// init performs global initialization.
func init() {
	HomeDirectory = mustComputeHomeDirectory()
	BbupConfigurationPath = filepath.Join(HomeDirectory, BbupConfigurationName)
}

package configuration

import (
	"github.com/fran314/bbup/pkg/filesystem"
)

// GlobalConfigurationPath returns the path of the YAML-based global bbup
// configuration file. It does not verify that the file exists.
func GlobalConfigurationPath() (string, error) {
	return filesystem.BbupConfigurationPath, nil
}

package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/fran314/bbup/internal/cli"
	"github.com/fran314/bbup/pkg/archive"
	"github.com/fran314/bbup/pkg/configuration"
)

// errEndpointNameRequired indicates that endpoint create was invoked
// without exactly one positional endpoint name.
var errEndpointNameRequired = errors.New("endpoint create requires exactly one endpoint name")

// endpointCommand groups archive endpoint management subcommands.
var endpointCommand = &cobra.Command{
	Use:   "endpoint",
	Short: "Manage the archive's registered endpoints",
}

// resolveArchiveRoot returns the archive root to operate on: the explicit
// --archive-root flag if given, otherwise the one saved by setup.
func resolveArchiveRoot(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	path, err := configuration.GlobalConfigurationPath()
	if err != nil {
		return "", err
	}
	config, err := configuration.LoadServerConfiguration(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errNoServerConfiguration
		}
		return "", err
	}
	return config.ArchiveRoot, nil
}

func endpointCreateMain(_ *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errEndpointNameRequired
	}
	root, err := resolveArchiveRoot(endpointCreateConfiguration.archiveRoot)
	if err != nil {
		return err
	}
	a, err := archive.Open(root)
	if err != nil {
		return err
	}
	if err := a.Lock(true); err != nil {
		return err
	}
	defer a.Unlock()
	return a.CreateEndpoint(arguments[0])
}

var endpointCreateCommand = &cobra.Command{
	Use:   "create <name>",
	Short: "Register a new endpoint in the archive",
	Run:   cli.Mainify(endpointCreateMain),
}

var endpointCreateConfiguration struct {
	// archiveRoot overrides the configured archive root.
	archiveRoot string
}

func init() {
	flags := endpointCreateCommand.Flags()
	flags.StringVarP(&endpointCreateConfiguration.archiveRoot, "archive-root", "a", "", "Override the archive root directory")

	endpointCommand.AddCommand(endpointCreateCommand)
}

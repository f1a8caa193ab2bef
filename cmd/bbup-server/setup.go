package main

import (
	"github.com/spf13/cobra"

	"github.com/fran314/bbup/internal/cli"
	"github.com/fran314/bbup/pkg/archive"
	"github.com/fran314/bbup/pkg/configuration"
	"github.com/fran314/bbup/pkg/prompt"
)

// setupMain implements the setup command.
func setupMain(_ *cobra.Command, _ []string) error {
	listenAddress := setupConfiguration.listenAddress
	archiveRoot := setupConfiguration.archiveRoot

	prompter := prompt.CommandLinePrompter{}
	if listenAddress == "" {
		response, err := prompter.Prompt("Listen address (e.g. :9898): ")
		if err != nil {
			return err
		}
		listenAddress = response
	}
	if archiveRoot == "" {
		response, err := prompter.Prompt("Archive root directory: ")
		if err != nil {
			return err
		}
		archiveRoot = response
	}

	if _, err := archive.Open(archiveRoot); err != nil {
		return err
	}

	path, err := configuration.GlobalConfigurationPath()
	if err != nil {
		return err
	}
	config := &configuration.ServerConfiguration{
		ListenAddress: listenAddress,
		ArchiveRoot:   archiveRoot,
	}
	if err := config.Save(path); err != nil {
		return err
	}

	prompter.Message("Configuration saved to " + path)
	return nil
}

var setupCommand = &cobra.Command{
	Use:   "setup",
	Short: "Create or update the server configuration and initialize its archive",
	Args:  cli.DisallowArguments,
	Run:   cli.Mainify(setupMain),
}

var setupConfiguration struct {
	// listenAddress is the TCP address to listen on.
	listenAddress string
	// archiveRoot is the filesystem path of the archive to serve.
	archiveRoot string
}

func init() {
	flags := setupCommand.Flags()
	flags.StringVarP(&setupConfiguration.listenAddress, "listen", "l", "", "Specify the listen address")
	flags.StringVarP(&setupConfiguration.archiveRoot, "archive-root", "a", "", "Specify the archive root directory")
}

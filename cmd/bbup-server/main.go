// Command bbup-server runs (or configures) an archive server: the
// process that owns a single archive root and services sync conversations
// against it from one or more bbup clients (§6.3).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fran314/bbup/pkg/bbup"
)

func rootMain(command *cobra.Command, arguments []string) {
	if rootConfiguration.version {
		fmt.Println(bbup.Version)
		return
	}
	command.Help()
}

var rootCommand = &cobra.Command{
	Use:   "bbup-server",
	Short: "bbup-server hosts a content-addressed bidirectional sync archive",
	Run:   rootMain,
}

var rootConfiguration struct {
	// help indicates whether help information was requested.
	help bool
	// version indicates whether version information was requested.
	version bool
}

func init() {
	flags := rootCommand.Flags()
	flags.BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")
	flags.BoolVarP(&rootConfiguration.version, "version", "V", false, "Show version information")

	cobra.EnableCommandSorting = false
	cobra.MousetrapHelpText = ""

	rootCommand.AddCommand(
		setupCommand,
		runCommand,
		endpointCommand,
	)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}

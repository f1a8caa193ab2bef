package main

import (
	"github.com/spf13/cobra"

	"github.com/fran314/bbup/internal/cli"
	"github.com/fran314/bbup/pkg/configuration"
	"github.com/fran314/bbup/pkg/prompt"
)

// setupMain implements the setup command: it records the default remote
// connection settings a subsequent init will bind a link to unless
// overridden on the command line.
func setupMain(_ *cobra.Command, _ []string) error {
	prompter := prompt.CommandLinePrompter{}

	sshHost := setupConfiguration.sshHost
	user := setupConfiguration.user
	remoteAddress := setupConfiguration.remoteAddress

	if sshHost == "" && !setupConfiguration.noTunnel {
		response, err := prompter.Prompt("SSH host (e.g. example.com:22, blank for --no-tunnel): ")
		if err != nil {
			return err
		}
		sshHost = response
	}
	if sshHost != "" && user == "" {
		response, err := prompter.Prompt("SSH user: ")
		if err != nil {
			return err
		}
		user = response
	}
	if remoteAddress == "" {
		response, err := prompter.Prompt("Archive server address (e.g. 127.0.0.1:9898): ")
		if err != nil {
			return err
		}
		remoteAddress = response
	}

	path, err := configuration.GlobalConfigurationPath()
	if err != nil {
		return err
	}
	config := &configuration.ClientConfiguration{
		SSHHost:       sshHost,
		User:          user,
		IdentityPath:  setupConfiguration.identityPath,
		RemoteAddress: remoteAddress,
	}
	if err := config.Save(path); err != nil {
		return err
	}

	prompter.Message("Configuration saved to " + path)
	return nil
}

var setupCommand = &cobra.Command{
	Use:   "setup",
	Short: "Configure the default remote archive connection",
	Args:  cli.DisallowArguments,
	Run:   cli.Mainify(setupMain),
}

var setupConfiguration struct {
	// sshHost is the SSH server to authenticate against.
	sshHost string
	// user is the SSH username.
	user string
	// identityPath is an explicit private key path.
	identityPath string
	// remoteAddress is the archive server's listening address.
	remoteAddress string
	// noTunnel skips prompting for SSH settings entirely.
	noTunnel bool
}

func init() {
	flags := setupCommand.Flags()
	flags.StringVar(&setupConfiguration.sshHost, "ssh-host", "", "Specify the SSH host to tunnel through")
	flags.StringVarP(&setupConfiguration.user, "user", "u", "", "Specify the SSH username")
	flags.StringVarP(&setupConfiguration.identityPath, "identity", "i", "", "Specify an SSH identity file")
	flags.StringVarP(&setupConfiguration.remoteAddress, "remote", "r", "", "Specify the archive server address")
	flags.BoolVar(&setupConfiguration.noTunnel, "no-tunnel", false, "Configure a direct, unauthenticated connection")
}

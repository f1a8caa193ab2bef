package main

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fran314/bbup/internal/cli"
	"github.com/fran314/bbup/pkg/archive"
	"github.com/fran314/bbup/pkg/configuration"
	"github.com/fran314/bbup/pkg/logging"
	"github.com/fran314/bbup/pkg/server"
)

// errNoServerConfiguration indicates that neither flags, environment
// overrides, nor a saved configuration supplied a listen address and
// archive root.
var errNoServerConfiguration = errors.New("no listen address / archive root configured (run 'bbup-server setup' or pass --listen/--archive-root)")

// loadRunEnvironment merges a local .env file (if any) with the process
// environment, the process environment taking precedence where both set a
// variable, letting a deployment override the listen address or archive
// root without editing the YAML configuration.
func loadRunEnvironment() (map[string]string, error) {
	result := make(map[string]string)
	if overrides, err := godotenv.Read(".env"); err == nil {
		for key, value := range overrides {
			result[key] = value
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	for _, entry := range os.Environ() {
		if index := strings.IndexByte(entry, '='); index >= 0 {
			result[entry[:index]] = entry[index+1:]
		}
	}
	return result, nil
}

// runMain implements the run command: it loads the server configuration,
// opens the archive, and services conversations on the configured listen
// address until terminated (§5, §6.1).
func runMain(_ *cobra.Command, _ []string) error {
	environment, err := loadRunEnvironment()
	if err != nil {
		return err
	}

	listenAddress := runConfiguration.listenAddress
	archiveRoot := runConfiguration.archiveRoot
	if listenAddress == "" || archiveRoot == "" {
		path, err := configuration.GlobalConfigurationPath()
		if err != nil {
			return err
		}
		config, err := configuration.LoadServerConfiguration(path)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		if config != nil {
			if listenAddress == "" {
				listenAddress = config.ListenAddress
			}
			if archiveRoot == "" {
				archiveRoot = config.ArchiveRoot
			}
		}
	}
	if override, ok := environment["BBUP_LISTEN_ADDRESS"]; ok && override != "" {
		listenAddress = override
	}
	if override, ok := environment["BBUP_ARCHIVE_ROOT"]; ok && override != "" {
		archiveRoot = override
	}
	if listenAddress == "" || archiveRoot == "" {
		return errNoServerConfiguration
	}

	logger := logging.RootLogger.Sublogger("server")

	a, err := archive.Open(archiveRoot)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", listenAddress)
	if err != nil {
		return err
	}
	defer listener.Close()

	srv := &server.Server{
		Archive:    a,
		StagingDir: filepath.Join(archiveRoot, "staging"),
	}

	logger.Printf("listening on %s, serving %s", listenAddress, archiveRoot)
	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}
		go func() {
			if err := srv.Handle(conn); err != nil {
				logger.Warn(err)
			}
		}()
	}
}

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Serve the configured archive until terminated",
	Args:  cli.DisallowArguments,
	Run:   cli.Mainify(runMain),
}

var runConfiguration struct {
	// listenAddress overrides the configured listen address.
	listenAddress string
	// archiveRoot overrides the configured archive root.
	archiveRoot string
}

func init() {
	flags := runCommand.Flags()
	flags.StringVarP(&runConfiguration.listenAddress, "listen", "l", "", "Override the listen address")
	flags.StringVarP(&runConfiguration.archiveRoot, "archive-root", "a", "", "Override the archive root directory")
}

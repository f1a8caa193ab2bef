package main

import (
	"errors"
	"net"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fran314/bbup/internal/cli"
	"github.com/fran314/bbup/pkg/configuration"
	"github.com/fran314/bbup/pkg/link"
)

// initMain implements the init command: it attaches a directory (the
// current directory, unless one is given) to an archive endpoint, creating
// its control directory from scratch (§6.2).
func initMain(_ *cobra.Command, arguments []string) error {
	root := "."
	if len(arguments) == 1 {
		root = arguments[0]
	} else if len(arguments) > 1 {
		return errTooManyInitArguments
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	if initConfiguration.endpoint == "" {
		return errEndpointRequired
	}

	remoteAddress := initConfiguration.remote
	if remoteAddress == "" {
		if path, err := configuration.GlobalConfigurationPath(); err == nil {
			if config, err := configuration.LoadClientConfiguration(path); err == nil {
				remoteAddress = config.RemoteAddress
			}
		}
	}
	if remoteAddress == "" {
		return errRemoteRequired
	}

	host, portString, err := net.SplitHostPort(remoteAddress)
	if err != nil {
		return err
	}
	port, err := strconv.Atoi(portString)
	if err != nil {
		return err
	}

	binding := link.Binding{Host: host, Port: port, Endpoint: initConfiguration.endpoint}
	_, err = link.Init(root, binding, initConfiguration.exclude)
	return err
}

var errTooManyInitArguments = errors.New("init accepts at most one directory argument")
var errEndpointRequired = errors.New("--endpoint is required")
var errRemoteRequired = errors.New("--remote is required (or run 'bbup setup' first)")

var initCommand = &cobra.Command{
	Use:   "init [directory]",
	Short: "Attach a directory to an archive endpoint",
	Run:   cli.Mainify(initMain),
}

var initConfiguration struct {
	// endpoint is the archive endpoint name to bind to.
	endpoint string
	// remote is the archive server's address (host:port).
	remote string
	// exclude holds the link's configured exclude rules.
	exclude []string
}

func init() {
	flags := initCommand.Flags()
	flags.StringVarP(&initConfiguration.endpoint, "endpoint", "e", "", "Specify the archive endpoint name")
	flags.StringVarP(&initConfiguration.remote, "remote", "r", "", "Specify the archive server address (host:port)")
	flags.StringSliceVarP(&initConfiguration.exclude, "exclude", "x", nil, "Specify an exclude rule (regular expression), repeatable")

	// --ignore is accepted as an alias for --exclude, matching the
	// terminology used by other sync tools.
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "ignore" {
			name = "exclude"
		}
		return pflag.NormalizedName(name)
	})
}

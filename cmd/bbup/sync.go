package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fran314/bbup/internal/cli"
	"github.com/fran314/bbup/pkg/client"
	"github.com/fran314/bbup/pkg/configuration"
	"github.com/fran314/bbup/pkg/core"
	"github.com/fran314/bbup/pkg/link"
	"github.com/fran314/bbup/pkg/prompt"
	"github.com/fran314/bbup/pkg/tunnel"
)

// totalFileSize walks root and sums the size of every regular file, for the
// post-sync summary message.
func totalFileSize(root string) uint64 {
	var total uint64
	_ = filepath.Walk(root, func(_ string, info os.FileInfo, err error) error {
		if err == nil && info.Mode().IsRegular() {
			total += uint64(info.Size())
		}
		return nil
	})
	return total
}

// dialEndpoint establishes the connection to the archive server bound by
// binding, tunneling through SSH unless the client is configured (or
// explicitly told via --no-tunnel) not to.
func dialEndpoint(binding link.Binding, printer *cli.StatusLinePrinter) (net.Conn, error) {
	address := net.JoinHostPort(binding.Host, strconv.Itoa(binding.Port))
	if syncConfiguration.noTunnel {
		return tunnel.DialPlain(address)
	}

	path, err := configuration.GlobalConfigurationPath()
	if err != nil {
		return nil, err
	}
	config, err := configuration.LoadClientConfiguration(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if config == nil || config.SSHHost == "" {
		return tunnel.DialPlain(address)
	}

	return tunnel.Dial(tunnel.Config{
		SSHHost:       config.SSHHost,
		User:          config.User,
		IdentityPath:  config.IdentityPath,
		RemoteAddress: address,
		Prompter:      &cli.StatusLinePrompter{Printer: printer},
	})
}

// syncMain implements the sync command: it opens the link rooted at the
// current directory (or the given one), dials its bound endpoint, and
// drives a full pull-then-push conversation against it (§6.1).
func syncMain(_ *cobra.Command, arguments []string) error {
	root := "."
	if len(arguments) == 1 {
		root = arguments[0]
	} else if len(arguments) > 1 {
		return errTooManySyncArguments
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	l, err := link.Open(root)
	if err != nil {
		return err
	}
	binding, err := l.Binding()
	if err != nil {
		return err
	}

	printer := &cli.StatusLinePrinter{}
	defer printer.BreakIfNonEmpty()

	printer.Print(fmt.Sprintf("Connecting to %s...", binding.Endpoint))
	conn, err := dialEndpoint(binding, printer)
	if err != nil {
		return err
	}
	defer conn.Close()

	printer.Print("Synchronizing...")
	c := &client.Client{Link: l}
	stagingDir := filepath.Join(filepath.Dir(root), ".bbup-staging-"+binding.Endpoint)
	err = c.Sync(conn, stagingDir)
	printer.Clear()

	var conflictErr *client.ConflictError
	if errors.As(err, &conflictErr) {
		reportConflicts(conflictErr.Conflicts, nil)
		return err
	}
	if err != nil {
		return err
	}

	prompt.CommandLinePrompter{}.Message(fmt.Sprintf(
		"Synchronization complete (%s on disk)", humanize.Bytes(totalFileSize(root)),
	))
	return nil
}

// reportConflicts prints every leaf conflict path beneath prefix.
func reportConflicts(conflicts core.Conflicts, prefix []string) {
	for name, conflict := range conflicts {
		path := append(append([]string{}, prefix...), name)
		if conflict.IsBranch {
			reportConflicts(conflict.Sub, path)
			continue
		}
		cli.Warning("conflicting changes at " + filepath.Join(path...))
	}
}

var errTooManySyncArguments = errors.New("sync accepts at most one directory argument")

var syncCommand = &cobra.Command{
	Use:   "sync [directory]",
	Short: "Perform a pull-then-push synchronization against the bound endpoint",
	Run:   cli.Mainify(syncMain),
}

var syncConfiguration struct {
	// noTunnel forces a direct, unauthenticated connection.
	noTunnel bool
}

func init() {
	flags := syncCommand.Flags()
	flags.BoolVar(&syncConfiguration.noTunnel, "no-tunnel", false, "Connect directly without SSH tunneling")
}

// Package tunnel dials an archive server over an SSH-forwarded connection
// (§6.3's supplemented remote-access feature): the client authenticates to
// an SSH host and asks it to forward a TCP connection to the archive's
// listening address, the same role the teacher's agent-transport code
// played for its own protocol. A plain, unauthenticated TCP dial remains
// available as a --no-tunnel escape hatch for trusted networks.
package tunnel

import (
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/fran314/bbup/pkg/prompt"
)

// dialTimeout bounds how long the SSH handshake itself may take; it does
// not bound the lifetime of the forwarded connection.
const dialTimeout = 15 * time.Second

// Config describes how to reach an archive server through an SSH tunnel.
type Config struct {
	// SSHHost is the SSH server to authenticate against, e.g. "example.com:22".
	SSHHost string
	// User is the SSH username.
	User string
	// IdentityPath is an explicit private key path. If empty, the tunnel
	// relies solely on a running SSH agent.
	IdentityPath string
	// RemoteAddress is the archive server's listening address as seen from
	// the SSH host, e.g. "127.0.0.1:9898".
	RemoteAddress string
	// Prompter is used to prompt for a passphrase if IdentityPath names an
	// encrypted key. It is ignored if IdentityPath is empty.
	Prompter prompt.Prompter
}

// Dial authenticates to cfg.SSHHost and returns a connection forwarded to
// cfg.RemoteAddress on the other side, satisfying net.Conn for the wire
// protocol's conversation layer.
func Dial(cfg Config) (net.Conn, error) {
	authMethods, err := authMethods(cfg)
	if err != nil {
		return nil, err
	}
	if len(authMethods) == 0 {
		return nil, errors.New("no SSH authentication methods available: start an agent or configure an identity")
	}

	client, err := ssh.Dial("tcp", cfg.SSHHost, &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            authMethods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to dial SSH host")
	}

	conn, err := client.Dial("tcp", cfg.RemoteAddress)
	if err != nil {
		client.Close()
		return nil, errors.Wrap(err, "unable to forward connection to archive server")
	}
	return &forwardedConn{Conn: conn, client: client}, nil
}

// DialPlain dials an archive server directly with no SSH authentication or
// forwarding, for the --no-tunnel escape hatch.
func DialPlain(address string) (net.Conn, error) {
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "unable to dial archive server")
	}
	return conn, nil
}

// authMethods assembles the available SSH authentication methods: an
// agent's keys first (if SSH_AUTH_SOCK is set), then an explicit identity
// file if one is configured.
func authMethods(cfg Config) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
		if conn, err := net.Dial("unix", socket); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	if cfg.IdentityPath != "" {
		signer, err := loadIdentity(cfg.IdentityPath, cfg.Prompter)
		if err != nil {
			return nil, err
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	return methods, nil
}

// loadIdentity reads and parses a private key file, prompting for a
// passphrase via prompter if the key is encrypted.
func loadIdentity(path string, prompter prompt.Prompter) (ssh.Signer, error) {
	expanded := path
	if home, err := os.UserHomeDir(); err == nil && len(path) > 1 && path[:2] == "~/" {
		expanded = filepath.Join(home, path[2:])
	}

	raw, err := os.ReadFile(expanded)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read identity file")
	}

	signer, err := ssh.ParsePrivateKey(raw)
	if _, encrypted := err.(*ssh.PassphraseMissingError); !encrypted {
		if err != nil {
			return nil, errors.Wrap(err, "unable to parse identity file")
		}
		return signer, nil
	}

	if prompter == nil {
		return nil, errors.New("identity file is encrypted and no prompter is available")
	}
	passphrase, err := prompter.Prompt("Passphrase for " + path + ": ")
	if err != nil {
		return nil, errors.Wrap(err, "unable to read passphrase")
	}

	signer, err = ssh.ParsePrivateKeyWithPassphrase(raw, []byte(passphrase))
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse identity file with passphrase")
	}
	return signer, nil
}

// forwardedConn wraps a forwarded SSH channel connection, closing the
// underlying SSH client once the forwarded connection itself is closed.
type forwardedConn struct {
	net.Conn
	client *ssh.Client
}

func (c *forwardedConn) Close() error {
	connErr := c.Conn.Close()
	clientErr := c.client.Close()
	if connErr != nil {
		return connErr
	}
	return clientErr
}

package configuration

import (
	"github.com/fran314/bbup/pkg/encoding"
)

// ServerConfiguration is the global YAML configuration object loaded (and
// saved) by bbup-server: the address it listens on and the archive root it
// serves (§6.3's "bbup-server setup").
type ServerConfiguration struct {
	// ListenAddress is the TCP address bbup-server listens on, e.g.
	// ":9898" or "127.0.0.1:9898".
	ListenAddress string `yaml:"listenAddress"`
	// ArchiveRoot is the filesystem path of the archive bbup-server serves.
	ArchiveRoot string `yaml:"archiveRoot"`
}

// LoadServerConfiguration attempts to load a YAML-based bbup-server
// configuration file from the specified path.
func LoadServerConfiguration(path string) (*ServerConfiguration, error) {
	result := &ServerConfiguration{}
	if err := encoding.LoadAndUnmarshalYAML(path, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Save persists the server configuration to path as YAML.
func (c *ServerConfiguration) Save(path string) error {
	return encoding.MarshalAndSaveYAML(path, c)
}

// ClientConfiguration is the global YAML configuration object loaded (and
// saved) by bbup: the default remote connection settings a link binds to
// unless overridden (§6.3's "bbup setup").
type ClientConfiguration struct {
	// SSHHost is the SSH server to authenticate against when tunneling,
	// e.g. "example.com:22". Empty means connect directly (--no-tunnel).
	SSHHost string `yaml:"sshHost"`
	// User is the SSH username.
	User string `yaml:"user"`
	// IdentityPath is an explicit private key path for SSH authentication.
	// If empty, only a running SSH agent is tried.
	IdentityPath string `yaml:"identityPath,omitempty"`
	// RemoteAddress is the archive server's listening address as seen from
	// the SSH host, e.g. "127.0.0.1:9898".
	RemoteAddress string `yaml:"remoteAddress"`
}

// LoadClientConfiguration attempts to load a YAML-based bbup client
// configuration file from the specified path.
func LoadClientConfiguration(path string) (*ClientConfiguration, error) {
	result := &ClientConfiguration{}
	if err := encoding.LoadAndUnmarshalYAML(path, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Save persists the client configuration to path as YAML.
func (c *ClientConfiguration) Save(path string) error {
	return encoding.MarshalAndSaveYAML(path, c)
}

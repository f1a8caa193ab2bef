package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadServerConfigurationNonExistent(t *testing.T) {
	if _, err := LoadServerConfiguration(filepath.Join(t.TempDir(), "missing.yml")); !os.IsNotExist(err) {
		t.Fatal("loading a non-existent server configuration did not report not-exist:", err)
	}
}

func TestServerConfigurationRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yml")
	want := &ServerConfiguration{
		ListenAddress: "127.0.0.1:9898",
		ArchiveRoot:   "/var/lib/bbup/archive",
	}
	if err := want.Save(path); err != nil {
		t.Fatal("unable to save server configuration:", err)
	}

	got, err := LoadServerConfiguration(path)
	if err != nil {
		t.Fatal("unable to load server configuration:", err)
	}
	if *got != *want {
		t.Errorf("loaded configuration does not match saved configuration: got %+v, want %+v", got, want)
	}
}

func TestServerConfigurationRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yml")
	if err := os.WriteFile(path, []byte("listenAddress: \":9898\"\narchiveRoot: /archive\nbogus: true\n"), 0600); err != nil {
		t.Fatal("unable to write test configuration:", err)
	}
	if _, err := LoadServerConfiguration(path); err == nil {
		t.Error("loading a configuration with an unknown field did not fail")
	}
}

func TestLoadClientConfigurationNonExistent(t *testing.T) {
	if _, err := LoadClientConfiguration(filepath.Join(t.TempDir(), "missing.yml")); !os.IsNotExist(err) {
		t.Fatal("loading a non-existent client configuration did not report not-exist:", err)
	}
}

func TestClientConfigurationRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yml")
	want := &ClientConfiguration{
		SSHHost:       "example.com:22",
		User:          "alice",
		IdentityPath:  "~/.ssh/id_ed25519",
		RemoteAddress: "127.0.0.1:9898",
	}
	if err := want.Save(path); err != nil {
		t.Fatal("unable to save client configuration:", err)
	}

	got, err := LoadClientConfiguration(path)
	if err != nil {
		t.Fatal("unable to load client configuration:", err)
	}
	if *got != *want {
		t.Errorf("loaded configuration does not match saved configuration: got %+v, want %+v", got, want)
	}
}

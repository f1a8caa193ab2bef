package filesystem

import (
	"strings"
	"testing"
)

// TestHomeDirectory tests that the home directory was computed successfully
// at package initialization.
func TestHomeDirectory(t *testing.T) {
	if HomeDirectory == "" {
		t.Fatal("home directory is empty")
	}
}

// TestBbupConfigurationPath tests that the global configuration path was
// computed successfully and lives inside the home directory.
func TestBbupConfigurationPath(t *testing.T) {
	if BbupConfigurationPath == "" {
		t.Fatal("global configuration path is empty")
	} else if !strings.HasPrefix(BbupConfigurationPath, HomeDirectory) {
		t.Error("global configuration path is not inside the home directory")
	}
}

package client

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/fran314/bbup/pkg/core"
	"github.com/fran314/bbup/pkg/filesystem"
)

// executeActions materializes actions onto the real filesystem rooted at
// root, reading any content an action needs from staged (keyed by the
// action's path, populated by pull's content-fetch loop). It performs
// plain os-level operations rather than going through pkg/filesystem's
// descriptor-based Directory API, since that API is built around the
// teacher's transport-local rename-and-verify discipline and buys nothing
// extra here once content has already been staged and hash-verified.
func executeActions(root string, actions core.Actions, staged map[string]string) error {
	for _, entry := range actions {
		osPath := filepath.Join(root, filepath.FromSlash(entry.Path.String()))
		if err := executeAction(osPath, entry.Path.String(), entry.Action, staged); err != nil {
			return errors.Wrapf(err, "unable to apply action at %s", entry.Path)
		}
	}
	return nil
}

func executeAction(osPath, key string, action core.Action, staged map[string]string) error {
	switch action.Kind {
	case core.ActionAddDir:
		if err := os.MkdirAll(osPath, 0700); err != nil {
			return err
		}
		return chtimes(osPath, *action.Mtime)

	case core.ActionAddFile:
		if err := materializeFile(osPath, key, staged); err != nil {
			return err
		}
		return chtimes(osPath, *action.Mtime)

	case core.ActionAddSymLink:
		return materializeSymLink(osPath, key, staged)

	case core.ActionEditDir:
		return chtimes(osPath, *action.Mtime)

	case core.ActionEditFile:
		if action.Hash == nil {
			return chtimes(osPath, *action.Mtime)
		}
		if err := materializeFile(osPath, key, staged); err != nil {
			return err
		}
		return chtimes(osPath, *action.Mtime)

	case core.ActionEditSymLink:
		if action.Hash == nil {
			return nil
		}
		if err := os.Remove(osPath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return materializeSymLink(osPath, key, staged)

	case core.ActionRemoveDir:
		return os.Remove(osPath)

	case core.ActionRemoveFile, core.ActionRemoveSymLink:
		return os.Remove(osPath)
	}
	return nil
}

// materializeFile moves the staged content for key into place at osPath; the
// caller applies the action's mtime afterwards.
func materializeFile(osPath, key string, staged map[string]string) error {
	stagedPath, ok := staged[key]
	if !ok {
		return errors.Errorf("no staged content available for %s", key)
	}
	if err := os.MkdirAll(filepath.Dir(osPath), 0700); err != nil {
		return errors.Wrap(err, "unable to create parent directory")
	}
	if err := filesystem.Rename(nil, stagedPath, nil, osPath, true); err != nil {
		return errors.Wrap(err, "unable to promote staged file")
	}
	return nil
}

// materializeSymLink decodes the staged content for key back into an
// Endpoint and recreates the symlink it describes at osPath (§3.1).
func materializeSymLink(osPath, key string, staged map[string]string) error {
	stagedPath, ok := staged[key]
	if !ok {
		return errors.Errorf("no staged content available for %s", key)
	}
	data, err := os.ReadFile(stagedPath)
	if err != nil {
		return errors.Wrap(err, "unable to read staged symlink content")
	}
	endpoint, err := core.DecodeEndpoint(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(osPath), 0700); err != nil {
		return errors.Wrap(err, "unable to create parent directory")
	}
	if err := os.Remove(stagedPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "unable to discard staged symlink content")
	}
	if err := os.Symlink(endpoint.Target, osPath); err != nil {
		return errors.Wrap(err, "unable to create symlink")
	}
	return nil
}

// chtimes applies an Mtime to the file or directory at osPath. Access time
// is set equal to modification time, since nothing in the core tracks or
// compares access times.
func chtimes(osPath string, mtime core.Mtime) error {
	t := time.Unix(mtime.Seconds, int64(mtime.Nanoseconds))
	return os.Chtimes(osPath, t, t)
}

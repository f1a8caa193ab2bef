// Package staging provides a content-addressed scratch area for files in
// flight during a sync conversation (§5, §6.1): a received file is written
// here and hash-verified before it is promoted into the working tree (client
// pull) or the content store (server push), so a connection drop or a hash
// mismatch never leaves a half-written file at its final destination.
package staging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/fran314/bbup/pkg/filesystem"
	"github.com/fran314/bbup/pkg/hash"
	"github.com/fran314/bbup/pkg/logging"
	"github.com/fran314/bbup/pkg/must"
)

// Staging is a directory of in-flight, content-keyed files.
type Staging struct {
	root string
}

// New opens (creating if necessary) a staging area rooted at root.
func New(root string) (*Staging, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, errors.Wrap(err, "unable to create staging root")
	}
	return &Staging{root: root}, nil
}

// pathFor computes the staging path for h, sharded by its first byte to
// bound the number of entries in any single directory, mirroring the content
// store's own fan-out discipline (§6.2).
func (s *Staging) pathFor(h hash.Hash) (dir, path string) {
	dir = filepath.Join(s.root, fmt.Sprintf("%02x", h.Bytes()[0]))
	return dir, filepath.Join(dir, h.String())
}

// Reserve ensures the staging shard for want exists and returns the path at
// which its content should be written, without creating the file itself:
// the caller (typically wire.Conversation.GetFileWithHashCheck) creates and
// verifies it in one step.
func (s *Staging) Reserve(want hash.Hash) (string, error) {
	dir, path := s.pathFor(want)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", errors.Wrap(err, "unable to create staging shard")
	}
	return path, nil
}

// Promote atomically moves the staged content for want to destination,
// which must not already exist as a regular file with different content
// (the caller is expected to have already removed or is replacing whatever
// was previously at destination). It does not verify the hash; the content
// is verified when it is received (wire.Conversation.GetFileWithHashCheck).
func (s *Staging) Promote(want hash.Hash, destination string) error {
	_, path := s.pathFor(want)
	if err := os.MkdirAll(filepath.Dir(destination), 0700); err != nil {
		return errors.Wrap(err, "unable to create destination directory")
	}
	if err := filesystem.Rename(nil, path, nil, destination, true); err != nil {
		return errors.Wrap(err, "unable to promote staged file")
	}
	return nil
}

// Discard removes the staged content for h, if any.
func (s *Staging) Discard(h hash.Hash) {
	_, path := s.pathFor(h)
	must.OSRemove(path, logging.RootLogger)
}

// Package archive implements the server-side persistence layer described in
// §6.2: a single archive root holds one global snapshot and commit history,
// a shared content-addressed object store, and a registry of endpoint
// names, each of which is a single top-level directory within that global
// tree (the endpoint path used by rebase, §4.4 and §9's open-question
// resolution). Access to the archive's mutable state is always mediated by
// an exclusive lock (§5), acquired once per conversation by the caller.
package archive

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/fran314/bbup/pkg/core"
	"github.com/fran314/bbup/pkg/encoding"
	"github.com/fran314/bbup/pkg/filesystem"
	"github.com/fran314/bbup/pkg/filesystem/locking"
	"github.com/fran314/bbup/pkg/hash"
	"github.com/fran314/bbup/pkg/logging"
)

const (
	// endpointsFileName names the file at the archive root listing every
	// endpoint, one name per line (§3.2).
	endpointsFileName = "endpoints"
	// lockFileName names the file used for the archive's exclusive lock.
	lockFileName = "lock"
	// objectsDirName names the content-addressed object store directory.
	objectsDirName = "objects"
	// snapshotFileName names the archive's serialized global FSTree.
	snapshotFileName = "snapshot.gob"
	// historyFileName names the archive's serialized global CommitList.
	historyFileName = "history.gob"
)

// UnknownEndpointError indicates an operation referenced an endpoint name
// that has not been registered in the archive.
type UnknownEndpointError struct {
	Name string
}

func (e *UnknownEndpointError) Error() string {
	return "unknown endpoint: " + e.Name
}

// EndpointExistsError indicates an attempt to create an endpoint whose name
// is already registered.
type EndpointExistsError struct {
	Name string
}

func (e *EndpointExistsError) Error() string {
	return "endpoint already exists: " + e.Name
}

// InvalidEndpointNameError indicates an endpoint name is not a single path
// component, which would make it ambiguous as a rebase endpoint path (§9).
type InvalidEndpointNameError struct {
	Name string
}

func (e *InvalidEndpointNameError) Error() string {
	return "invalid endpoint name (must be a single path component): " + e.Name
}

// Archive is a handle onto a server-side archive root. It is not safe for
// concurrent use; callers serialize access via Lock/Unlock around each
// conversation, matching the single-threaded, synchronous core (§5).
type Archive struct {
	root   string
	locker *locking.Locker
}

// Open opens (initializing if necessary) the archive rooted at root. The
// archive starts out with an empty tree, a history containing only the
// base commit, and no registered endpoints.
func Open(root string) (*Archive, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, errors.Wrap(err, "unable to create archive root")
	}
	if err := os.MkdirAll(filepath.Join(root, objectsDirName), 0700); err != nil {
		return nil, errors.Wrap(err, "unable to create object store")
	}

	a := &Archive{root: root}

	if _, err := os.Stat(filepath.Join(root, snapshotFileName)); os.IsNotExist(err) {
		if err := a.SaveSnapshot(core.NewFSTree()); err != nil {
			return nil, err
		}
		if err := a.SaveHistory(core.NewCommitList()); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, errors.Wrap(err, "unable to stat snapshot")
	}

	endpointsPath := filepath.Join(root, endpointsFileName)
	if _, err := os.Stat(endpointsPath); os.IsNotExist(err) {
		if err := filesystem.WriteFileAtomic(endpointsPath, nil, 0600, logging.RootLogger); err != nil {
			return nil, errors.Wrap(err, "unable to create endpoints list")
		}
	} else if err != nil {
		return nil, errors.Wrap(err, "unable to stat endpoints list")
	}

	locker, err := locking.NewLocker(filepath.Join(root, lockFileName), 0600)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open archive lock")
	}
	a.locker = locker

	return a, nil
}

// Lock acquires the archive's exclusive lock, blocking if block is true. If
// block is false and the lock is already held, it returns an error
// immediately so the caller can reply with a "server occupied" status (§5).
func (a *Archive) Lock(block bool) error {
	return a.locker.Lock(block)
}

// Unlock releases the archive's exclusive lock.
func (a *Archive) Unlock() error {
	return a.locker.Unlock()
}

// Endpoints returns the names of every registered endpoint.
func (a *Archive) Endpoints() ([]string, error) {
	data, err := os.ReadFile(filepath.Join(a.root, endpointsFileName))
	if err != nil {
		return nil, errors.Wrap(err, "unable to read endpoints list")
	}
	return splitNonEmptyLines(string(data)), nil
}

// HasEndpoint reports whether name is a registered endpoint.
func (a *Archive) HasEndpoint(name string) (bool, error) {
	names, err := a.Endpoints()
	if err != nil {
		return false, err
	}
	for _, existing := range names {
		if existing == name {
			return true, nil
		}
	}
	return false, nil
}

// EndpointPath returns the single-component path at which an endpoint's
// subtree lives within the archive's global tree.
func EndpointPath(name string) core.AbstPath {
	return core.NewPath(name)
}

// CreateEndpoint registers a new top-level directory named name in the
// archive's global tree, recording the registration as a fresh commit. It
// fails if the name is already registered or is not a single path
// component.
func (a *Archive) CreateEndpoint(name string) error {
	if core.PathFromSlash(name).Len() != 1 {
		return &InvalidEndpointNameError{Name: name}
	}
	exists, err := a.HasEndpoint(name)
	if err != nil {
		return err
	}
	if exists {
		return &EndpointExistsError{Name: name}
	}

	tree, err := a.LoadSnapshot()
	if err != nil {
		return err
	}
	history, err := a.LoadHistory()
	if err != nil {
		return err
	}

	now := time.Now()
	delta := buildEndpointCreationDelta(name, core.NewMtime(now.Unix(), uint32(now.Nanosecond())))

	newTree, err := tree.ApplyDelta(delta)
	if err != nil {
		return errors.Wrap(err, "unable to apply endpoint creation to archive tree")
	}

	commitID, err := core.NewCommitID()
	if err != nil {
		return errors.Wrap(err, "unable to generate commit id")
	}
	history.Push(core.Commit{ID: commitID, Delta: delta})

	if err := a.SaveSnapshot(newTree); err != nil {
		return err
	}
	if err := a.SaveHistory(history); err != nil {
		return err
	}

	names, err := a.Endpoints()
	if err != nil {
		return err
	}
	names = append(names, name)

	var joined string
	for _, n := range names {
		joined += n + "\n"
	}
	if err := filesystem.WriteFileAtomic(
		filepath.Join(a.root, endpointsFileName), []byte(joined), 0600, logging.RootLogger,
	); err != nil {
		return errors.Wrap(err, "unable to update endpoints list")
	}
	return nil
}

// buildEndpointCreationDelta constructs the single-entry delta that adds an
// empty directory named name to the archive root.
func buildEndpointCreationDelta(name string, mtime core.Mtime) core.Delta {
	emptyTree := core.NewFSTree()
	node := &core.FSNode{
		Kind:     core.NodeKindDir,
		Mtime:    mtime,
		Hash:     core.HashTree(emptyTree),
		Children: emptyTree,
	}
	return core.GetDelta(core.NewFSTree(), core.FSTree{name: node})
}

// LoadSnapshot loads the archive's current global snapshot.
func (a *Archive) LoadSnapshot() (core.FSTree, error) {
	var tree core.FSTree
	path := filepath.Join(a.root, snapshotFileName)
	if err := encoding.LoadAndUnmarshalGob(path, &tree); err != nil {
		return nil, errors.Wrap(err, "unable to load snapshot")
	}
	return tree, nil
}

// SaveSnapshot atomically persists the archive's global snapshot.
func (a *Archive) SaveSnapshot(tree core.FSTree) error {
	path := filepath.Join(a.root, snapshotFileName)
	if err := encoding.MarshalAndSaveGob(path, &tree); err != nil {
		return errors.Wrap(err, "unable to save snapshot")
	}
	return nil
}

// LoadHistory loads the archive's global commit history.
func (a *Archive) LoadHistory() (core.CommitList, error) {
	var history core.CommitList
	path := filepath.Join(a.root, historyFileName)
	if err := encoding.LoadAndUnmarshalGob(path, &history); err != nil {
		return nil, errors.Wrap(err, "unable to load history")
	}
	return history, nil
}

// SaveHistory atomically persists the archive's global commit history.
func (a *Archive) SaveHistory(history core.CommitList) error {
	path := filepath.Join(a.root, historyFileName)
	if err := encoding.MarshalAndSaveGob(path, &history); err != nil {
		return errors.Wrap(err, "unable to save history")
	}
	return nil
}

// ObjectPath returns the path at which the blob with digest h is (or would
// be) stored: four levels of two-hex-digit directories followed by the full
// digest, to bound fan-out in any one directory (§6.2).
func (a *Archive) ObjectPath(h hash.Hash) string {
	hex := h.String()
	return filepath.Join(
		a.root, objectsDirName,
		hex[0:2], hex[2:4], hex[4:6], hex[6:8], hex,
	)
}

// HasObject reports whether a blob with digest h is already stored.
func (a *Archive) HasObject(h hash.Hash) (bool, error) {
	_, err := os.Stat(a.ObjectPath(h))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrap(err, "unable to stat object")
}

// OpenObject opens the blob with digest h for reading.
func (a *Archive) OpenObject(h hash.Hash) (*os.File, error) {
	file, err := os.Open(a.ObjectPath(h))
	if err != nil {
		return nil, errors.Wrap(err, "unable to open object")
	}
	return file, nil
}

// StoreObject atomically promotes a staged file known to hash to h into the
// object store. Writing the same hash twice is idempotent, matching the
// store's append-only, content-addressed contract (§5): if the object is
// already present, stagedPath is discarded instead.
func (a *Archive) StoreObject(h hash.Hash, stagedPath string) error {
	if exists, err := a.HasObject(h); err != nil {
		return err
	} else if exists {
		return os.Remove(stagedPath)
	}

	destination := a.ObjectPath(h)
	if err := os.MkdirAll(filepath.Dir(destination), 0700); err != nil {
		return errors.Wrap(err, "unable to create object shard")
	}
	if err := filesystem.Rename(nil, stagedPath, nil, destination, false); err != nil {
		return errors.Wrap(err, "unable to store object")
	}
	return nil
}

// splitNonEmptyLines splits s on newlines, discarding empty lines.
func splitNonEmptyLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	return lines
}

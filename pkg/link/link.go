// Package link implements the client-side control directory described in
// §6.2: the state a sync root keeps about the endpoint it is bound to, so
// that a subsequent sync knows what it last saw without re-scanning the
// archive from scratch.
package link

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/fran314/bbup/pkg/core"
	"github.com/fran314/bbup/pkg/encoding"
	"github.com/fran314/bbup/pkg/filesystem"
	"github.com/fran314/bbup/pkg/logging"
)

// ControlDirName is the reserved directory name, at the root of a link,
// that holds its control state. It is always excluded from synchronization
// (see the built-in rule in pkg/core's ExcludeList).
const ControlDirName = ".bbup"

const (
	commitFileName   = "commit.gob"
	snapshotFileName = "snapshot.gob"
	bindingFileName  = "binding.gob"
	excludeFileName  = "exclude"
)

// NotLinkedError indicates that a directory has no control directory, i.e.
// it has never been initialized as a link root.
type NotLinkedError struct {
	Root string
}

func (e *NotLinkedError) Error() string {
	return "not a link root (no control directory): " + e.Root
}

// Binding records which archive endpoint a link root is attached to.
type Binding struct {
	Host     string
	Port     int
	Endpoint string
}

// Link is a handle onto a client-side sync root: the working directory plus
// its control directory.
type Link struct {
	root string
}

// controlDir returns the path of root's control directory.
func controlDir(root string) string {
	return filepath.Join(root, ControlDirName)
}

// IsLinked reports whether root already has a control directory.
func IsLinked(root string) bool {
	info, err := os.Stat(controlDir(root))
	return err == nil && info.IsDir()
}

// Init creates root's control directory and binds it to the given endpoint,
// starting from the null commit and an empty snapshot (i.e. as if nothing
// has ever been pulled). It fails if root is already linked.
func Init(root string, binding Binding, excludeRules []string) (*Link, error) {
	if IsLinked(root) {
		return nil, errors.New("link root is already initialized: " + root)
	}
	if err := os.MkdirAll(controlDir(root), 0700); err != nil {
		return nil, errors.Wrap(err, "unable to create control directory")
	}

	link := &Link{root: root}
	if err := link.SaveBinding(binding); err != nil {
		return nil, err
	}
	if err := link.SaveLastKnownCommit(core.NullCommitID()); err != nil {
		return nil, err
	}
	if err := link.SaveLastKnownSnapshot(core.NewFSTree()); err != nil {
		return nil, err
	}
	if err := link.SaveExcludeRules(excludeRules); err != nil {
		return nil, err
	}
	return link, nil
}

// Open opens the link rooted at root. It fails with *NotLinkedError if root
// has no control directory.
func Open(root string) (*Link, error) {
	if !IsLinked(root) {
		return nil, &NotLinkedError{Root: root}
	}
	return &Link{root: root}, nil
}

// Root returns the link's working directory.
func (l *Link) Root() string {
	return l.root
}

// Binding returns the archive endpoint this link is bound to.
func (l *Link) Binding() (Binding, error) {
	var binding Binding
	path := filepath.Join(controlDir(l.root), bindingFileName)
	if err := encoding.LoadAndUnmarshalGob(path, &binding); err != nil {
		return Binding{}, errors.Wrap(err, "unable to load binding")
	}
	return binding, nil
}

// SaveBinding atomically persists the link's endpoint binding.
func (l *Link) SaveBinding(binding Binding) error {
	path := filepath.Join(controlDir(l.root), bindingFileName)
	if err := encoding.MarshalAndSaveGob(path, &binding); err != nil {
		return errors.Wrap(err, "unable to save binding")
	}
	return nil
}

// LastKnownCommit returns the id of the commit this link last synced to.
func (l *Link) LastKnownCommit() (core.CommitID, error) {
	var id core.CommitID
	path := filepath.Join(controlDir(l.root), commitFileName)
	if err := encoding.LoadAndUnmarshalGob(path, &id); err != nil {
		return core.CommitID{}, errors.Wrap(err, "unable to load last-known commit")
	}
	return id, nil
}

// SaveLastKnownCommit atomically persists the link's last-known commit id.
// It is updated only at the successful end of a pull or push (§5).
func (l *Link) SaveLastKnownCommit(id core.CommitID) error {
	path := filepath.Join(controlDir(l.root), commitFileName)
	if err := encoding.MarshalAndSaveGob(path, &id); err != nil {
		return errors.Wrap(err, "unable to save last-known commit")
	}
	return nil
}

// LastKnownSnapshot returns the tree this link last saw, used to compute the
// local delta for reconciliation (§4.8).
func (l *Link) LastKnownSnapshot() (core.FSTree, error) {
	var tree core.FSTree
	path := filepath.Join(controlDir(l.root), snapshotFileName)
	if err := encoding.LoadAndUnmarshalGob(path, &tree); err != nil {
		return nil, errors.Wrap(err, "unable to load last-known snapshot")
	}
	return tree, nil
}

// SaveLastKnownSnapshot atomically persists the link's last-known snapshot.
func (l *Link) SaveLastKnownSnapshot(tree core.FSTree) error {
	path := filepath.Join(controlDir(l.root), snapshotFileName)
	if err := encoding.MarshalAndSaveGob(path, &tree); err != nil {
		return errors.Wrap(err, "unable to save last-known snapshot")
	}
	return nil
}

// ExcludeRules returns the link's locally configured exclude rules, one
// per line of the control directory's exclude file.
func (l *Link) ExcludeRules() ([]string, error) {
	path := filepath.Join(controlDir(l.root), excludeFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "unable to read exclude rules")
	}

	var rules []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			rules = append(rules, line)
		}
	}
	return rules, nil
}

// SaveExcludeRules atomically persists the link's exclude rules.
func (l *Link) SaveExcludeRules(rules []string) error {
	path := filepath.Join(controlDir(l.root), excludeFileName)
	if err := filesystem.WriteFileAtomic(
		path, []byte(strings.Join(rules, "\n")), 0600, logging.RootLogger,
	); err != nil {
		return errors.Wrap(err, "unable to save exclude rules")
	}
	return nil
}

// ExcludeList builds the link's full ExcludeList, combining its configured
// rules with the package-wide built-in control-directory rule.
func (l *Link) ExcludeList() (*core.ExcludeList, error) {
	rules, err := l.ExcludeRules()
	if err != nil {
		return nil, err
	}
	return core.NewExcludeList(rules)
}

// Package client drives a sync conversation from the link-root side: pull
// first, then push, exactly mirroring spec.md's §6.1 job sequence and using
// pkg/link for the persisted client-side state it reads and updates at each
// job's successful completion.
package client

import (
	"net"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/fran314/bbup/pkg/bbup"
	"github.com/fran314/bbup/pkg/core"
	"github.com/fran314/bbup/pkg/link"
	"github.com/fran314/bbup/pkg/scan"
	"github.com/fran314/bbup/pkg/staging"
	"github.com/fran314/bbup/pkg/wire"
)

// jobType mirrors the server's job selector (§6.1).
type jobType uint8

const (
	jobPull jobType = iota
	jobPush
	jobQuit
)

// ConflictError is returned by Sync when pull-side reconciliation could not
// produce an unambiguous action plan (§4.8).
type ConflictError struct {
	Conflicts core.Conflicts
}

func (e *ConflictError) Error() string {
	return "sync reconciliation produced unresolved conflicts"
}

// Client drives a sync conversation against a single link root.
type Client struct {
	Link *link.Link
}

// Sync performs a full conversation over conn: it sends the link's bound
// endpoint name, then runs a pull job followed by a push job, then quits
// (§6.1). stagingDir buffers incoming file content before it is verified
// and applied.
func (c *Client) Sync(conn net.Conn, stagingDir string) error {
	if err := bbup.SendVersion(conn); err != nil {
		return errors.Wrap(err, "unable to send protocol version")
	}

	conv := wire.NewConversation(conn)
	if err := conv.CheckOK(); err != nil {
		return errors.Wrap(err, "server did not accept conversation")
	}

	binding, err := c.Link.Binding()
	if err != nil {
		return err
	}
	if err := conv.SendStruct(binding.Endpoint); err != nil {
		return errors.Wrap(err, "unable to send endpoint name")
	}

	stage, err := staging.New(stagingDir)
	if err != nil {
		return err
	}

	exclude, err := c.Link.ExcludeList()
	if err != nil {
		return err
	}

	if err := c.pull(conv, exclude, stage); err != nil {
		return err
	}
	if err := c.push(conv, exclude); err != nil {
		return err
	}

	if err := conv.SendStruct(jobQuit); err != nil {
		return errors.Wrap(err, "unable to send quit job")
	}
	return conv.CheckOK()
}

// pull runs a single pull job: fetch the update delta since the last known
// commit, reconcile it against local changes, fetch any content it needs,
// and apply the resulting actions to the working tree (§6.1).
func (c *Client) pull(conv *wire.Conversation, exclude *core.ExcludeList, stage *staging.Staging) error {
	if err := conv.SendStruct(jobPull); err != nil {
		return errors.Wrap(err, "unable to send pull job")
	}

	lastKnownCommit, err := c.Link.LastKnownCommit()
	if err != nil {
		return err
	}
	if err := conv.SendStruct(lastKnownCommit); err != nil {
		return errors.Wrap(err, "unable to send last-known commit")
	}

	var updateDelta core.Delta
	if err := conv.GetStruct(&updateDelta); err != nil {
		return errors.Wrap(err, "unable to receive update delta")
	}
	var headCommitID core.CommitID
	if err := conv.GetStruct(&headCommitID); err != nil {
		return errors.Wrap(err, "unable to receive head commit id")
	}

	updateDelta.FilterOut(exclude)

	lastKnownSnapshot, err := c.Link.LastKnownSnapshot()
	if err != nil {
		return err
	}
	currentTree, err := scan.Scan(core.PathFromSlash(c.Link.Root()), exclude, nil)
	if err != nil {
		return errors.Wrap(err, "unable to scan working tree")
	}
	localDelta := core.GetDelta(lastKnownSnapshot, currentTree)

	actions, conflicts := core.GetActionsOrConflicts(localDelta, updateDelta)
	if !conflicts.IsEmpty() {
		return &ConflictError{Conflicts: conflicts}
	}

	queries := contentActions(actions)
	queryPaths := make([]core.AbstPath, len(queries))
	for i, entry := range queries {
		queryPaths[i] = entry.Path
	}
	if err := conv.SendStruct(queryPaths); err != nil {
		return errors.Wrap(err, "unable to send content queries")
	}

	staged := make(map[string]string, len(queries))
	for _, entry := range queries {
		want := *entry.Action.Hash
		stagedPath, err := stage.Reserve(want)
		if err != nil {
			return err
		}
		if err := conv.GetFileWithHashCheck(stagedPath, want); err != nil {
			return errors.Wrapf(err, "unable to receive content for path %s", entry.Path)
		}
		staged[entry.Path.String()] = stagedPath
	}

	if err := executeActions(c.Link.Root(), actions, staged); err != nil {
		return err
	}
	newTree, err := scan.Scan(core.PathFromSlash(c.Link.Root()), exclude, nil)
	if err != nil {
		return errors.Wrap(err, "unable to rescan working tree after applying actions")
	}

	if err := c.Link.SaveLastKnownCommit(headCommitID); err != nil {
		return err
	}
	return c.Link.SaveLastKnownSnapshot(newTree)
}

// push runs a single push job: scan for changes since the last pull,
// submit them, provide whatever content the server requests, and record
// the commit id it returns (§6.1).
func (c *Client) push(conv *wire.Conversation, exclude *core.ExcludeList) error {
	if err := conv.SendStruct(jobPush); err != nil {
		return errors.Wrap(err, "unable to send push job")
	}
	if err := conv.CheckOK(); err != nil {
		return errors.Wrap(err, "server did not greenlight push")
	}

	lastKnownSnapshot, err := c.Link.LastKnownSnapshot()
	if err != nil {
		return err
	}
	currentTree, err := scan.Scan(core.PathFromSlash(c.Link.Root()), exclude, nil)
	if err != nil {
		return errors.Wrap(err, "unable to scan working tree")
	}
	localDelta := core.GetDelta(lastKnownSnapshot, currentTree)

	if err := conv.SendStruct(localDelta); err != nil {
		return errors.Wrap(err, "unable to send local delta")
	}

	var queries []core.AbstPath
	if err := conv.GetStruct(&queries); err != nil {
		return errors.Wrap(err, "unable to receive content queries")
	}

	for _, path := range queries {
		osPath := filepath.Join(c.Link.Root(), filepath.FromSlash(path.String()))
		if err := conv.SendFile(osPath); err != nil {
			return errors.Wrapf(err, "unable to send content for path %s", path)
		}
	}

	var newCommitID core.CommitID
	if err := conv.GetStruct(&newCommitID); err != nil {
		return errors.Wrap(err, "unable to receive new commit id")
	}

	if err := c.Link.SaveLastKnownCommit(newCommitID); err != nil {
		return err
	}
	return c.Link.SaveLastKnownSnapshot(currentTree)
}

// actionEntry is the externally-visible shape of a single core.Actions
// element, used only for local filtering below.
type actionEntry = struct {
	Path   core.AbstPath
	Action core.Action
}

// contentActions returns, in order, every action that requires fetched
// content: an add or edit carrying a content hash.
func contentActions(actions core.Actions) []actionEntry {
	var result []actionEntry
	for _, entry := range actions {
		switch entry.Action.Kind {
		case core.ActionAddFile, core.ActionAddSymLink, core.ActionEditFile, core.ActionEditSymLink:
			if entry.Action.Hash != nil {
				result = append(result, actionEntry(entry))
			}
		}
	}
	return result
}

// Package server drives a sync conversation from the archive side: accept
// (or reject, if the archive is already busy) a conversation, bind it to an
// endpoint name, then service pull and push jobs against the archive's
// global state until the client quits, exactly mirroring spec.md's §6.1 job
// sequence.
package server

import (
	"net"

	"github.com/pkg/errors"

	"github.com/fran314/bbup/pkg/archive"
	"github.com/fran314/bbup/pkg/bbup"
	"github.com/fran314/bbup/pkg/core"
	"github.com/fran314/bbup/pkg/hash"
	"github.com/fran314/bbup/pkg/staging"
	"github.com/fran314/bbup/pkg/wire"
)

// jobType mirrors the client's job selector (§6.1).
type jobType uint8

const (
	jobPull jobType = iota
	jobPush
	jobQuit
)

// statusBusy is sent in place of the initial OK when the archive's
// exclusive lock is already held by another conversation (§5).
const statusBusy = 1

// statusVersionMismatch is sent in place of the initial OK when the client
// speaks a different protocol version, since the wire protocol has no
// negotiation step to fall back on.
const statusVersionMismatch = 2

// Server services sync conversations against a single archive.
type Server struct {
	Archive    *archive.Archive
	StagingDir string
}

// Handle services a single client conversation over conn end to end,
// including acquiring and releasing the archive's exclusive lock around it
// (§5): only one conversation may touch the archive's persisted state at a
// time.
func (s *Server) Handle(conn net.Conn) error {
	conv := wire.NewConversation(conn)

	if matches, err := bbup.ReceiveAndCompareVersion(conn); err != nil {
		return errors.Wrap(err, "unable to receive protocol version")
	} else if !matches {
		_ = conv.SendError(statusVersionMismatch, "client protocol version does not match server")
		return errors.New("client protocol version mismatch")
	}

	if err := s.Archive.Lock(false); err != nil {
		_ = conv.SendError(statusBusy, "archive is in use by another conversation")
		return errors.Wrap(err, "unable to acquire archive lock")
	}
	defer s.Archive.Unlock()

	if err := conv.SendOK(); err != nil {
		return errors.Wrap(err, "unable to accept conversation")
	}

	var endpointName string
	if err := conv.GetStruct(&endpointName); err != nil {
		return errors.Wrap(err, "unable to receive endpoint name")
	}
	exists, err := s.Archive.HasEndpoint(endpointName)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.Archive.CreateEndpoint(endpointName); err != nil {
			return errors.Wrapf(err, "unable to register endpoint %s", endpointName)
		}
	}

	stage, err := staging.New(s.StagingDir)
	if err != nil {
		return err
	}

	for {
		var job jobType
		if err := conv.GetStruct(&job); err != nil {
			return errors.Wrap(err, "unable to receive job selector")
		}
		switch job {
		case jobPull:
			if err := s.pull(conv, endpointName); err != nil {
				return err
			}
		case jobPush:
			if err := s.push(conv, endpointName, stage); err != nil {
				return err
			}
		case jobQuit:
			return conv.SendOK()
		default:
			return errors.Errorf("unrecognized job selector %d", job)
		}
	}
}

// pull sends the client everything recorded since its last-known commit,
// scoped to its endpoint, then streams whatever content the client
// determines it's missing (§6.1).
func (s *Server) pull(conv *wire.Conversation, endpointName string) error {
	var lastKnown core.CommitID
	if err := conv.GetStruct(&lastKnown); err != nil {
		return errors.Wrap(err, "unable to receive last-known commit")
	}

	history, err := s.Archive.LoadHistory()
	if err != nil {
		return err
	}
	updateDelta, err := history.GetUpdateDelta(lastKnown)
	if err != nil {
		return errors.Wrap(err, "unable to compute update delta")
	}

	endpointDelta, ok := updateDelta.GetSubdeltaTreeCopy(archive.EndpointPath(endpointName))
	if !ok {
		endpointDelta = core.NewDelta()
	}
	headCommit := history.MostRecent()

	if err := conv.SendStruct(endpointDelta); err != nil {
		return errors.Wrap(err, "unable to send update delta")
	}
	if err := conv.SendStruct(headCommit.ID); err != nil {
		return errors.Wrap(err, "unable to send head commit id")
	}

	var queryPaths []core.AbstPath
	if err := conv.GetStruct(&queryPaths); err != nil {
		return errors.Wrap(err, "unable to receive content queries")
	}

	hashes := contentHashes(endpointDelta.ToActions())
	for _, path := range queryPaths {
		want, ok := hashes[path.String()]
		if !ok {
			return errors.Errorf("query for path %s is not part of the sent delta", path)
		}
		if err := conv.SendFile(s.Archive.ObjectPath(want)); err != nil {
			return errors.Wrapf(err, "unable to send content for path %s", path)
		}
	}
	return nil
}

// push greenlights the client to submit its local delta, requests whatever
// content that delta needs, rebases it onto the archive's current state,
// applies and persists the result as a fresh commit, and reports the new
// commit id back (§6.1).
func (s *Server) push(conv *wire.Conversation, endpointName string, stage *staging.Staging) error {
	if err := conv.SendOK(); err != nil {
		return errors.Wrap(err, "unable to greenlight push")
	}

	var localDelta core.Delta
	if err := conv.GetStruct(&localDelta); err != nil {
		return errors.Wrap(err, "unable to receive local delta")
	}

	hashes := contentHashes(localDelta.ToActions())
	queryPaths := make([]core.AbstPath, 0, len(hashes))
	for key := range hashes {
		queryPaths = append(queryPaths, core.PathFromSlash(key))
	}
	if err := conv.SendStruct(queryPaths); err != nil {
		return errors.Wrap(err, "unable to send content queries")
	}

	for _, path := range queryPaths {
		want := hashes[path.String()]
		stagedPath, err := stage.Reserve(want)
		if err != nil {
			return err
		}
		if err := conv.GetFileWithHashCheck(stagedPath, want); err != nil {
			return errors.Wrapf(err, "unable to receive content for path %s", path)
		}
		if err := s.Archive.StoreObject(want, stagedPath); err != nil {
			return errors.Wrapf(err, "unable to store content for path %s", path)
		}
	}

	tree, err := s.Archive.LoadSnapshot()
	if err != nil {
		return err
	}
	history, err := s.Archive.LoadHistory()
	if err != nil {
		return err
	}

	endpointPath := archive.EndpointPath(endpointName)
	rebasedDelta, err := localDelta.RebaseFromTreeAtEndpoint(tree, endpointPath)
	if err != nil {
		return errors.Wrap(err, "unable to rebase incoming delta onto archive state")
	}

	newCommitID := history.MostRecent().ID
	if !rebasedDelta.IsEmpty() {
		endpointNode, ok := tree[endpointName]
		if !ok {
			return &archive.UnknownEndpointError{Name: endpointName}
		}
		globalDelta := core.Delta{
			endpointName: &core.DeltaNode{
				IsBranch:  true,
				PreMtime:  endpointNode.Mtime,
				PostMtime: endpointNode.Mtime,
				SubDelta:  rebasedDelta,
			},
		}

		newTree, err := tree.ApplyDelta(globalDelta)
		if err != nil {
			return errors.Wrap(err, "unable to apply rebased delta to archive")
		}
		id, err := core.NewCommitID()
		if err != nil {
			return errors.Wrap(err, "unable to generate commit id")
		}
		history.Push(core.Commit{ID: id, Delta: globalDelta})

		if err := s.Archive.SaveSnapshot(newTree); err != nil {
			return err
		}
		if err := s.Archive.SaveHistory(history); err != nil {
			return err
		}
		newCommitID = id
	}

	return conv.SendStruct(newCommitID)
}

// contentHashes maps each action's path to the content hash it needs,
// considering only the adds and edits that carry one.
func contentHashes(actions core.Actions) map[string]hash.Hash {
	result := make(map[string]hash.Hash)
	for _, entry := range actions {
		switch entry.Action.Kind {
		case core.ActionAddFile, core.ActionAddSymLink, core.ActionEditFile, core.ActionEditSymLink:
			if entry.Action.Hash != nil {
				result[entry.Path.String()] = *entry.Action.Hash
			}
		}
	}
	return result
}

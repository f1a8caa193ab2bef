package core

import (
	"crypto/rand"

	"github.com/fran314/bbup/pkg/hash"
)

// CommitID uniquely identifies a commit in a CommitList. It is an opaque
// random value rather than a hash of the commit's content, so that two
// commits recording the same delta remain distinguishable (§4.10).
type CommitID = hash.Hash

// NullCommitID is the sentinel id of the base commit that every CommitList
// starts with, representing "no history known yet".
func NullCommitID() CommitID {
	return CommitID{}
}

// NewCommitID draws a fresh random commit id. It returns an error rather
// than panicking if the system randomness source is unavailable, since a
// read failure here is an environment problem a caller may want to retry or
// report rather than one this package should treat as unreachable.
func NewCommitID() (CommitID, error) {
	var id CommitID
	if _, err := rand.Read(id[:]); err != nil {
		return CommitID{}, err
	}
	return id, nil
}

// Commit pairs an id with the delta it records relative to the commit
// immediately before it in a CommitList (§4.10).
type Commit struct {
	ID    CommitID
	Delta Delta
}

// BaseCommit is the commit every CommitList implicitly starts with: the
// null id paired with an empty delta.
func BaseCommit() Commit {
	return Commit{ID: NullCommitID(), Delta: NewDelta()}
}

// CommitList is the ordered history of commits accepted from a remote peer,
// oldest first, always beginning with BaseCommit (§4.10).
type CommitList []Commit

// NewCommitList constructs a CommitList containing only the base commit.
func NewCommitList() CommitList {
	return CommitList{BaseCommit()}
}

// MostRecent returns the last commit in the list.
func (c CommitList) MostRecent() Commit {
	return c[len(c)-1]
}

// Push appends a new commit to the list.
func (c *CommitList) Push(commit Commit) {
	*c = append(*c, commit)
}

// GetUpdateDelta computes the single delta that transforms the tree as of
// lastKnown into the tree as of the most recent commit, by merging every
// commit after lastKnown in order (§4.10). It fails with a
// *MissingCommitError if lastKnown is not present in the list, or a
// *MergeCommitError if two of the intervening commits' deltas cannot be
// composed.
func (c CommitList) GetUpdateDelta(lastKnown CommitID) (Delta, error) {
	cutoff := -1
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].ID == lastKnown {
			cutoff = i
			break
		}
	}
	if cutoff == -1 {
		return nil, &MissingCommitError{CommitID: lastKnown}
	}

	result := NewDelta()
	for i := len(c) - 1; i > cutoff; i-- {
		if err := result.MergePrec(c[i].Delta); err != nil {
			return nil, &MergeCommitError{CommitID: c[i].ID, Cause: err}
		}
	}
	return result, nil
}

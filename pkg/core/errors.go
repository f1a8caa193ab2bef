package core

import "fmt"

// InapplicableDeltaError indicates that a delta could not be applied to (or
// undone from) a tree because the tree's actual state did not match what
// the delta expected to find (§7).
type InapplicableDeltaError struct {
	Path   AbstPath
	Reason string
}

func (e *InapplicableDeltaError) Error() string {
	return fmt.Sprintf("inapplicable delta at path %q: %s", e.Path, e.Reason)
}

// UnmergeableDeltaError indicates that two deltas could not be composed
// because they disagreed on the state of some overlapping object (§7).
type UnmergeableDeltaError struct {
	Path   AbstPath
	Reason string
}

func (e *UnmergeableDeltaError) Error() string {
	return fmt.Sprintf("unmergeable delta at path %q: %s", e.Path, e.Reason)
}

// UnrebasableDeltaError indicates that a delta could not be rebased onto a
// tree because the endpoint path did not resolve to a directory in that
// tree (§7).
type UnrebasableDeltaError struct {
	Path   AbstPath
	Reason string
}

func (e *UnrebasableDeltaError) Error() string {
	return fmt.Sprintf("unrebasable delta at path %q: %s", e.Path, e.Reason)
}

// UnparsableRuleError indicates that an exclude rule failed to compile as a
// regular expression (§7).
type UnparsableRuleError struct {
	Rule  string
	Cause error
}

func (e *UnparsableRuleError) Error() string {
	return fmt.Sprintf("unparsable exclude rule %q: %v", e.Rule, e.Cause)
}

func (e *UnparsableRuleError) Unwrap() error {
	return e.Cause
}

// MissingCommitError indicates that a requested last-known-commit id is not
// present in the commit list (§7).
type MissingCommitError struct {
	CommitID CommitID
}

func (e *MissingCommitError) Error() string {
	return fmt.Sprintf("get update delta: commit id does not exist: %s", e.CommitID)
}

// MergeCommitError indicates that computing an update delta failed because
// two commits' deltas could not be merged (§7).
type MergeCommitError struct {
	CommitID CommitID
	Cause    error
}

func (e *MergeCommitError) Error() string {
	return fmt.Sprintf("get update delta: failed to merge delta for commit %s: %v", e.CommitID, e.Cause)
}

func (e *MergeCommitError) Unwrap() error {
	return e.Cause
}

package core

import "github.com/fran314/bbup/pkg/hash"

// ActionKind identifies the kind of filesystem operation an Action
// describes (§4.8).
type ActionKind uint8

const (
	ActionAddDir ActionKind = iota
	ActionAddFile
	ActionAddSymLink
	ActionEditDir
	ActionEditFile
	ActionEditSymLink
	ActionRemoveDir
	ActionRemoveFile
	ActionRemoveSymLink
)

// Action is a single, directly-executable filesystem operation. Mtime and
// Hash are populated only for the kinds that need them: Add* and Edit* carry
// the new mtime, Add(File|SymLink) carry the content hash, and
// Edit(File|SymLink) carry the new content hash only when the content
// changed (a nil Hash marks an mtime-only edit); Remove* carries neither.
type Action struct {
	Kind  ActionKind
	Mtime *Mtime
	Hash  *hash.Hash
}

type actionEntry struct {
	Path   AbstPath
	Action Action
}

// Actions is an ordered list of filesystem operations to perform, in an
// order that is always safe to execute sequentially (parents created before
// children, children removed before parents) (§4.8).
type Actions []actionEntry

// Push appends a single action at path.
func (a *Actions) Push(path AbstPath, action Action) {
	*a = append(*a, actionEntry{Path: path, Action: action})
}

// Append concatenates other onto the receiver.
func (a *Actions) Append(other Actions) {
	*a = append(*a, other...)
}

// WithPrefix returns a copy of the actions with prefix prepended to every
// path.
func (a Actions) WithPrefix(prefix AbstPath) Actions {
	result := make(Actions, len(a))
	for i, entry := range a {
		result[i] = actionEntry{Path: prefix.Append(entry.Path), Action: entry.Action}
	}
	return result
}

func mtimePtr(m Mtime) *Mtime {
	v := m
	return &v
}

func hashPtr(h hash.Hash) *hash.Hash {
	v := h
	return &v
}

// toAddActions expands a node that is being added wholesale into the
// sequence of actions needed to materialize it: for a file or symlink, a
// single Add action; for a directory, an AddDir followed by the expansion
// of every child, in that order so that the parent always exists before its
// children are created.
func (n *FSNode) toAddActions() Actions {
	var result Actions
	switch n.Kind {
	case NodeKindFile:
		result.Push(nil, Action{Kind: ActionAddFile, Mtime: mtimePtr(n.Mtime), Hash: hashPtr(n.Hash)})
	case NodeKindSymLink:
		result.Push(nil, Action{Kind: ActionAddSymLink, Mtime: mtimePtr(n.Mtime), Hash: hashPtr(n.Hash)})
	case NodeKindDir:
		result.Push(nil, Action{Kind: ActionAddDir, Mtime: mtimePtr(n.Mtime)})
		result.Append(n.Children.toAddActions())
	}
	return result
}

// toAddActions expands every entry of a tree being added wholesale.
func (t FSTree) toAddActions() Actions {
	var result Actions
	for name, node := range t {
		result.Append(node.toAddActions().WithPrefix(NewPath(name)))
	}
	return result
}

// toRemoveActions expands a node that is being removed wholesale into the
// sequence of actions needed to delete it: children removed before their
// parent directory.
func (n *FSNode) toRemoveActions() Actions {
	var result Actions
	switch n.Kind {
	case NodeKindFile:
		result.Push(nil, Action{Kind: ActionRemoveFile})
	case NodeKindSymLink:
		result.Push(nil, Action{Kind: ActionRemoveSymLink})
	case NodeKindDir:
		for name, child := range n.Children {
			result.Append(child.toRemoveActions().WithPrefix(NewPath(name)))
		}
		result.Push(nil, Action{Kind: ActionRemoveDir})
	}
	return result
}

// ToActions flattens a shaken delta into an ordered sequence of actions
// (§4.8). It panics when it meets an unshaken entry that has no action
// representation (a Leaf(Dir, Dir) or an empty leaf), mirroring the
// originating implementation's treatment of that situation as an internal
// invariant violation rather than a recoverable error. Other unshaken
// entries are not detected: a leaf with equal pre and post states yields an
// edit action, and a branch with no change yields an EditDir.
func (d Delta) ToActions() Actions {
	var result Actions
	for name, node := range d {
		result.Append(node.toActions().WithPrefix(NewPath(name)))
	}
	return result
}

func (n *DeltaNode) toActions() Actions {
	var result Actions

	if n.IsBranch {
		result.Push(nil, Action{Kind: ActionEditDir, Mtime: mtimePtr(n.PostMtime)})
		result.Append(n.SubDelta.ToActions())
		return result
	}

	switch {
	case n.Pre == nil && n.Post != nil:
		result.Append(n.Post.toAddActions())
	case n.Pre != nil && n.Post == nil:
		result.Append(n.Pre.toRemoveActions())
	case n.Pre != nil && n.Post != nil:
		if n.Pre.Kind == NodeKindDir && n.Post.Kind == NodeKindDir {
			panic("core: trying to flatten an unshaken delta (Leaf(Dir, Dir) should have been expressed as a Branch)")
		}
		if n.Pre.Kind != n.Post.Kind {
			result.Append(n.Pre.toRemoveActions())
			result.Append(n.Post.toAddActions())
			return result
		}
		switch n.Post.Kind {
		case NodeKindFile:
			result.Push(nil, Action{Kind: ActionEditFile, Mtime: mtimePtr(n.Post.Mtime), Hash: hashPtr(n.Post.Hash)})
		case NodeKindSymLink:
			result.Push(nil, Action{Kind: ActionEditSymLink, Mtime: mtimePtr(n.Post.Mtime), Hash: hashPtr(n.Post.Hash)})
		}
	default:
		panic("core: trying to flatten an unshaken delta (empty leaf delta node)")
	}
	return result
}

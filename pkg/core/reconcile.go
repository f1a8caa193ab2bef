package core

// ConflictNode records why local and missed could not be reconciled
// automatically for a single entry. Local and Missed are both set, to the
// two sides' nodes, for a leaf-vs-leaf (or leaf-vs-branch) conflict, and
// for two installed directories that could not be reconciled; both are
// unset and IsBranch
// is true with a non-empty Sub when the conflict lies further down a
// directory that both sides touched (§4.9).
type ConflictNode struct {
	IsBranch bool
	Sub      Conflicts

	Local  *DeltaNode
	Missed *DeltaNode
}

// Conflicts is a mapping from child name to the conflict recorded there.
type Conflicts map[string]*ConflictNode

// IsEmpty reports whether no conflicts were recorded.
func (c Conflicts) IsEmpty() bool {
	return len(c) == 0
}

// GetActionsOrConflicts computes the actions needed to bring the working
// copy - which already reflects local, the changes made since the last
// sync - up to date with missed as well - the changes a remote peer
// accepted since the last sync - without undoing any local change, or the
// conflicts that prevent doing so automatically (§4.9). When conflicts are
// returned, actions is always empty: a directory that contains any
// unresolved conflict anywhere beneath it is withheld entirely, since
// applying a partial update could leave the working copy and its recorded
// history inconsistent with each other.
//
// Only entries missed actually touches are considered: anything local
// touched but missed did not is already reflected in the working copy and
// needs no further action here.
func GetActionsOrConflicts(local, missed Delta) (Actions, Conflicts) {
	actions, conflicts := addTreeActionsOrConflicts(local, missed)
	if !conflicts.IsEmpty() {
		return nil, conflicts
	}
	return actions, nil
}

func addTreeActionsOrConflicts(local, missed Delta) (Actions, Conflicts) {
	actions := Actions{}
	conflicts := Conflicts{}

	for name, missNode := range missed {
		locNode, ok := local[name]
		if !ok {
			// missed touched something local never touched: pull it in.
			actions.Append(missNode.toActions().WithPrefix(NewPath(name)))
			continue
		}

		switch {
		// Both sides changed the same directory in place: recurse on the
		// subdeltas and always land on missed's post mtime, since the
		// subactions executed first will likely have changed the
		// directory's actual mtime on the file system anyway.
		case locNode.IsBranch && missNode.IsBranch:
			subActions, subConflicts := addTreeActionsOrConflicts(locNode.SubDelta, missNode.SubDelta)
			if !subConflicts.IsEmpty() {
				conflicts[name] = &ConflictNode{IsBranch: true, Sub: subConflicts}
				continue
			}
			subActions.Push(nil, Action{Kind: ActionEditDir, Mtime: mtimePtr(missNode.PostMtime)})
			actions.Append(subActions.WithPrefix(NewPath(name)))

		// Both sides removed the object: compatible, nothing further to do.
		case !locNode.IsBranch && !missNode.IsBranch && locNode.Post == nil && missNode.Post == nil:

		// Both sides ended up with a file of the same content: the only
		// edit needed, if any, is to bring the mtime to missed's.
		case !locNode.IsBranch && !missNode.IsBranch &&
			locNode.Post != nil && missNode.Post != nil &&
			locNode.Post.Kind == NodeKindFile && missNode.Post.Kind == NodeKindFile &&
			locNode.Post.Hash == missNode.Post.Hash:
			if locNode.Post.Mtime != missNode.Post.Mtime {
				actions.Push(NewPath(name), Action{Kind: ActionEditFile, Mtime: mtimePtr(missNode.Post.Mtime)})
			}

		// Symlinks receive the same treatment as files.
		case !locNode.IsBranch && !missNode.IsBranch &&
			locNode.Post != nil && missNode.Post != nil &&
			locNode.Post.Kind == NodeKindSymLink && missNode.Post.Kind == NodeKindSymLink &&
			locNode.Post.Hash == missNode.Post.Hash:
			if locNode.Post.Mtime != missNode.Post.Mtime {
				actions.Push(NewPath(name), Action{Kind: ActionEditSymLink, Mtime: mtimePtr(missNode.Post.Mtime)})
			}

		// Both sides installed a directory in place of the same prior
		// node: recurse over the two post-subtrees directly (there is no
		// delta between them to walk, just two snapshots to reconcile).
		case !locNode.IsBranch && !missNode.IsBranch &&
			locNode.Post != nil && missNode.Post != nil &&
			locNode.Post.Kind == NodeKindDir && missNode.Post.Kind == NodeKindDir:
			subActions, ok := addTreeOrConflict(locNode.Post.Children, missNode.Post.Children)
			if !ok {
				conflicts[name] = &ConflictNode{Local: locNode, Missed: missNode}
				continue
			}
			subActions.Push(nil, Action{Kind: ActionEditDir, Mtime: mtimePtr(missNode.Post.Mtime)})
			actions.Append(subActions.WithPrefix(NewPath(name)))

		default:
			conflicts[name] = &ConflictNode{Local: locNode, Missed: missNode}
		}
	}

	return actions, conflicts
}

// addTreeOrConflict reconciles two directory snapshots that both sides
// independently installed in place of the same prior node: it has no delta
// to walk, just the two resulting subtrees, so its failure mode is a bare
// yes/no rather than a path-tagged Conflicts map - the caller attaches the
// whole enclosing node as a single conflict when it fails (§4.8).
func addTreeOrConflict(locTree, missTree FSTree) (Actions, bool) {
	actions := Actions{}
	for name, missChild := range missTree {
		locChild, ok := locTree[name]
		if !ok {
			actions.Append(missChild.toAddActions().WithPrefix(NewPath(name)))
			continue
		}

		switch {
		case locChild.Kind == NodeKindFile && missChild.Kind == NodeKindFile && locChild.Hash == missChild.Hash:
			if locChild.Mtime != missChild.Mtime {
				actions.Push(NewPath(name), Action{Kind: ActionEditFile, Mtime: mtimePtr(missChild.Mtime)})
			}

		case locChild.Kind == NodeKindSymLink && missChild.Kind == NodeKindSymLink && locChild.Hash == missChild.Hash:
			if locChild.Mtime != missChild.Mtime {
				actions.Push(NewPath(name), Action{Kind: ActionEditSymLink, Mtime: mtimePtr(missChild.Mtime)})
			}

		case locChild.Kind == NodeKindDir && missChild.Kind == NodeKindDir:
			subActions, ok := addTreeOrConflict(locChild.Children, missChild.Children)
			if !ok {
				return nil, false
			}
			subActions.Push(nil, Action{Kind: ActionEditDir, Mtime: mtimePtr(missChild.Mtime)})
			actions.Append(subActions.WithPrefix(NewPath(name)))

		default:
			return nil, false
		}
	}
	return actions, true
}

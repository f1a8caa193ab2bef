package core

// wrapMergeErr prefixes an error produced by a nested MergePrec call with
// the name of the entry currently being processed.
func wrapMergeErr(name string, err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*UnmergeableDeltaError); ok {
		return &UnmergeableDeltaError{Path: NewPath(name).Append(e.Path), Reason: e.Reason}
	}
	return err
}

// MergePrec composes prec and the receiver in place, so that the receiver
// ends up describing the overall change of applying prec first and then the
// original receiver (§4.5). It fails with an *UnmergeableDeltaError if the
// two deltas disagree about the state of some object in between - that is,
// if prec's Post does not match the receiver's Pre for the same entry.
func (d Delta) MergePrec(prec Delta) error {
	for name, precNode := range prec {
		succNode, ok := d[name]
		if !ok {
			d[name] = precNode.Clone()
			continue
		}

		merged, err := mergeNodes(precNode, succNode)
		if err != nil {
			return wrapMergeErr(name, err)
		}
		if merged == nil {
			delete(d, name)
		} else {
			d[name] = merged
		}
	}
	d.Shake()
	return nil
}

func mergeNodes(prec, succ *DeltaNode) (*DeltaNode, error) {
	switch {
	case prec.IsBranch && succ.IsBranch:
		if prec.PostMtime != succ.PreMtime {
			return nil, &UnmergeableDeltaError{Reason: "directory mtime does not match between the two deltas"}
		}
		merged := succ.SubDelta.Clone()
		if err := merged.MergePrec(prec.SubDelta); err != nil {
			return nil, err
		}
		return branch(prec.PreMtime, succ.PostMtime, merged), nil

	case !prec.IsBranch && !succ.IsBranch:
		if !equalOptNode(prec.Post, succ.Pre) {
			return nil, &UnmergeableDeltaError{Reason: "object state does not match between the two deltas"}
		}
		if prec.Pre == nil && succ.Post == nil {
			return nil, nil
		}
		return leafEdit(prec.Pre, succ.Post), nil

	case prec.IsBranch && !succ.IsBranch:
		// A directory that was edited in place and then wholesale replaced
		// or removed: the merged leaf starts from the directory as it was
		// before the branch, recovered by undoing the branch's subdelta on
		// the leaf's precondition subtree.
		if succ.Pre == nil || succ.Pre.Kind != NodeKindDir {
			return nil, &UnmergeableDeltaError{Reason: "directory branch is followed by a non-directory leaf precondition"}
		}
		if prec.PostMtime != succ.Pre.Mtime {
			return nil, &UnmergeableDeltaError{Reason: "directory mtime does not match between the two deltas"}
		}
		children, err := succ.Pre.Children.UndoDelta(prec.SubDelta)
		if err != nil {
			return nil, &UnmergeableDeltaError{Reason: "directory contents do not match between the two deltas"}
		}
		return leafEdit(&FSNode{
			Kind:     NodeKindDir,
			Mtime:    prec.PreMtime,
			Hash:     HashTree(children),
			Children: children,
		}, succ.Post), nil

	default: // !prec.IsBranch && succ.IsBranch
		// A directory that was wholesale added and then edited in place.
		if prec.Post == nil || prec.Post.Kind != NodeKindDir {
			return nil, &UnmergeableDeltaError{Reason: "non-directory leaf postcondition is followed by a directory branch"}
		}
		if prec.Post.Mtime != succ.PreMtime {
			return nil, &UnmergeableDeltaError{Reason: "directory mtime does not match between the two deltas"}
		}
		children, err := prec.Post.Children.ApplyDelta(succ.SubDelta)
		if err != nil {
			return nil, &UnmergeableDeltaError{Reason: "directory contents do not match between the two deltas"}
		}
		return leafEdit(prec.Pre, &FSNode{
			Kind:     NodeKindDir,
			Mtime:    succ.PostMtime,
			Hash:     HashTree(children),
			Children: children,
		}), nil
	}
}

// equalOptNode compares two possibly-nil nodes for the purpose of checking
// that one delta's end state matches the next delta's start state.
func equalOptNode(a, b *FSNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b)
}


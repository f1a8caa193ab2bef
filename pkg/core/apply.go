package core

// wrapApplyErr prefixes reason with the name of the entry currently being
// processed, building up a full relative path as the recursion unwinds.
func wrapApplyErr(name string, err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*InapplicableDeltaError); ok {
		return &InapplicableDeltaError{Path: NewPath(name).Append(e.Path), Reason: e.Reason}
	}
	return err
}

// ApplyDeltaAtEndpoint applies delta to the subtree found at path within
// tree, returning the resulting full tree. It leaves tree unmodified and
// returns a new value (§4.3).
func (tree FSTree) ApplyDeltaAtEndpoint(path AbstPath, delta Delta) (FSTree, error) {
	if path.IsEmpty() {
		return tree.ApplyDelta(delta)
	}
	name, _ := path.At(0)
	result := tree.Clone()
	node, ok := result[name]
	if !ok || node.Kind != NodeKindDir {
		return nil, &InapplicableDeltaError{Path: NewPath(name), Reason: "path does not resolve to a directory"}
	}
	newChildren, err := node.Children.ApplyDeltaAtEndpoint(path.WithoutFirst(), delta)
	if err != nil {
		return nil, wrapApplyErr(name, err)
	}
	node.Children = newChildren
	node.Hash = HashTree(newChildren)
	return result, nil
}

// ApplyDelta applies delta to tree, returning the resulting tree. tree is
// left unmodified. It fails with an *InapplicableDeltaError if tree's
// actual content does not match what delta expects to find (§4.3).
func (tree FSTree) ApplyDelta(delta Delta) (FSTree, error) {
	result := tree.Clone()
	for name, node := range delta {
		if err := applyNode(result, name, node); err != nil {
			return nil, wrapApplyErr(name, err)
		}
	}
	return result, nil
}

func applyNode(tree FSTree, name string, node *DeltaNode) error {
	if node.IsBranch {
		current, ok := tree[name]
		if !ok || current.Kind != NodeKindDir {
			return &InapplicableDeltaError{Reason: "expected a directory"}
		}
		if current.Mtime != node.PreMtime {
			return &InapplicableDeltaError{Reason: "directory mtime does not match"}
		}
		newChildren, err := current.Children.ApplyDelta(node.SubDelta)
		if err != nil {
			return err
		}
		tree[name] = &FSNode{
			Kind:     NodeKindDir,
			Mtime:    node.PostMtime,
			Hash:     HashTree(newChildren),
			Children: newChildren,
		}
		return nil
	}

	current, exists := tree[name]
	switch {
	case node.Pre == nil && node.Post != nil:
		if exists {
			return &InapplicableDeltaError{Reason: "object already exists"}
		}
		tree[name] = node.Post.Clone()
	case node.Pre != nil && node.Post == nil:
		if !exists || !current.Equal(node.Pre) {
			return &InapplicableDeltaError{Reason: "object does not match expected prior state"}
		}
		delete(tree, name)
	case node.Pre != nil && node.Post != nil:
		if !exists || !current.Equal(node.Pre) {
			return &InapplicableDeltaError{Reason: "object does not match expected prior state"}
		}
		tree[name] = node.Post.Clone()
	default:
		return &InapplicableDeltaError{Reason: "empty leaf delta"}
	}
	return nil
}

// UndoDelta reverses the effect of delta on tree, returning the tree as it
// would have been before the delta was applied (§4.3). It is the mirror
// image of ApplyDelta, with Pre/Post and PreMtime/PostMtime swapped.
func (tree FSTree) UndoDelta(delta Delta) (FSTree, error) {
	result := tree.Clone()
	for name, node := range delta {
		if err := undoNode(result, name, node); err != nil {
			return nil, wrapApplyErr(name, err)
		}
	}
	return result, nil
}

func undoNode(tree FSTree, name string, node *DeltaNode) error {
	if node.IsBranch {
		current, ok := tree[name]
		if !ok || current.Kind != NodeKindDir {
			return &InapplicableDeltaError{Reason: "expected a directory"}
		}
		if current.Mtime != node.PostMtime {
			return &InapplicableDeltaError{Reason: "directory mtime does not match"}
		}
		oldChildren, err := current.Children.UndoDelta(node.SubDelta)
		if err != nil {
			return err
		}
		tree[name] = &FSNode{
			Kind:     NodeKindDir,
			Mtime:    node.PreMtime,
			Hash:     HashTree(oldChildren),
			Children: oldChildren,
		}
		return nil
	}

	current, exists := tree[name]
	switch {
	case node.Post == nil && node.Pre != nil:
		if exists {
			return &InapplicableDeltaError{Reason: "object already exists"}
		}
		tree[name] = node.Pre.Clone()
	case node.Post != nil && node.Pre == nil:
		if !exists || !current.Equal(node.Post) {
			return &InapplicableDeltaError{Reason: "object does not match expected prior state"}
		}
		delete(tree, name)
	case node.Post != nil && node.Pre != nil:
		if !exists || !current.Equal(node.Post) {
			return &InapplicableDeltaError{Reason: "object does not match expected prior state"}
		}
		tree[name] = node.Pre.Clone()
	default:
		return &InapplicableDeltaError{Reason: "empty leaf delta"}
	}
	return nil
}

package core

// RebaseFromTreeAtEndpoint rewrites delta's "before" expectations (the Pre
// state of each leaf and the PreMtime of each branch) to match what is
// actually present in tree at path, recursively. This lets a delta computed
// against one reference snapshot be replayed against a tree that has since
// moved on, as long as the two snapshots still agree on what changed -
// only the starting point is refreshed, never the recorded change itself
// (§4.4).
func (d Delta) RebaseFromTreeAtEndpoint(tree FSTree, path AbstPath) (Delta, error) {
	sub := tree
	for i := 0; i < path.Len(); i++ {
		name, _ := path.At(i)
		node, ok := sub[name]
		if !ok || node.Kind != NodeKindDir {
			return nil, &UnrebasableDeltaError{Path: path, Reason: "endpoint does not resolve to a directory in the given tree"}
		}
		sub = node.Children
	}
	return rebaseRecursion(d, sub, path)
}

func rebaseRecursion(d Delta, tree FSTree, path AbstPath) (Delta, error) {
	result := NewDelta()
	for name, node := range d {
		current, exists := tree[name]

		if node.IsBranch {
			if !exists || current.Kind != NodeKindDir {
				return nil, &UnrebasableDeltaError{Path: path.WithLast(name), Reason: "expected a directory in the reference tree"}
			}
			rebasedSub, err := rebaseRecursion(node.SubDelta, current.Children, path.WithLast(name))
			if err != nil {
				return nil, err
			}
			result[name] = branch(current.Mtime, node.PostMtime, rebasedSub)
			continue
		}

		switch {
		case node.Pre == nil && node.Post != nil:
			result[name] = leafAdd(node.Post)
		case node.Pre != nil:
			if !exists {
				return nil, &UnrebasableDeltaError{Path: path.WithLast(name), Reason: "expected object is missing from the reference tree"}
			}
			if node.Post == nil {
				result[name] = leafRemove(current)
			} else {
				result[name] = leafEdit(current, node.Post)
			}
		default:
			return nil, &UnrebasableDeltaError{Path: path.WithLast(name), Reason: "empty leaf delta"}
		}
	}
	return result, nil
}

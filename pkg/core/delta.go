package core

// DeltaNode describes how a single named entry changed between two
// snapshots. It is a Leaf when the entry was added, removed, or replaced
// wholesale, and a Branch when a directory survived in place with only its
// contents (and possibly its mtime) changing (§3.4).
//
// A Leaf is identified by IsBranch == false; Pre and Post hold the entry's
// state before and after (nil meaning "did not exist"). A Branch is
// identified by IsBranch == true; PreMtime/PostMtime hold the directory's
// mtime before and after, and SubDelta holds the change to its contents.
//
// Unlike the delta representation this is grounded on, a Branch's mtimes are
// always a concrete pair rather than an optional one: the shaking discipline
// below removes a Branch entirely once its mtimes are equal and its
// subdelta is empty, so there is no representable state that needs an
// "absent pair" to express.
type DeltaNode struct {
	Pre  *FSNode
	Post *FSNode

	IsBranch  bool
	PreMtime  Mtime
	PostMtime Mtime
	SubDelta  Delta
}

// Delta is a mapping from child name to the change that occurred to it.
type Delta map[string]*DeltaNode

// NewDelta constructs an empty Delta.
func NewDelta() Delta {
	return make(Delta)
}

// IsEmpty reports whether the delta contains no changes.
func (d Delta) IsEmpty() bool {
	return len(d) == 0
}

// Clone returns a deep copy of the delta.
func (d Delta) Clone() Delta {
	if d == nil {
		return nil
	}
	result := make(Delta, len(d))
	for name, node := range d {
		result[name] = node.Clone()
	}
	return result
}

// Clone returns a deep copy of the node.
func (n *DeltaNode) Clone() *DeltaNode {
	if n == nil {
		return nil
	}
	return &DeltaNode{
		Pre:       n.Pre.Clone(),
		Post:      n.Post.Clone(),
		IsBranch:  n.IsBranch,
		PreMtime:  n.PreMtime,
		PostMtime: n.PostMtime,
		SubDelta:  n.SubDelta.Clone(),
	}
}

func leafRemove(pre *FSNode) *DeltaNode {
	return &DeltaNode{Pre: pre}
}

func leafAdd(post *FSNode) *DeltaNode {
	return &DeltaNode{Post: post}
}

func leafEdit(pre, post *FSNode) *DeltaNode {
	return &DeltaNode{Pre: pre, Post: post}
}

func branch(preMtime, postMtime Mtime, sub Delta) *DeltaNode {
	return &DeltaNode{IsBranch: true, PreMtime: preMtime, PostMtime: postMtime, SubDelta: sub}
}

// unionKeys returns the union of keys present in either tree, in no
// particular order.
func unionKeys(a, b FSTree) []string {
	seen := make(map[string]bool, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for name := range a {
		if !seen[name] {
			seen[name] = true
			keys = append(keys, name)
		}
	}
	for name := range b {
		if !seen[name] {
			seen[name] = true
			keys = append(keys, name)
		}
	}
	return keys
}

// GetDelta computes the delta that transforms oldTree into newTree (§4.2).
// The result is shaken by construction: directories that changed on both
// sides are represented as Branch nodes, with their subdelta recursed into
// only when their hashes actually differ.
func GetDelta(oldTree, newTree FSTree) Delta {
	delta := NewDelta()
	for _, name := range unionKeys(oldTree, newTree) {
		oldNode, oldOK := oldTree[name]
		newNode, newOK := newTree[name]

		switch {
		case oldOK && !newOK:
			delta[name] = leafRemove(oldNode)
		case !oldOK && newOK:
			delta[name] = leafAdd(newNode)
		case oldNode.Kind == NodeKindDir && newNode.Kind == NodeKindDir:
			if oldNode.Mtime != newNode.Mtime || oldNode.Hash != newNode.Hash {
				sub := NewDelta()
				if oldNode.Hash != newNode.Hash {
					sub = GetDelta(oldNode.Children, newNode.Children)
				}
				delta[name] = branch(oldNode.Mtime, newNode.Mtime, sub)
			}
		default:
			if !oldNode.Equal(newNode) {
				delta[name] = leafEdit(oldNode, newNode)
			}
		}
	}
	return delta
}

// Shake enforces the shakenness invariant (§3.4) in place: it expresses any
// Leaf(Dir, Dir) as a Branch, recurses shaking into every Branch's
// subdelta, and then removes any entry that carries no actual change (a
// Leaf whose pre and post states are equal, or a Branch with equal mtimes
// and an empty subdelta).
func (d Delta) Shake() {
	for name, node := range d {
		if node.IsBranch {
			continue
		}
		if node.Pre != nil && node.Post != nil && node.Pre.Kind == NodeKindDir && node.Post.Kind == NodeKindDir {
			sub := GetDelta(node.Pre.Children, node.Post.Children)
			d[name] = branch(node.Pre.Mtime, node.Post.Mtime, sub)
		}
	}

	for _, node := range d {
		if node.IsBranch {
			node.SubDelta.Shake()
		}
	}

	for name, node := range d {
		if node.IsBranch {
			if node.PreMtime == node.PostMtime && node.SubDelta.IsEmpty() {
				delete(d, name)
			}
		} else if node.Pre.Equal(node.Post) {
			delete(d, name)
		}
	}
}

// FilterOut removes, in place, any change touching a path that exclude
// matches, then re-shakes the delta. Exclusion is decided per delta entry:
// a leaf's pre or post state is dropped when the entry's own path is
// excluded, but a directory carried whole inside a leaf (an added, removed
// or replaced directory) keeps all of its contents, excluded descendants
// included.
func (d Delta) FilterOut(exclude *ExcludeList) {
	d.filterOutRec(NewPath(), exclude)
}

func (d Delta) filterOutRec(relPath AbstPath, exclude *ExcludeList) {
	for name, node := range d {
		if node.IsBranch {
			if exclude.ShouldExclude(relPath.WithLast(name), true) {
				node.PreMtime = Mtime{}
				node.PostMtime = Mtime{}
				node.SubDelta = NewDelta()
			} else {
				node.SubDelta.filterOutRec(relPath.WithLast(name), exclude)
			}
			continue
		}
		if node.Pre != nil && exclude.ShouldExclude(relPath.WithLast(name), node.Pre.Kind == NodeKindDir) {
			node.Pre = nil
		}
		if node.Post != nil && exclude.ShouldExclude(relPath.WithLast(name), node.Post.Kind == NodeKindDir) {
			node.Post = nil
		}
	}
	d.Shake()
}

// GetSubdeltaTreeCopy extracts the portion of the delta that applies inside
// the subtree at path, translating a leaf add/remove of a directory into an
// equivalent subtree of leaf adds/removes for its children. It returns
// false if path does not resolve to a subtree touched by the delta (§4.6).
func (d Delta) GetSubdeltaTreeCopy(path AbstPath) (Delta, bool) {
	if path.IsEmpty() {
		return d.Clone(), true
	}
	name, _ := path.At(0)
	node, ok := d[name]
	if !ok {
		return nil, false
	}
	rest := path.WithoutFirst()
	if node.IsBranch {
		return node.SubDelta.GetSubdeltaTreeCopy(rest)
	}
	if node.Pre == nil && node.Post != nil && node.Post.Kind == NodeKindDir {
		sub := NewDelta()
		for childName, child := range node.Post.Children {
			sub[childName] = leafAdd(child)
		}
		return sub.GetSubdeltaTreeCopy(rest)
	}
	if node.Post == nil && node.Pre != nil && node.Pre.Kind == NodeKindDir {
		sub := NewDelta()
		for childName, child := range node.Pre.Children {
			sub[childName] = leafRemove(child)
		}
		return sub.GetSubdeltaTreeCopy(rest)
	}
	return nil, false
}

package core

import (
	"sort"

	"github.com/fran314/bbup/pkg/hash"
)

// NodeKind distinguishes the three kinds of filesystem object tracked in a
// snapshot. Its byte value is part of the canonical tree-hash encoding, so
// existing values must never be renumbered (§3.3).
type NodeKind uint8

const (
	// NodeKindFile identifies a regular file, hashed by content.
	NodeKindFile NodeKind = iota
	// NodeKindSymLink identifies a symbolic link, hashed by its canonical
	// Endpoint encoding.
	NodeKindSymLink
	// NodeKindDir identifies a directory, hashed by the recursive hash of
	// its children.
	NodeKindDir
)

// FSNode is a single node in a filesystem snapshot. Children is populated
// only when Kind is NodeKindDir; it is the zero value otherwise.
//
// Equality of two nodes (see Equal) compares only Kind, Mtime and Hash: the
// hash of a directory already represents the recursive state of its
// contents, so two directory nodes with equal hashes are considered equal
// regardless of whether their Children maps happen to differ in memory
// representation.
type FSNode struct {
	Kind     NodeKind
	Mtime    Mtime
	Hash     hash.Hash
	Children FSTree
}

// FSTree is a directory's content: a mapping from child name to node.
type FSTree map[string]*FSNode

// NewFSTree constructs an empty FSTree.
func NewFSTree() FSTree {
	return make(FSTree)
}

// Equal reports whether two nodes represent the same filesystem object,
// comparing only their kind, mtime and hash.
func (n *FSNode) Equal(other *FSNode) bool {
	if n == other {
		return true
	}
	if n == nil || other == nil {
		return false
	}
	return n.Kind == other.Kind && n.Mtime == other.Mtime && n.Hash == other.Hash
}

// Clone returns a deep copy of the node, including its entire subtree if it
// is a directory.
func (n *FSNode) Clone() *FSNode {
	if n == nil {
		return nil
	}
	clone := *n
	clone.Children = n.Children.Clone()
	return &clone
}

// Clone returns a deep copy of the tree.
func (t FSTree) Clone() FSTree {
	if t == nil {
		return nil
	}
	result := make(FSTree, len(t))
	for name, node := range t {
		result[name] = node.Clone()
	}
	return result
}

// HashTree deterministically hashes a directory's content (§3.3). For each
// child, in name-sorted order, it appends a fixed-length block consisting of
// the child name's hash, the node's kind tag, its mtime bytes, and its own
// hash, then hashes the concatenation of all blocks. Sorting by name before
// hashing, rather than hashing in map-iteration order, is what makes the
// result independent of how the tree happens to be represented in memory.
func HashTree(tree FSTree) hash.Hash {
	names := make([]string, 0, len(tree))
	for name := range tree {
		names = append(names, name)
	}
	sort.Strings(names)

	var blocks []byte
	for _, name := range names {
		node := tree[name]
		nameHash := hash.Of([]byte(name))
		blocks = append(blocks, nameHash.Bytes()...)
		blocks = append(blocks, byte(node.Kind))
		blocks = append(blocks, node.Mtime.Bytes()...)
		blocks = append(blocks, node.Hash.Bytes()...)
	}
	return hash.Of(blocks)
}

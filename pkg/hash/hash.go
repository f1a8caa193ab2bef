// Package hash provides the fixed-width content digest used throughout the
// core: a 32-byte SHA-256-class value with byte equality, hex formatting, and
// a streaming constructor for hashing file contents without buffering them in
// memory.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Size is the length in bytes of a Hash.
const Size = sha256.Size

// Hash is a fixed-width, opaque content digest. Two distinct inputs may
// collide only with cryptographic negligibility (SHA-256-class). The zero
// value is the hash of no bytes at all, not a sentinel "empty" hash.
type Hash [Size]byte

// Equal reports whether two hashes are byte-equal.
func (h Hash) Equal(other Hash) bool {
	return h == other
}

// IsZero reports whether h is the all-zero hash, used as a sentinel in
// contexts (such as the null commit id) where "no hash" must be
// distinguishable from any real digest with overwhelming probability.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Bytes returns the hash's raw bytes as a slice.
func (h Hash) Bytes() []byte {
	return h[:]
}

// String renders the hash as lowercase hexadecimal, matching the
// content-addressed object store's naming convention (§6.2).
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// FromBytes constructs a Hash from exactly Size bytes. It panics if b is not
// of length Size, since every caller in this module derives b from a
// previous Hash.Bytes() or a freshly computed digest.
func FromBytes(b []byte) Hash {
	var h Hash
	if len(b) != Size {
		panic("hash: byte slice is not of the expected length")
	}
	copy(h[:], b)
	return h
}

// Of hashes an in-memory byte slice, such as a symlink's canonical endpoint
// serialization (§3.1) or a single name block in the tree-hash algorithm
// (§3.3).
func Of(data []byte) Hash {
	return sha256.Sum256(data)
}

// OfStream hashes the entirety of a reader without buffering its contents,
// used to compute a file's content hash while streaming its bytes (§4.1).
func OfStream(r io.Reader) (Hash, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return Hash{}, err
	}
	var h Hash
	copy(h[:], hasher.Sum(nil))
	return h, nil
}

// Streamer accumulates bytes written to it into a running hash, for callers
// that need to hash content incrementally (e.g. while also writing it to a
// staging file) rather than via a single OfStream call.
type Streamer struct {
	hasher interface {
		io.Writer
		Sum(b []byte) []byte
	}
}

// NewStreamer creates a new incremental hash accumulator.
func NewStreamer() *Streamer {
	return &Streamer{hasher: sha256.New()}
}

// Write implements io.Writer, feeding data into the running hash.
func (s *Streamer) Write(data []byte) (int, error) {
	return s.hasher.Write(data)
}

// Sum finalizes and returns the accumulated hash. It may be called only once
// per Streamer.
func (s *Streamer) Sum() Hash {
	var h Hash
	copy(h[:], s.hasher.Sum(nil))
	return h
}

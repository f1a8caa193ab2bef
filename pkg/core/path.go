package core

import (
	"path/filepath"
	"strings"
)

// AbstPath is an OS-agnostic path represented as a sequence of components,
// used throughout the core so that a path computed on one platform compares
// and serializes identically on another. It intentionally does not carry
// any notion of absolute vs. relative; that distinction is up to callers
// that convert to and from OS paths (§3.1).
type AbstPath []string

// NewPath constructs an AbstPath from a sequence of components.
func NewPath(components ...string) AbstPath {
	if len(components) == 0 {
		return nil
	}
	result := make(AbstPath, len(components))
	copy(result, components)
	return result
}

// PathFromSlash splits a slash separated string into an AbstPath (on
// Windows, backslashes are separators too), collapsing empty components
// (leading/trailing/doubled separators). An empty string yields the empty
// path.
func PathFromSlash(path string) AbstPath {
	if path == "" {
		return nil
	}
	slashed := filepath.ToSlash(path)
	parts := strings.Split(slashed, "/")
	result := make(AbstPath, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		result = append(result, part)
	}
	return result
}

// Len returns the number of components in the path.
func (p AbstPath) Len() int {
	return len(p)
}

// IsEmpty reports whether the path has no components.
func (p AbstPath) IsEmpty() bool {
	return len(p) == 0
}

// At returns the component at the given position, if any.
func (p AbstPath) At(index int) (string, bool) {
	if index < 0 || index >= len(p) {
		return "", false
	}
	return p[index], true
}

// WithFirst returns a copy of the path with the given component prepended.
func (p AbstPath) WithFirst(component string) AbstPath {
	result := make(AbstPath, 0, len(p)+1)
	result = append(result, component)
	result = append(result, p...)
	return result
}

// WithLast returns a copy of the path with the given component appended.
func (p AbstPath) WithLast(component string) AbstPath {
	result := make(AbstPath, 0, len(p)+1)
	result = append(result, p...)
	result = append(result, component)
	return result
}

// WithoutFirst returns a copy of the path with its first component removed.
// It returns the empty path if p is already empty.
func (p AbstPath) WithoutFirst() AbstPath {
	if len(p) == 0 {
		return nil
	}
	result := make(AbstPath, len(p)-1)
	copy(result, p[1:])
	return result
}

// WithoutLast returns a copy of the path with its last component removed.
// It returns the empty path if p is already empty.
func (p AbstPath) WithoutLast() AbstPath {
	if len(p) == 0 {
		return nil
	}
	result := make(AbstPath, len(p)-1)
	copy(result, p[:len(p)-1])
	return result
}

// Append concatenates two paths, returning a new path equal to p followed by
// the components of other.
func (p AbstPath) Append(other AbstPath) AbstPath {
	result := make(AbstPath, 0, len(p)+len(other))
	result = append(result, p...)
	result = append(result, other...)
	return result
}

// Parent returns the path with its final component removed, mirroring the
// semantics of a directory entry's containing directory.
func (p AbstPath) Parent() AbstPath {
	return p.WithoutLast()
}

// FileName returns the final component of the path, if any.
func (p AbstPath) FileName() (string, bool) {
	if len(p) == 0 {
		return "", false
	}
	return p[len(p)-1], true
}

// Extension returns the extension of the final component (the substring
// after the last '.'), excluding the dot. It returns false if the final
// component has no extension or the path is empty.
func (p AbstPath) Extension() (string, bool) {
	name, ok := p.FileName()
	if !ok {
		return "", false
	}
	dot := strings.LastIndexByte(name, '.')
	if dot == -1 || dot == len(name)-1 {
		return "", false
	}
	return name[dot+1:], true
}

// String renders the path using forward slashes as the component separator,
// regardless of platform, so that two equal paths always render identically
// (§3.1).
func (p AbstPath) String() string {
	return strings.Join([]string(p), "/")
}

// ToOSPath converts the path to a platform-native filesystem path, suitable
// for passing to the os and filepath packages.
func (p AbstPath) ToOSPath() string {
	return filepath.Join([]string(p)...)
}

// Equal reports whether two paths have identical components.
func (p AbstPath) Equal(other AbstPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

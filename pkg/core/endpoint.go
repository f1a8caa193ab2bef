package core

// Endpoint is a symlink target, tagged by the platform semantics under which
// it was recorded. Windows symlinks distinguish file targets from directory
// targets at creation time, which Unix symlinks do not, so the tag carries
// that extra bit only for Windows (§3.1).
type Endpoint struct {
	// Windows indicates that the target was recorded under Windows symlink
	// semantics.
	Windows bool
	// IsDir indicates, for a Windows endpoint, whether the symlink was
	// created as a directory symlink. It is meaningless for Unix endpoints.
	IsDir bool
	// Target is the raw, unresolved symlink target text.
	Target string
}

// NewUnixEndpoint constructs an Endpoint recorded under Unix semantics.
func NewUnixEndpoint(target string) Endpoint {
	return Endpoint{Target: target}
}

// NewWindowsEndpoint constructs an Endpoint recorded under Windows
// semantics.
func NewWindowsEndpoint(isDir bool, target string) Endpoint {
	return Endpoint{Windows: true, IsDir: isDir, Target: target}
}

// Bytes renders the endpoint as its canonical byte serialization: a tag byte
// (0 for Unix, 1 for Windows), an is-directory byte for Windows endpoints
// only (0 for directory, 1 for file), followed by the raw target bytes. This
// is the value hashed to produce a symlink's content hash (§3.1).
func (e Endpoint) Bytes() []byte {
	var buf []byte
	if !e.Windows {
		buf = append(buf, 0)
	} else {
		buf = append(buf, 1)
		if e.IsDir {
			buf = append(buf, 0)
		} else {
			buf = append(buf, 1)
		}
	}
	return append(buf, []byte(e.Target)...)
}

// MalformedEndpointError indicates a byte sequence could not be parsed as
// an Endpoint encoding.
type MalformedEndpointError struct {
	Reason string
}

func (e *MalformedEndpointError) Error() string {
	return "malformed endpoint encoding: " + e.Reason
}

// DecodeEndpoint parses the canonical byte serialization produced by
// Bytes, the inverse operation performed when a transferred symlink's
// content is materialized on the receiving side.
func DecodeEndpoint(data []byte) (Endpoint, error) {
	if len(data) < 1 {
		return Endpoint{}, &MalformedEndpointError{Reason: "truncated"}
	}
	if data[0] == 0 {
		return NewUnixEndpoint(string(data[1:])), nil
	}
	if len(data) < 2 {
		return Endpoint{}, &MalformedEndpointError{Reason: "truncated"}
	}
	return NewWindowsEndpoint(data[1] == 0, string(data[2:])), nil
}

// Package wire implements the length-prefixed frame protocol a client and
// server exchange over a single connection (§6.1): a status byte ahead of
// every structured value, so either side can signal a failure in place of
// the value the other side was expecting, plus a raw byte-length-prefixed
// path for streaming file content without buffering it in memory.
package wire

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/fran314/bbup/pkg/hash"
)

const (
	statusOK = 0

	// maxBlockSize bounds how large a single struct/error frame is allowed
	// to declare itself, so a corrupt or hostile length prefix can't make
	// this side allocate an unbounded buffer.
	maxBlockSize = 256 * 1024 * 1024
)

// Conversation wraps a single connection (a tunnel, a pipe, a test
// net.Pipe) with the frame-level send/receive operations every higher-level
// exchange in `pkg/client`/`pkg/server` is built from.
type Conversation struct {
	r *bufio.Reader
	w io.Writer
}

// NewConversation wraps rw for frame-level communication.
func NewConversation(rw io.ReadWriter) *Conversation {
	return &Conversation{r: bufio.NewReader(rw), w: rw}
}

func (c *Conversation) sendStatus(status byte) error {
	_, err := c.w.Write([]byte{status})
	return errors.Wrap(err, "send status")
}

func (c *Conversation) sendBlock(content []byte) error {
	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(len(content)))
	if _, err := c.w.Write(length[:]); err != nil {
		return errors.Wrap(err, "send block length")
	}
	if _, err := c.w.Write(content); err != nil {
		return errors.Wrap(err, "send block body")
	}
	return nil
}

func (c *Conversation) getBlock() ([]byte, error) {
	var length [8]byte
	if _, err := io.ReadFull(c.r, length[:]); err != nil {
		return nil, errors.Wrap(err, "read block length")
	}
	size := binary.BigEndian.Uint64(length[:])
	if size > maxBlockSize {
		return nil, errors.New("block size exceeds maximum allowed size")
	}
	content := make([]byte, size)
	if _, err := io.ReadFull(c.r, content); err != nil {
		return nil, errors.Wrap(err, "read block body")
	}
	return content, nil
}

// SendOK sends the success status.
func (c *Conversation) SendOK() error {
	return c.sendStatus(statusOK)
}

// SendError sends a non-zero status code paired with a human-readable
// message, used in place of whatever value the peer was expecting next.
// status must not be 0.
func (c *Conversation) SendError(status byte, message string) error {
	if status == statusOK {
		return errors.New("status 0 is reserved for success and cannot be used as an error status")
	}
	if err := c.sendStatus(status); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(message); err != nil {
		return errors.Wrap(err, "encode error message")
	}
	return c.sendBlock(buf.Bytes())
}

// RemoteError is returned by CheckOK when the peer sent a non-success
// status in place of the value this side expected.
type RemoteError struct {
	Status  byte
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// CheckOK reads a status byte and returns a *RemoteError if it is not the
// success status.
func (c *Conversation) CheckOK() error {
	status, err := c.r.ReadByte()
	if err != nil {
		return errors.Wrap(err, "read status")
	}
	if status == statusOK {
		return nil
	}
	block, err := c.getBlock()
	if err != nil {
		return errors.Wrap(err, "read error message")
	}
	var message string
	if err := gob.NewDecoder(bytes.NewReader(block)).Decode(&message); err != nil {
		return errors.Wrap(err, "decode error message")
	}
	return &RemoteError{Status: status, Message: message}
}

// SendStruct sends an OK status followed by the gob encoding of value, and
// waits for the peer's confirmation that it decoded successfully.
func (c *Conversation) SendStruct(value interface{}) error {
	if err := c.SendOK(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return errors.Wrap(err, "encode struct")
	}
	if err := c.sendBlock(buf.Bytes()); err != nil {
		return err
	}
	return c.CheckOK()
}

// GetStruct receives a value sent by SendStruct, decoding it into value
// (which must be a pointer). It reports decode failure to the sender
// before returning the error.
func (c *Conversation) GetStruct(value interface{}) error {
	if err := c.CheckOK(); err != nil {
		return err
	}
	block, err := c.getBlock()
	if err != nil {
		return err
	}
	if err := gob.NewDecoder(bytes.NewReader(block)).Decode(value); err != nil {
		_ = c.SendError(1, "failed to decode received block")
		return errors.Wrap(err, "decode struct")
	}
	return c.SendOK()
}

// SendFile streams the content of the file at path, preceded by an OK
// status and its length.
func (c *Conversation) SendFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open file at path %s", path)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return errors.Wrapf(err, "stat file at path %s", path)
	}

	if err := c.SendOK(); err != nil {
		return err
	}
	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(info.Size()))
	if _, err := c.w.Write(length[:]); err != nil {
		return errors.Wrap(err, "send file length")
	}
	if _, err := io.Copy(c.w, file); err != nil {
		return errors.Wrapf(err, "send file content at path %s", path)
	}
	return nil
}

// GetFile receives a file sent by SendFile and writes it to path.
func (c *Conversation) GetFile(path string) error {
	if err := c.CheckOK(); err != nil {
		return err
	}
	var length [8]byte
	if _, err := io.ReadFull(c.r, length[:]); err != nil {
		return errors.Wrap(err, "read file length")
	}
	size := binary.BigEndian.Uint64(length[:])

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create file at path %s", path)
	}
	defer file.Close()

	if _, err := io.CopyN(file, c.r, int64(size)); err != nil {
		return errors.Wrapf(err, "receive file content at path %s", path)
	}
	return nil
}

// GetFileWithHashCheck receives a file sent by SendFile and verifies its
// content hash matches want, the wire-level counterpart of a snapshot's
// recorded file hash (§4.1).
func (c *Conversation) GetFileWithHashCheck(path string, want hash.Hash) error {
	if err := c.GetFile(path); err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "reopen file at path %s to verify hash", path)
	}
	defer file.Close()

	got, err := hash.OfStream(file)
	if err != nil {
		return errors.Wrapf(err, "hash received file at path %s", path)
	}
	if !got.Equal(want) {
		return errors.Errorf("hash of received file at path %s does not match the expected hash", path)
	}
	return nil
}

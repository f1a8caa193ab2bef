package encoding

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
)

const (
	// gobDecoderReaderBufferSize is the size to use for the buffered reader in
	// GobDecoder.
	gobDecoderReaderBufferSize = 32 * 1024

	// gobDecoderMaximumAllowedMessageSize is the maximum message size that
	// we'll attempt to read from the wire.
	gobDecoderMaximumAllowedMessageSize = 100 * 1024 * 1024
)

// LoadAndUnmarshalGob loads data from the specified path and decodes it into
// the specified value using the gob encoding.
func LoadAndUnmarshalGob(path string, value interface{}) error {
	return LoadAndUnmarshal(path, func(data []byte) error {
		return gob.NewDecoder(bytes.NewReader(data)).Decode(value)
	})
}

// MarshalAndSaveGob marshals the specified value with the gob encoding and
// saves it to the specified path.
func MarshalAndSaveGob(path string, value interface{}) error {
	return MarshalAndSave(path, func() ([]byte, error) {
		var buffer bytes.Buffer
		if err := gob.NewEncoder(&buffer).Encode(value); err != nil {
			return nil, err
		}
		return buffer.Bytes(), nil
	})
}

// GobEncoder is a length-prefixed stream encoder for gob-encoded values. The
// wire protocol in pkg/wire does not use it; Conversation frames its gob blocks
// itself.
type GobEncoder struct {
	// writer is the underlying writer.
	writer io.Writer
}

// NewGobEncoder creates a new gob stream encoder.
func NewGobEncoder(writer io.Writer) *GobEncoder {
	return &GobEncoder{writer: writer}
}

// Encode encodes a length-prefixed gob value to the underlying stream.
func (e *GobEncoder) Encode(value interface{}) error {
	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(value); err != nil {
		return errors.Wrap(err, "unable to encode value")
	}

	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(buffer.Len()))
	if _, err := e.writer.Write(length[:]); err != nil {
		return errors.Wrap(err, "unable to write message length")
	}
	if _, err := e.writer.Write(buffer.Bytes()); err != nil {
		return errors.Wrap(err, "unable to write message")
	}

	return nil
}

// GobDecoder is a length-prefixed stream decoder for gob-encoded values.
type GobDecoder struct {
	// reader is a buffered reader wrapping the underlying reader.
	reader *bufio.Reader
}

// NewGobDecoder creates a new gob stream decoder.
func NewGobDecoder(reader io.Reader) *GobDecoder {
	return &GobDecoder{reader: bufio.NewReaderSize(reader, gobDecoderReaderBufferSize)}
}

// Decode decodes a length-prefixed gob value from the underlying stream.
func (d *GobDecoder) Decode(value interface{}) error {
	var length [8]byte
	if _, err := io.ReadFull(d.reader, length[:]); err != nil {
		return errors.Wrap(err, "unable to read message length")
	}
	size := binary.BigEndian.Uint64(length[:])
	if size > gobDecoderMaximumAllowedMessageSize {
		return errors.New("message size too large")
	}

	messageBytes := make([]byte, size)
	if _, err := io.ReadFull(d.reader, messageBytes); err != nil {
		return errors.Wrap(err, "unable to read message")
	}

	if err := gob.NewDecoder(bytes.NewReader(messageBytes)).Decode(value); err != nil {
		return errors.Wrap(err, "unable to decode message")
	}

	return nil
}

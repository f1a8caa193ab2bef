package hash

import (
	"strings"
	"testing"
)

func TestOfKnownVectors(t *testing.T) {
	tests := []struct {
		input string
		hex   string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"here is some random text", "3ace1cf028afc2c9872ec0eb6fd25b6a083264de078e9d8459b7ea90954d52fa"},
		{"and also a different text", "549f713ae4bbf70c48c4aa6a0c9b55af40ba51dd86ebcd7c77d345cdd5fe5cca"},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if got := Of([]byte(test.input)).String(); got != test.hex {
				t.Errorf("Of(%q) = %s, want %s", test.input, got, test.hex)
			}
			streamed, err := OfStream(strings.NewReader(test.input))
			if err != nil {
				t.Fatalf("OfStream failed: %v", err)
			}
			if got := streamed.String(); got != test.hex {
				t.Errorf("OfStream(%q) = %s, want %s", test.input, got, test.hex)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := Of([]byte("alpha"))
	b := Of([]byte("alpha"))
	c := Of([]byte("beta"))
	if !a.Equal(b) {
		t.Error("equal inputs produced unequal hashes")
	}
	if a.Equal(c) {
		t.Error("distinct inputs produced equal hashes")
	}
}

func TestIsZero(t *testing.T) {
	var zero Hash
	if !zero.IsZero() {
		t.Error("zero-valued Hash should report IsZero")
	}
	if Of([]byte("x")).IsZero() {
		t.Error("non-zero hash reported as zero")
	}
}

func TestFromBytesRoundTrip(t *testing.T) {
	original := Of([]byte("round trip"))
	restored := FromBytes(original.Bytes())
	if !original.Equal(restored) {
		t.Error("FromBytes(h.Bytes()) did not reproduce h")
	}
}

func TestStreamer(t *testing.T) {
	s := NewStreamer()
	_, _ = s.Write([]byte("here is "))
	_, _ = s.Write([]byte("some random text"))
	want := Of([]byte("here is some random text"))
	if got := s.Sum(); !got.Equal(want) {
		t.Errorf("Streamer.Sum() = %s, want %s", got, want)
	}
}

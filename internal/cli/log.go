package cli

import (
	"io"
	"log"
)

func init() {
	// Silence the default logger; bbup routes everything through pkg/logging.
	log.SetOutput(io.Discard)
}

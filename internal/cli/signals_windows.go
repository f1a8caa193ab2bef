package cli

import (
	"os"
	"syscall"
)

// TerminationSignals are those signals bbup considers to be requesting
// termination. SIGINT is the only POSIX signal supported by Go on Windows,
// but Ctrl-C is all that's really needed there anyway.
var TerminationSignals = []os.Signal{
	syscall.SIGINT,
}

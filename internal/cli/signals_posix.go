// +build !windows

package cli

import (
	"os"
	"syscall"
)

// TerminationSignals are those signals bbup considers to be requesting
// termination. Other signals that also request termination by default (such
// as SIGABRT) are intentionally excluded because the Go runtime gives them
// special behavior (such as dumping a stack trace).
var TerminationSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

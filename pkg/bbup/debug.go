package bbup

import "os"

// DebugEnabled controls whether debug-level logging is enabled. It is set
// automatically based on the BBUP_DEBUG environment variable.
var DebugEnabled bool

func init() {
	DebugEnabled = os.Getenv("BBUP_DEBUG") == "1"
}

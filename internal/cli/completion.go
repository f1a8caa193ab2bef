package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// PerformingShellCompletion indicates whether one of Cobra's hidden shell
// completion commands is being used.
var PerformingShellCompletion bool

func init() {
	PerformingShellCompletion = len(os.Args) > 1 &&
		(os.Args[1] == cobra.ShellCompRequestCmd ||
			os.Args[1] == cobra.ShellCompNoDescRequestCmd)
}

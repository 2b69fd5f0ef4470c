// Command flipdemo runs a FLIP scenario headlessly for a fixed number of
// frames and exports per-frame RunStats to CSV, following the teacher's
// single cmd/<binary> main.go convention (see spatialmodel-inmap/cmd/inmap).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	flip "github.com/gekko3d/flipcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flipdemo",
		Short: "Run a FLIP fluid scenario and report per-frame statistics",
	}
	root.AddCommand(newRunCmd())
	return root
}

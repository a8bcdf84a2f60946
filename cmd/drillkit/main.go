// Command drillkit resolves drillable headers and journals drill events.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/drillkit/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}

// Command flightwatch tracks growing degree days and butterfly flight
// windows for a configured location. See the subcommand help for details.
package main

import (
	"fmt"
	"os"

	"github.com/acrenwood/flightwatch/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.Run(version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

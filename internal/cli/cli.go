// Package cli wires the subcommands that drive the pipeline.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Fetch   *FetchCommand
	Build   *BuildCommand
	Refresh *RefreshCommand
	Serve   *ServeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "flightwatch"
	parser.LongDescription = "Growing-degree-day tracking and butterfly flight-window profiles from cached weather and sighting data."

	cmds := &commands{
		Fetch:   &FetchCommand{globals: &globals, version: version},
		Build:   &BuildCommand{globals: &globals, version: version},
		Refresh: &RefreshCommand{globals: &globals, version: version},
		Serve:   &ServeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("fetch", "Fetch upstream data into the store", "Fetch temperature series and sightings, skipping documents whose cached copy is still fresh.", cmds.Fetch)
	parser.AddCommand("build", "Rebuild derived artifacts from the cache", "Rebuild the normals band, current-year timeline, and species profiles without touching the network.", cmds.Build)
	parser.AddCommand("refresh", "Fetch then build in one pass", "Run a complete refresh cycle: fetch whatever is stale, then rebuild the derived artifacts.", cmds.Refresh)
	parser.AddCommand("serve", "Run the service", "Run the periodic refresh loop and the HTTP API until interrupted.", cmds.Serve)

	return parser, &globals, cmds
}

// Run is the main CLI entry point using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the
// matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parsing (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("flightwatch %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}

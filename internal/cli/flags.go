package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	DataDir string `long:"data-dir" description:"Override the store directory" default:""`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// FetchCommand refreshes stale cached documents from the upstream APIs.
type FetchCommand struct {
	CurvesOnly       bool `long:"curves-only" description:"Fetch only the temperature curves"`
	ObservationsOnly bool `long:"observations-only" description:"Fetch only the sightings"`

	globals *GlobalFlags
	version string
}

// BuildCommand rebuilds the derived artifacts from the cache, offline.
type BuildCommand struct {
	globals *GlobalFlags
	version string
}

// RefreshCommand runs one fetch-then-build cycle and exits.
type RefreshCommand struct {
	globals *GlobalFlags
	version string
}

// ServeCommand runs the refresh loop and HTTP API until interrupted.
type ServeCommand struct {
	Addr string `long:"addr" description:"Override the HTTP listen address"`

	globals *GlobalFlags
	version string
}

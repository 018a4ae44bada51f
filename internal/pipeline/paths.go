package pipeline

import "fmt"

const (
	observationsPath = "live/observations.json"
	normalsPath      = "derived/gdd_normals.json"
	timelinePath     = "derived/gdd_timeline.json"
	profilesPath     = "derived/species_profiles.json"
)

func curvePath(year int) string {
	return fmt.Sprintf("historical/gdd/%d.json", year)
}

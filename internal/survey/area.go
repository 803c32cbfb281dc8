package survey

// Unit and heuristic constants for area estimation.
const (
	sqmToSqft = 10.764

	// Surveyed repair areas cover roughly 12.5% of the full roof, so the
	// repair total scales up by 8 before unit conversion.
	repairToTotalFactor = 8

	// Story-count defaults, ft². Average single-family home runs 1500-2500.
	defaultAreaThreeStory = 3000
	defaultAreaTwoStory   = 2500
	defaultAreaOneStory   = 2000
)

// EstimateArea derives a roof area in ft² for one record, trying each
// source in priority order and using the first that yields a positive
// value:
//
//  1. an explicit surveyed area, used verbatim
//  2. metal clipped area (m², converted)
//  3. tile count, at ~1 ft² per tile
//  4. the summed repair areas, scaled up and converted
//  5. a default keyed to the number of stories
//
// Every record produces a positive area; there is no error case.
func EstimateArea(r RawRoofRecord) float64 {
	if r.RoofArea > 0 {
		return r.RoofArea
	}

	if r.MetalClippedSqm > 0 {
		return r.MetalClippedSqm * sqmToSqft
	}

	if r.TileCount > 0 {
		return float64(r.TileCount)
	}

	totalRepairSqm := r.ShingleRepairSqm + r.TileRepairSqm + r.MetalRepairSqm
	if totalRepairSqm > 0 {
		return totalRepairSqm * repairToTotalFactor * sqmToSqft
	}

	switch {
	case r.NumStories >= 3:
		return defaultAreaThreeStory
	case r.NumStories == 2:
		return defaultAreaTwoStory
	default:
		return defaultAreaOneStory
	}
}

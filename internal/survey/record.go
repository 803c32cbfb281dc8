// Package survey holds the roof survey data model: one record per surveyed
// roof facet, aggregated into one Property per street address.
package survey

// RawRoofRecord is a single surveyed roof facet from a Nearmap-style export.
// A building with several roof layers produces several records sharing one
// address. Numeric fields missing from the source default to zero.
type RawRoofRecord struct {
	Address          string  `json:"address"`
	RoofMaterial     string  `json:"roof_material"`
	Pitch            float64 `json:"pitch"`              // degrees
	HeightFt         float64 `json:"height_ft"`          // feet
	ConditionScore   float64 `json:"condition_score"`    // 0-100 summary score
	NumStories       int     `json:"num_stories"`
	TileCount        int     `json:"tile_count"`
	MetalClippedSqm  float64 `json:"metal_clipped_sqm"`  // m²
	ShingleRepairSqm float64 `json:"shingle_repair_sqm"` // m²
	TileRepairSqm    float64 `json:"tile_repair_sqm"`    // m²
	MetalRepairSqm   float64 `json:"metal_repair_sqm"`   // m²

	// RoofArea is an explicit surveyed area in ft². Zero means absent and
	// the area is estimated from the other fields instead.
	RoofArea float64 `json:"roof_area,omitempty"`
}

// Property is the deduplicated aggregate of all records sharing an address.
type Property struct {
	Address          string  `json:"address"`
	RoofArea         float64 `json:"roof_area"` // ft², summed across layers
	DominantMaterial string  `json:"dominant_material"`
	AvgPitch         float64 `json:"avg_pitch"`
	AvgCondition     float64 `json:"avg_condition"`
	AvgHeightFt      float64 `json:"avg_height_ft"`
	LayerCount       int     `json:"layer_count"`

	// Per-material repair areas summed across layers, still in m²; repair
	// rates are quoted per m² so these are never unit-converted.
	ShingleRepairSqm float64 `json:"shingle_repair_sqm"`
	TileRepairSqm    float64 `json:"tile_repair_sqm"`
	MetalRepairSqm   float64 `json:"metal_repair_sqm"`
}

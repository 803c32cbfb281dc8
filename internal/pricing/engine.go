package pricing

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tileit-labs/quote-cli/internal/survey"
)

// Workday length used to turn daily crew productivity into labor hours.
const hoursPerDay = 8

// Region multiplier table. Comparison uses the first two characters of
// the profile ZIP code; unmatched prefixes price at 1.0.
var (
	highCostZipPrefixes = map[string]struct{}{
		"100": {}, "90": {}, "94": {}, "11": {},
	}
	lowCostZipPrefixes = map[string]struct{}{
		"83": {}, "59": {}, "35": {}, "73": {},
	}
)

// Engine prices aggregated properties under one roofer profile. It is
// stateless beyond the profile and safe for concurrent use; pricing the
// same property twice yields identical results.
type Engine struct {
	profile *Profile
}

// NewEngine creates an Engine for the given profile. The profile is not
// validated here; Batch validates once up front, and direct callers are
// expected to have done the same.
func NewEngine(profile *Profile) *Engine {
	return &Engine{profile: profile}
}

// Quote computes the full cost breakdown and quote range for one property.
//
// Unknown materials and unmatched ZIP prefixes degrade to documented
// default rates rather than failing; the only error cases are structural
// (a zero-productivity profile or a non-positive area) that the engine
// cannot price around.
func (e *Engine) Quote(prop survey.Property) (*QuoteResult, error) {
	p := e.profile
	if p.DailyProductivity <= 0 {
		return nil, eris.Errorf("pricing: %s: daily productivity must be positive", prop.Address)
	}
	if prop.RoofArea <= 0 {
		return nil, eris.Errorf("pricing: %s: roof area must be positive", prop.Address)
	}

	materialCost := prop.RoofArea * p.materialRate(prop.DominantMaterial)

	crewSize := e.crewSize(prop.RoofArea, prop.AvgPitch, prop.AvgHeightFt)
	laborHours := prop.RoofArea / p.DailyProductivity * hoursPerDay
	laborCost := laborHours * p.LaborRate * float64(crewSize) * (1 + e.slopeFactor(prop.AvgPitch))

	repairCost := prop.ShingleRepairSqm*p.replacementRate("shingle") +
		prop.TileRepairSqm*p.replacementRate("tile") +
		prop.MetalRepairSqm*p.replacementRate("metal")

	regionMult := RegionMultiplier(p.PrimaryZipCode)

	subtotal := (materialCost + laborCost + repairCost) * regionMult
	overhead := subtotal * p.OverheadPercent
	profit := (subtotal + overhead) * p.ProfitMargin
	total := subtotal + overhead + profit

	minQuote := total * minQuoteFactor
	maxQuote := total * maxQuoteFactor

	zap.L().Debug("pricing: quote computed",
		zap.String("address", prop.Address),
		zap.Float64("area", prop.RoofArea),
		zap.Int("crew_size", crewSize),
		zap.Float64("total", total),
	)

	return &QuoteResult{
		Address:          prop.Address,
		RoofMaterial:     prop.DominantMaterial,
		Pitch:            prop.AvgPitch,
		RoofArea:         prop.RoofArea,
		CrewSizeUsed:     crewSize,
		RegionMultiplier: regionMult,
		MaterialCost:     round2(materialCost),
		LaborCost:        round2(laborCost),
		RepairCost:       round2(repairCost),
		Subtotal:         round2(subtotal),
		Overhead:         round2(overhead),
		Profit:           round2(profit),
		Total:            round2(total),
		MinQuote:         round2(minQuote),
		MaxQuote:         round2(maxQuote),
		QuoteRange:       FormatQuoteRange(minQuote, maxQuote),
	}, nil
}

// crewSize scales the base crew with area, and with pitch/height when the
// profile opts into complexity scaling. There is no upper cap.
func (e *Engine) crewSize(area, pitch, heightFt float64) int {
	crew := e.profile.BaseCrewSize

	if area > 3000 {
		crew++
	}
	if area > 5000 {
		crew++
	}

	if e.profile.CrewScalingRule == ScaleSizeAndComplexity {
		if pitch > 30 || heightFt > 25 {
			crew++
		}
	}

	return crew
}

// slopeFactor maps a pitch in degrees to the profile's surcharge tier.
func (e *Engine) slopeFactor(pitch float64) float64 {
	adj := e.profile.SlopeAdjustments
	switch {
	case pitch <= 15:
		return adj.FlatLow
	case pitch <= 30:
		return adj.Moderate
	case pitch <= 45:
		return adj.Steep
	default:
		return adj.VerySteep
	}
}

// RegionMultiplier derives the local cost scalar from a ZIP code's first
// two characters. ZIPs differing only past position 2 price identically.
func RegionMultiplier(zipCode string) float64 {
	prefix := zipCode
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	if _, ok := highCostZipPrefixes[prefix]; ok {
		return 1.25
	}
	if _, ok := lowCostZipPrefixes[prefix]; ok {
		return 0.85
	}
	return 1.0
}

package pricing

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Quote range band around the computed total. Asymmetric on purpose: the
// low end undercuts by 10%, the high end pads by 15%.
const (
	minQuoteFactor = 0.9
	maxQuoteFactor = 1.15
)

// QuoteResult is the full priced breakdown for one property under one
// profile. All monetary fields are rounded to cents; QuoteRange is the
// display string shown to the homeowner.
type QuoteResult struct {
	Address          string  `json:"address"`
	RoofMaterial     string  `json:"roof_material"`
	Pitch            float64 `json:"pitch"`
	RoofArea         float64 `json:"roof_area"`
	CrewSizeUsed     int     `json:"crew_size_used"`
	RegionMultiplier float64 `json:"region_multiplier"`
	MaterialCost     float64 `json:"material_cost"`
	LaborCost        float64 `json:"labor_cost"`
	RepairCost       float64 `json:"repair_cost"`
	Subtotal         float64 `json:"subtotal"`
	Overhead         float64 `json:"overhead"`
	Profit           float64 `json:"profit"`
	Total            float64 `json:"total"`
	MinQuote         float64 `json:"min_quote"`
	MaxQuote         float64 `json:"max_quote"`
	QuoteRange       string  `json:"estimated_quote_range"` // e.g. "$22,000 - $26,000"
}

var rangePrinter = message.NewPrinter(language.AmericanEnglish)

// FormatQuoteRange renders the homeowner-facing range string with
// thousands separators and no decimals.
func FormatQuoteRange(minQuote, maxQuote float64) string {
	return rangePrinter.Sprintf("$%.0f - $%.0f", minQuote, maxQuote)
}

// round2 rounds to cents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

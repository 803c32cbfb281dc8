// Package pricing computes roofing quotes for aggregated properties under
// a roofer's business profile.
package pricing

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// CrewScalingRule governs how crew size grows with the job.
type CrewScalingRule string

const (
	// ScaleSizeOnly grows the crew with roof area alone.
	ScaleSizeOnly CrewScalingRule = "size_only"
	// ScaleSizeAndComplexity also grows the crew for steep or tall roofs.
	ScaleSizeAndComplexity CrewScalingRule = "size_and_complexity"
)

// ParseScalingRule converts a config string into a CrewScalingRule.
func ParseScalingRule(s string) (CrewScalingRule, error) {
	switch CrewScalingRule(strings.ToLower(strings.TrimSpace(s))) {
	case ScaleSizeOnly:
		return ScaleSizeOnly, nil
	case ScaleSizeAndComplexity:
		return ScaleSizeAndComplexity, nil
	default:
		return "", eris.Errorf("pricing: unknown crew scaling rule %q", s)
	}
}

// SlopeAdjustments holds the fractional labor surcharge per pitch tier.
type SlopeAdjustments struct {
	FlatLow   float64 `json:"flat_low" yaml:"flat_low" mapstructure:"flat_low"`             // 0-15°
	Moderate  float64 `json:"moderate" yaml:"moderate" mapstructure:"moderate"`             // 15-30°
	Steep     float64 `json:"steep" yaml:"steep" mapstructure:"steep"`                      // 30-45°
	VerySteep float64 `json:"very_steep" yaml:"very_steep" mapstructure:"very_steep"`       // >45°
}

// Profile is a roofer's full business configuration for quoting.
type Profile struct {
	BusinessName   string `json:"business_name" yaml:"business_name" mapstructure:"business_name"`
	LicenseID      string `json:"license_id" yaml:"license_id" mapstructure:"license_id"`
	PrimaryZipCode string `json:"primary_zip_code" yaml:"primary_zip_code" mapstructure:"primary_zip_code"`
	Email          string `json:"email" yaml:"email" mapstructure:"email"`

	LaborRate         float64         `json:"labor_rate" yaml:"labor_rate" mapstructure:"labor_rate"`                         // $/hour/worker
	DailyProductivity float64         `json:"daily_productivity" yaml:"daily_productivity" mapstructure:"daily_productivity"` // ft²/day/crew
	BaseCrewSize      int             `json:"base_crew_size" yaml:"base_crew_size" mapstructure:"base_crew_size"`
	CrewScalingRule   CrewScalingRule `json:"crew_scaling_rule" yaml:"crew_scaling_rule" mapstructure:"crew_scaling_rule"`

	SlopeAdjustments SlopeAdjustments   `json:"slope_cost_adjustment" yaml:"slope_cost_adjustment" mapstructure:"slope_cost_adjustment"`
	MaterialCosts    map[string]float64 `json:"material_costs" yaml:"material_costs" mapstructure:"material_costs"`          // $/ft² install
	ReplacementCosts map[string]float64 `json:"replacement_costs" yaml:"replacement_costs" mapstructure:"replacement_costs"` // $/m² repair

	OverheadPercent float64 `json:"overhead_percent" yaml:"overhead_percent" mapstructure:"overhead_percent"` // e.g. 0.1
	ProfitMargin    float64 `json:"profit_margin" yaml:"profit_margin" mapstructure:"profit_margin"`          // e.g. 0.2
}

// Default rate fallbacks for material keys outside the profile tables.
const (
	defaultMaterialRate    = 5.0  // $/ft²
	defaultReplacementRate = 50.0 // $/m²
)

// DefaultProfile returns the stock rate tables new roofer accounts start
// from.
func DefaultProfile() *Profile {
	return &Profile{
		LaborRate:         45,
		DailyProductivity: 2500,
		BaseCrewSize:      3,
		CrewScalingRule:   ScaleSizeAndComplexity,
		SlopeAdjustments: SlopeAdjustments{
			FlatLow:   0.0,
			Moderate:  0.1,
			Steep:     0.2,
			VerySteep: 0.3,
		},
		MaterialCosts: map[string]float64{
			"asphalt":  4.0,
			"shingle":  4.5,
			"metal":    7.0,
			"tile":     8.0,
			"concrete": 6.0,
		},
		ReplacementCosts: map[string]float64{
			"asphalt":  45.0,
			"shingle":  50.0,
			"metal":    90.0,
			"tile":     70.0,
			"concrete": 60.0,
		},
		OverheadPercent: 0.1,
		ProfitMargin:    0.2,
	}
}

// Validate checks the profile is structurally complete for pricing. A
// profile failing here aborts a whole batch before any quote is computed;
// per-quote anomalies (unknown materials, unmatched ZIPs) are handled with
// documented defaults instead.
func (p *Profile) Validate() error {
	if p == nil {
		return eris.New("pricing: profile is nil")
	}
	if p.LaborRate < 0 {
		return eris.New("pricing: labor_rate must be non-negative")
	}
	if p.DailyProductivity <= 0 {
		return eris.New("pricing: daily_productivity must be positive")
	}
	if p.BaseCrewSize <= 0 {
		return eris.New("pricing: base_crew_size must be positive")
	}
	if _, err := ParseScalingRule(string(p.CrewScalingRule)); err != nil {
		return err
	}
	if p.OverheadPercent < 0 {
		return eris.New("pricing: overhead_percent must be non-negative")
	}
	if p.ProfitMargin < 0 {
		return eris.New("pricing: profit_margin must be non-negative")
	}
	if zip := strings.TrimSpace(p.PrimaryZipCode); zip != "" {
		if len(zip) != 5 || strings.IndexFunc(zip, notDigit) >= 0 {
			return eris.Errorf("pricing: primary_zip_code %q must be 5 digits", zip)
		}
	}
	return nil
}

func notDigit(r rune) bool { return r < '0' || r > '9' }

// LoadProfile reads a profile from a YAML file, layered over the defaults
// so a partial file only overrides what it names.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pricing: read profile %s", path)
	}

	p := DefaultProfile()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, eris.Wrapf(err, "pricing: parse profile %s", path)
	}
	return p, nil
}

// materialRate returns the installation rate for a material, falling back
// to the default rate for keys outside the profile table.
func (p *Profile) materialRate(material string) float64 {
	if rate, ok := p.MaterialCosts[strings.ToLower(material)]; ok {
		return rate
	}
	return defaultMaterialRate
}

// replacementRate returns the repair rate for a material, falling back to
// the default rate for keys outside the profile table.
func (p *Profile) replacementRate(material string) float64 {
	if rate, ok := p.ReplacementCosts[strings.ToLower(material)]; ok {
		return rate
	}
	return defaultReplacementRate
}

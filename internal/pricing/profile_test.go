package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScalingRule(t *testing.T) {
	rule, err := ParseScalingRule("size_only")
	require.NoError(t, err)
	assert.Equal(t, ScaleSizeOnly, rule)

	rule, err = ParseScalingRule("  Size_And_Complexity ")
	require.NoError(t, err)
	assert.Equal(t, ScaleSizeAndComplexity, rule)

	_, err = ParseScalingRule("per_worker")
	require.Error(t, err)
}

func TestDefaultProfile_Valid(t *testing.T) {
	require.NoError(t, DefaultProfile().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Profile)
		errMsg string
	}{
		{"negative labor rate", func(p *Profile) { p.LaborRate = -1 }, "labor_rate"},
		{"zero productivity", func(p *Profile) { p.DailyProductivity = 0 }, "daily_productivity"},
		{"zero crew", func(p *Profile) { p.BaseCrewSize = 0 }, "base_crew_size"},
		{"bad scaling rule", func(p *Profile) { p.CrewScalingRule = "whatever" }, "scaling rule"},
		{"negative overhead", func(p *Profile) { p.OverheadPercent = -0.1 }, "overhead_percent"},
		{"negative margin", func(p *Profile) { p.ProfitMargin = -0.2 }, "profit_margin"},
		{"short zip", func(p *Profile) { p.PrimaryZipCode = "123" }, "5 digits"},
		{"non-digit zip", func(p *Profile) { p.PrimaryZipCode = "1234x" }, "5 digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProfile()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidate_EmptyZipAllowed(t *testing.T) {
	p := DefaultProfile()
	p.PrimaryZipCode = ""
	assert.NoError(t, p.Validate())
}

func TestValidate_Nil(t *testing.T) {
	var p *Profile
	require.Error(t, p.Validate())
}

func TestLoadProfile_PartialOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"business_name: Ridgeview Roofing\nlabor_rate: 60\nprimary_zip_code: \"83701\"\n",
	), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ridgeview Roofing", p.BusinessName)
	assert.Equal(t, 60.0, p.LaborRate)
	assert.Equal(t, "83701", p.PrimaryZipCode)

	// Fields the file does not name keep their defaults.
	assert.Equal(t, 2500.0, p.DailyProductivity)
	assert.Equal(t, 3, p.BaseCrewSize)
	assert.Equal(t, 8.0, p.MaterialCosts["tile"])
}

func TestLoadProfile_Errors(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("labor_rate: [nope"), 0o644))
	_, err = LoadProfile(path)
	require.Error(t, err)
}

func TestMaterialRate(t *testing.T) {
	p := DefaultProfile()
	assert.Equal(t, 8.0, p.materialRate("tile"))
	assert.Equal(t, 8.0, p.materialRate("TILE"))
	assert.Equal(t, defaultMaterialRate, p.materialRate("slate"))
	assert.Equal(t, defaultMaterialRate, p.materialRate(""))
}

func TestReplacementRate(t *testing.T) {
	p := DefaultProfile()
	assert.Equal(t, 90.0, p.replacementRate("metal"))
	assert.Equal(t, defaultReplacementRate, p.replacementRate("slate"))
}

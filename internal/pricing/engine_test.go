package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tileit-labs/quote-cli/internal/survey"
)

func fixtureProfile() *Profile {
	p := DefaultProfile()
	p.BusinessName = "Ridgeview Roofing"
	p.PrimaryZipCode = "11221"
	return p
}

func fixtureProperty() survey.Property {
	return survey.Property{
		Address:          "12 Oak St",
		RoofArea:         121,
		DominantMaterial: "concrete",
		AvgPitch:         24.43,
		AvgHeightFt:      13.25,
		LayerCount:       1,
	}
}

func TestQuote_EndToEndBreakdown(t *testing.T) {
	eng := NewEngine(fixtureProfile())

	q, err := eng.Quote(fixtureProperty())
	require.NoError(t, err)

	assert.Equal(t, "12 Oak St", q.Address)
	assert.Equal(t, "concrete", q.RoofMaterial)
	assert.Equal(t, 121.0, q.RoofArea)
	assert.Equal(t, 3, q.CrewSizeUsed)
	assert.Equal(t, 1.25, q.RegionMultiplier)

	assert.Equal(t, 726.00, q.MaterialCost)
	assert.InDelta(t, 57.50, q.LaborCost, 0.005)
	assert.Equal(t, 0.0, q.RepairCost)
	assert.InDelta(t, 979.37, q.Subtotal, 0.005)
	assert.InDelta(t, 97.94, q.Overhead, 0.005)
	assert.InDelta(t, 215.46, q.Profit, 0.005)
	assert.InDelta(t, 1292.77, q.Total, 0.005)
	assert.Equal(t, "$1,163 - $1,487", q.QuoteRange)
}

func TestQuote_Deterministic(t *testing.T) {
	eng := NewEngine(fixtureProfile())
	prop := fixtureProperty()

	first, err := eng.Quote(prop)
	require.NoError(t, err)
	second, err := eng.Quote(prop)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQuote_UnknownMaterialUsesDefaultRate(t *testing.T) {
	eng := NewEngine(fixtureProfile())
	prop := fixtureProperty()
	prop.DominantMaterial = "thatch"

	q, err := eng.Quote(prop)
	require.NoError(t, err)
	assert.Equal(t, round2(121*defaultMaterialRate), q.MaterialCost)
}

func TestQuote_RepairCostNotUnitConverted(t *testing.T) {
	p := fixtureProfile()
	eng := NewEngine(p)
	prop := fixtureProperty()
	prop.ShingleRepairSqm = 2
	prop.TileRepairSqm = 1.5
	prop.MetalRepairSqm = 0.5

	q, err := eng.Quote(prop)
	require.NoError(t, err)
	want := 2*p.ReplacementCosts["shingle"] + 1.5*p.ReplacementCosts["tile"] + 0.5*p.ReplacementCosts["metal"]
	assert.InDelta(t, want, q.RepairCost, 1e-9)
}

func TestQuote_RangeBracketsTotal(t *testing.T) {
	eng := NewEngine(fixtureProfile())

	q, err := eng.Quote(fixtureProperty())
	require.NoError(t, err)
	assert.Less(t, q.MinQuote, q.Total)
	assert.Greater(t, q.MaxQuote, q.Total)

	// MinQuote/MaxQuote are rounded from the unrounded total, so comparing
	// against the already-rounded Total needs a cent of slack either way.
	assert.InDelta(t, q.Total*0.9, q.MinQuote, 0.01)
	assert.InDelta(t, q.Total*1.15, q.MaxQuote, 0.01)
}

func TestQuote_RangeDerivedFromUnroundedTotal(t *testing.T) {
	eng := NewEngine(fixtureProfile())

	q, err := eng.Quote(fixtureProperty())
	require.NoError(t, err)

	// Unrounded fixture total is 1292.77368; the band factors apply before
	// rounding, so 1292.77368*0.9 = 1163.496 rounds to 1163.50 even though
	// the rounded Total*0.9 would give 1163.49.
	assert.Equal(t, 1163.50, q.MinQuote)
	assert.Equal(t, 1486.69, q.MaxQuote)
}

func TestQuote_SubtotalNeverExceedsTotal(t *testing.T) {
	eng := NewEngine(fixtureProfile())

	for _, area := range []float64{50, 121, 3200, 8000} {
		prop := fixtureProperty()
		prop.RoofArea = area
		q, err := eng.Quote(prop)
		require.NoError(t, err)
		assert.LessOrEqual(t, q.Subtotal, q.Total, "area=%v", area)
	}
}

func TestQuote_Errors(t *testing.T) {
	t.Run("zero area", func(t *testing.T) {
		eng := NewEngine(fixtureProfile())
		prop := fixtureProperty()
		prop.RoofArea = 0
		_, err := eng.Quote(prop)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "12 Oak St")
	})

	t.Run("zero productivity", func(t *testing.T) {
		p := fixtureProfile()
		p.DailyProductivity = 0
		_, err := NewEngine(p).Quote(fixtureProperty())
		require.Error(t, err)
	})
}

func TestCrewSize(t *testing.T) {
	tests := []struct {
		name   string
		rule   CrewScalingRule
		area   float64
		pitch  float64
		height float64
		want   int
	}{
		{"small flat", ScaleSizeAndComplexity, 1000, 10, 10, 3},
		{"over 3000", ScaleSizeAndComplexity, 3001, 10, 10, 4},
		{"over 5000", ScaleSizeAndComplexity, 5001, 10, 10, 5},
		{"steep adds one", ScaleSizeAndComplexity, 1000, 31, 10, 4},
		{"tall adds one", ScaleSizeAndComplexity, 1000, 10, 26, 4},
		{"steep and tall add one total", ScaleSizeAndComplexity, 1000, 40, 40, 4},
		{"size only ignores complexity", ScaleSizeOnly, 1000, 40, 40, 3},
		{"large steep tall", ScaleSizeAndComplexity, 5001, 40, 40, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fixtureProfile()
			p.CrewScalingRule = tt.rule
			got := NewEngine(p).crewSize(tt.area, tt.pitch, tt.height)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCrewSize_MonotonicInArea(t *testing.T) {
	eng := NewEngine(fixtureProfile())
	prev := 0
	for _, area := range []float64{100, 3000, 3001, 5000, 5001, 9000} {
		crew := eng.crewSize(area, 10, 10)
		assert.GreaterOrEqual(t, crew, prev, "area=%v", area)
		prev = crew
	}
}

func TestSlopeFactor_Tiers(t *testing.T) {
	eng := NewEngine(fixtureProfile())
	tests := []struct {
		pitch float64
		want  float64
	}{
		{0, 0.0},
		{15, 0.0},
		{15.01, 0.1},
		{30, 0.1},
		{30.01, 0.2},
		{45, 0.2},
		{45.01, 0.3},
		{80, 0.3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, eng.slopeFactor(tt.pitch), "pitch=%v", tt.pitch)
	}
}

func TestRegionMultiplier(t *testing.T) {
	tests := []struct {
		zip  string
		want float64
	}{
		{"90210", 1.25},
		{"94103", 1.25},
		{"11221", 1.25},
		{"83701", 0.85},
		{"59101", 0.85},
		{"35004", 0.85},
		{"73301", 0.85},
		{"60601", 1.0},
		{"", 1.0},
		{"9", 1.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RegionMultiplier(tt.zip), "zip=%q", tt.zip)
	}
}

func TestRegionMultiplier_PrefixEquivalence(t *testing.T) {
	// ZIPs that differ only past the second character price identically.
	assert.Equal(t, RegionMultiplier("90210"), RegionMultiplier("90999"))
	assert.Equal(t, RegionMultiplier("83001"), RegionMultiplier("83998"))
	assert.Equal(t, RegionMultiplier("42000"), RegionMultiplier("42999"))
}

package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateArea_ExplicitAreaWins(t *testing.T) {
	r := RawRoofRecord{
		RoofArea:        1234.5,
		MetalClippedSqm: 100, // would otherwise apply
		TileCount:       500,
	}
	assert.Equal(t, 1234.5, EstimateArea(r))
}

func TestEstimateArea_MetalClipped(t *testing.T) {
	r := RawRoofRecord{MetalClippedSqm: 100, TileCount: 500}
	assert.InDelta(t, 1076.4, EstimateArea(r), 1e-9)
}

func TestEstimateArea_TileCount(t *testing.T) {
	r := RawRoofRecord{TileCount: 121}
	assert.Equal(t, 121.0, EstimateArea(r))
}

func TestEstimateArea_RepairAreas(t *testing.T) {
	r := RawRoofRecord{
		ShingleRepairSqm: 2,
		TileRepairSqm:    3,
		MetalRepairSqm:   5,
	}
	// 10 m² of repairs -> 80 m² roof -> ft².
	assert.InDelta(t, 10*8*10.764, EstimateArea(r), 1e-9)
}

func TestEstimateArea_StoryDefaults(t *testing.T) {
	tests := []struct {
		stories int
		want    float64
	}{
		{5, 3000},
		{3, 3000},
		{2, 2500},
		{1, 2000},
		{0, 2000},
	}
	for _, tt := range tests {
		got := EstimateArea(RawRoofRecord{NumStories: tt.stories})
		assert.Equal(t, tt.want, got, "stories=%d", tt.stories)
	}
}

func TestEstimateArea_AlwaysPositive(t *testing.T) {
	assert.Greater(t, EstimateArea(RawRoofRecord{}), 0.0)
}

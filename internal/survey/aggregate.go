package survey

import (
	"strings"

	"go.uber.org/zap"
)

// Aggregate folds raw facet records into one Property per address.
//
// Records are grouped by trimmed address in first-seen order, which is also
// the output order. Records with a blank address are dropped. The aggregate
// area is the sum of per-layer area estimates; pitch, condition and height
// are arithmetic means over the layers; the dominant material is a stable
// mode over the non-empty layer materials with ties broken by earliest
// occurrence in the group.
//
// Aggregation is a pure function of its input: it holds no state between
// calls and never mutates the records.
func Aggregate(records []RawRoofRecord) []Property {
	groups := make(map[string][]RawRoofRecord)
	var order []string

	dropped := 0
	for _, r := range records {
		addr := strings.TrimSpace(r.Address)
		if addr == "" {
			dropped++
			continue
		}
		if _, seen := groups[addr]; !seen {
			order = append(order, addr)
		}
		groups[addr] = append(groups[addr], r)
	}

	props := make([]Property, 0, len(order))
	for _, addr := range order {
		props = append(props, combine(addr, groups[addr]))
	}

	if dropped > 0 {
		zap.L().Warn("survey: dropped records with blank address",
			zap.Int("dropped", dropped),
			zap.Int("total", len(records)),
		)
	}

	return props
}

// combine builds the aggregate for one address group. len(layers) >= 1.
func combine(addr string, layers []RawRoofRecord) Property {
	var area, pitch, condition, height float64
	var shingleRepair, tileRepair, metalRepair float64
	for _, l := range layers {
		area += EstimateArea(l)
		pitch += l.Pitch
		condition += l.ConditionScore
		height += l.HeightFt
		shingleRepair += l.ShingleRepairSqm
		tileRepair += l.TileRepairSqm
		metalRepair += l.MetalRepairSqm
	}

	n := float64(len(layers))
	return Property{
		Address:          addr,
		RoofArea:         area,
		DominantMaterial: dominantMaterial(layers),
		AvgPitch:         pitch / n,
		AvgCondition:     condition / n,
		AvgHeightFt:      height / n,
		LayerCount:       len(layers),
		ShingleRepairSqm: shingleRepair,
		TileRepairSqm:    tileRepair,
		MetalRepairSqm:   metalRepair,
	}
}

// dominantMaterial returns the most frequent non-empty material in layer
// order, preferring the earliest-seen value on a tie so repeated runs over
// the same input always agree.
func dominantMaterial(layers []RawRoofRecord) string {
	counts := make(map[string]int)
	var order []string

	for _, l := range layers {
		m := strings.TrimSpace(l.RoofMaterial)
		if m == "" {
			continue
		}
		if _, seen := counts[m]; !seen {
			order = append(order, m)
		}
		counts[m]++
	}

	best := ""
	bestCount := 0
	for _, m := range order {
		if counts[m] > bestCount {
			best = m
			bestCount = counts[m]
		}
	}
	return best
}

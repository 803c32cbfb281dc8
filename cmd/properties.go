package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tileit-labs/quote-cli/internal/survey"
)

var propertiesCSVPath string

var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "Aggregate a survey export and print the property summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := survey.LoadCSV(propertiesCSVPath)
		if err != nil {
			return err
		}

		props := survey.Aggregate(records)
		summary := summarize(records, props)

		zap.L().Info("survey summarized",
			zap.Int("records", summary.TotalRecords),
			zap.Int("properties", summary.UniqueProperties),
			zap.Int("multi_layer", summary.MultiLayerProperties),
		)

		out := struct {
			Summary    surveySummary     `json:"summary"`
			Properties []survey.Property `json:"properties"`
		}{Summary: summary, Properties: props}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

// surveySummary is the roll-up printed alongside aggregated properties.
type surveySummary struct {
	TotalRecords         int            `json:"total_records"`
	UniqueProperties     int            `json:"unique_properties"`
	MultiLayerProperties int            `json:"multi_layer_properties"`
	MaterialBreakdown    map[string]int `json:"material_breakdown"`
	AvgConditionScore    float64        `json:"avg_condition_score"`
}

func summarize(records []survey.RawRoofRecord, props []survey.Property) surveySummary {
	s := surveySummary{
		TotalRecords:      len(records),
		UniqueProperties:  len(props),
		MaterialBreakdown: make(map[string]int),
	}

	var conditionSum float64
	for _, p := range props {
		if p.LayerCount > 1 {
			s.MultiLayerProperties++
		}
		if p.DominantMaterial != "" {
			s.MaterialBreakdown[p.DominantMaterial]++
		}
		conditionSum += p.AvgCondition
	}
	if len(props) > 0 {
		s.AvgConditionScore = conditionSum / float64(len(props))
	}
	return s
}

func init() {
	propertiesCmd.Flags().StringVar(&propertiesCSVPath, "csv", "", "path to survey CSV export (required)")
	_ = propertiesCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(propertiesCmd)
}

package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tileit-labs/quote-cli/internal/export"
	"github.com/tileit-labs/quote-cli/internal/pricing"
	"github.com/tileit-labs/quote-cli/internal/survey"
)

var (
	quoteCSVPath     string
	quoteProfilePath string
	quoteWorkers     int
	quoteSave        bool
	quoteXLSXPath    string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Generate quotes for every property in a survey export",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		profile, err := effectiveProfile()
		if err != nil {
			return err
		}

		records, err := survey.LoadCSV(quoteCSVPath)
		if err != nil {
			return err
		}

		props := survey.Aggregate(records)
		zap.L().Info("properties aggregated",
			zap.Int("records", len(records)),
			zap.Int("properties", len(props)),
		)

		workers := quoteWorkers
		if workers == 0 {
			workers = cfg.Batch.Workers
		}

		quotes, rowErrs, err := pricing.NewBatch(profile, workers).Process(ctx, props)
		if err != nil {
			return eris.Wrap(err, "process batch")
		}

		if quoteSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
			if _, err := st.SaveQuotes(ctx, quotes); err != nil {
				return eris.Wrap(err, "save quotes")
			}
			zap.L().Info("quotes saved", zap.Int("count", len(quotes)))
		}

		if quoteXLSXPath != "" {
			if err := export.WriteXLSX(quoteXLSXPath, quotes); err != nil {
				return eris.Wrap(err, "export xlsx")
			}
			zap.L().Info("quotes exported", zap.String("path", quoteXLSXPath))
		}

		out := struct {
			Quotes []pricing.QuoteResult `json:"quotes"`
			Errors []pricing.RowError    `json:"errors,omitempty"`
		}{Quotes: quotes, Errors: rowErrs}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

// effectiveProfile resolves the pricing profile: a --profile YAML file
// wins over the config-file/env profile.
func effectiveProfile() (*pricing.Profile, error) {
	if quoteProfilePath != "" {
		p, err := pricing.LoadProfile(quoteProfilePath)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	p := cfg.Profile
	return &p, nil
}

func init() {
	quoteCmd.Flags().StringVar(&quoteCSVPath, "csv", "", "path to survey CSV export (required)")
	quoteCmd.Flags().StringVar(&quoteProfilePath, "profile", "", "path to a YAML pricing profile (overrides config)")
	quoteCmd.Flags().IntVar(&quoteWorkers, "workers", 0, "concurrent pricing workers (default from config)")
	quoteCmd.Flags().BoolVar(&quoteSave, "save", false, "persist generated quotes to the store")
	quoteCmd.Flags().StringVar(&quoteXLSXPath, "xlsx", "", "also write quotes to an XLSX workbook")
	_ = quoteCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(quoteCmd)
}

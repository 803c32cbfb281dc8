package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tileit-labs/quote-cli/internal/pricing"
)

var (
	profilePath string
	profileSave bool
	profileName string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show and validate the effective pricing profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var profile *pricing.Profile
		if profilePath != "" {
			p, err := pricing.LoadProfile(profilePath)
			if err != nil {
				return err
			}
			profile = p
		} else {
			p := cfg.Profile
			profile = &p
		}

		if err := profile.Validate(); err != nil {
			return eris.Wrap(err, "profile invalid")
		}
		zap.L().Info("profile valid",
			zap.String("business", profile.BusinessName),
			zap.String("zip", profile.PrimaryZipCode),
		)

		if profileSave {
			name := profileName
			if name == "" {
				name = profile.BusinessName
			}
			if name == "" {
				return eris.New("--name or profile business_name is required to save")
			}

			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
			if err := st.SaveProfile(ctx, name, profile); err != nil {
				return eris.Wrap(err, "save profile")
			}
			zap.L().Info("profile saved", zap.String("name", name))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	},
}

func init() {
	profileCmd.Flags().StringVar(&profilePath, "file", "", "path to a YAML pricing profile (default: config profile)")
	profileCmd.Flags().BoolVar(&profileSave, "save", false, "persist the profile to the store")
	profileCmd.Flags().StringVar(&profileName, "name", "", "name to save the profile under (default: business name)")
	rootCmd.AddCommand(profileCmd)
}

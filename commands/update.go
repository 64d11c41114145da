package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mobilede-scraper/scraper/mobilede"
)

var (
	skipSearch  *bool
	skipDetails *bool
)

func init() {
	skipSearch = updateCmd.Flags().Bool("skip-search", false,
		"Skip the search phase; only fetch details for pending records.")
	skipDetails = updateCmd.Flags().Bool("skip-details", false,
		"Skip the detail phase; only discover new listings.")
	// The underscore spellings (--skip_search, --skip_details) are accepted
	// too, for callers of earlier versions.
	updateCmd.Flags().SetNormalizeFunc(underscoreToDash)
	rootCmd.AddCommand(updateCmd)
}

func underscoreToDash(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

var updateCmd = &cobra.Command{
	Use:   "update [--skip-search] [--skip-details]",
	Short: "Discovers new listings and fetches details for pending ones.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		s := mobilede.New(cfg, store, logger)
		if err := s.Update(mobilede.UpdateOptions{
			SkipSearch:  *skipSearch,
			SkipDetails: *skipDetails,
		}); err != nil {
			return err
		}

		logger.Info("Update run finished")
		return nil
	},
}

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mobilede-scraper/config"
	"mobilede-scraper/storage"
	"mobilede-scraper/utils"
)

var rootCmd = &cobra.Command{
	Use:   "mobilede-scraper",
	Short: "Harvests electric-vehicle listings from mobile.de into a local store.",

	// Execute reports fatal errors itself; without these every RunE error
	// would be printed twice, followed by the usage text.
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the command dispatcher.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore wires up the shared config, logger and store for a command.
func openStore() (*config.Config, *utils.Logger, storage.Store, error) {
	logger := utils.NewLogger()
	cfg := config.Load()

	store, err := storage.NewStore(cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}
	return cfg, logger, store, nil
}

package commands

import (
	"github.com/spf13/cobra"

	"mobilede-scraper/storage"
)

var sheetOutDir *string

func init() {
	sheetOutDir = sheetCmd.Flags().String("out", "",
		"Directory to write the spreadsheet to (default: XLSX_OUTPUT_DIR).")
	rootCmd.AddCommand(sheetCmd)
}

var sheetCmd = &cobra.Command{
	Use:     "sheet [--out <dir>]",
	Aliases: []string{"export"},
	Short:   "Exports all stored listings to a timestamped spreadsheet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		listings, err := store.GetAll()
		if err != nil {
			return err
		}

		outDir := cfg.OutputDir
		if *sheetOutDir != "" {
			outDir = *sheetOutDir
		}

		path, err := storage.NewXLSXWriter(outDir).Write(listings)
		if err != nil {
			return err
		}

		logger.Info("Spreadsheet created: %s (%d listings)", path, len(listings))
		return nil
	},
}

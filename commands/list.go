package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"mobilede-scraper/services"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Prints all stored listings with a fleet summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		listings, err := store.GetAll()
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Title", "€", "km", "kW", "Range", "Owners", "Status"})
		for _, l := range listings {
			t.AppendRow(table.Row{
				l.ID, l.Title,
				intCol(l.PriceEUR), intCol(l.MileageKm), intCol(l.PowerKW),
				intCol(l.RangeKm), intCol(l.Owners), l.Status,
			})
		}
		t.SetStyle(table.StyleLight)
		t.Render()

		insights := services.NewInsightService(logger)
		insights.Print(insights.Generate(listings))
		return nil
	},
}

func intCol(p *int) any {
	if p == nil {
		return ""
	}
	return *p
}

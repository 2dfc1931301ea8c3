package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"cuticulome/internal/stats"
)

var statsTop int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print database statistics as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		report := stats.Build(a.snapshot.Records(), statsTop, a.publications)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", stats.DefaultTopSpecies, "number of species to list")
}

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cuticulome/internal/export"
	"cuticulome/internal/filter"
)

var (
	exportSelections = map[filter.Level]*string{}
	exportSearch     string
	exportOutput     string
	exportVerify     bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the zip export for a filter selection",
	Example: `  cuticulome export --subphylum Hexapoda --class Insecta -o insecta.zip
  cuticulome export -q CPR --verify`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		records := a.snapshot.Records()
		state := filter.NewState()
		for _, l := range filter.Levels {
			value := *exportSelections[l]
			if value == "" || value == filter.All {
				break
			}
			state = state.Select(records, l, value)
			if state.Get(l) != value {
				return fmt.Errorf("%s %q is not available under the current selection", l, value)
			}
		}
		state.Search = exportSearch
		subset := filter.Apply(records, state)

		archive, err := a.packager.Build(cmd.Context(), subset)
		if errors.Is(err, export.ErrEmptySelection) {
			logger.Warn("No entries selected.", zap.String("filter", state.Key()))
			return nil
		}
		if err != nil {
			return err
		}

		if exportVerify {
			rows, err := export.ReadMetadata(archive)
			if err != nil {
				return err
			}
			if len(rows)-1 != len(subset) {
				return fmt.Errorf("metadata has %d rows, expected %d", len(rows)-1, len(subset))
			}
		}
		if err := os.WriteFile(exportOutput, archive, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", exportOutput, err)
		}
		logger.Info("export written",
			zap.String("path", exportOutput),
			zap.Int("records", len(subset)),
			zap.Int("bytes", len(archive)))
		return nil
	},
}

func init() {
	for _, l := range filter.Levels {
		exportSelections[l] = exportCmd.Flags().String(l.String(), "", "select "+l.String())
	}
	exportCmd.Flags().StringVarP(&exportSearch, "query", "q", "", "case-insensitive search across all columns")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", export.ArchiveName, "output file")
	exportCmd.Flags().BoolVar(&exportVerify, "verify", false, "re-read metadata.csv from the archive before writing")
}

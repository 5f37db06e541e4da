package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tabstat/internal/dataset"
	"tabstat/internal/ui"
)

var describeDelimiter string

var describeCmd = &cobra.Command{
	Use:   "describe [file.csv]",
	Short: "Show the schema and row count of a dataset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		path, err := resolveDataset(args, cfg)
		if err != nil {
			return err
		}

		delimiter := cfg.Dataset.DelimiterRune()
		if describeDelimiter != "" {
			delimiter = []rune(describeDelimiter)[0]
		}

		ds, err := dataset.ReadCSV(path, delimiter)
		if err != nil {
			return err
		}

		ui.ShowHeader("Dataset Schema")
		table := ui.NewTable()
		table.AddHeader("Column", "Type")
		for _, col := range ds.Schema() {
			table.AddRow(col.Name, col.Type.String())
		}
		table.Render()

		fmt.Println()
		ui.ShowInfo(fmt.Sprintf("%d rows, %d columns", ds.Len(), len(ds.Columns())))
		return nil
	},
}

func init() {
	describeCmd.Flags().StringVarP(&describeDelimiter, "delimiter", "d", "", "field delimiter (default \",\")")
	rootCmd.AddCommand(describeCmd)
}

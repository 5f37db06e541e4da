package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tabstat/internal/report"
)

var (
	reportTable     string
	reportDelimiter string
	reportGroups    []string
	reportAverages  []string
)

var reportCmd = &cobra.Command{
	Use:   "report [file.csv]",
	Short: "Run the configured descriptive report",
	Long: `Load the dataset into the in-memory store and run the descriptive
sequence: schema, total row count, group-by counts, numeric averages, and
group percentage lines. The report definition comes from the saved
configuration; --group-by and --average add to it for one run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		path, err := resolveDataset(args, cfg)
		if err != nil {
			return err
		}

		delimiter := cfg.Dataset.DelimiterRune()
		if reportDelimiter != "" {
			delimiter = []rune(reportDelimiter)[0]
		}
		table := cfg.Dataset.TableName()
		if reportTable != "" {
			table = reportTable
		}

		def := cfg.Report
		def.GroupColumns = append(def.GroupColumns, reportGroups...)
		def.AverageColumns = append(def.AverageColumns, reportAverages...)

		if len(def.GroupColumns) == 0 && len(def.AverageColumns) == 0 && len(def.Percentages) == 0 {
			fmt.Println("No report definition configured; showing schema and row count only.")
			fmt.Println("Run 'tabstat setup' or pass --group-by / --average.")
		}

		ds, svc, err := loadStore(path, delimiter, table)
		if err != nil {
			return err
		}
		defer svc.Close()

		r, err := report.Build(svc, ds, table, def)
		if err != nil {
			return err
		}
		r.Render(os.Stdout)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportTable, "table", "t", "", "table name for the loaded dataset")
	reportCmd.Flags().StringVarP(&reportDelimiter, "delimiter", "d", "", "field delimiter (default \",\")")
	reportCmd.Flags().StringSliceVarP(&reportGroups, "group-by", "g", nil, "columns to add group-by count breakdowns for")
	reportCmd.Flags().StringSliceVarP(&reportAverages, "average", "a", nil, "numeric columns to average")
	rootCmd.AddCommand(reportCmd)
}

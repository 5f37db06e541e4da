package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tabstat/internal/store"
	"tabstat/internal/ui"
	"tabstat/pkg/errors"
	"tabstat/pkg/stats"
)

// predicate is one column=value pair from the --of flag. The value stays
// a string until the dataset schema is known and it can be coerced to the
// column's type.
type predicate struct {
	column string
	value  string
}

// predicateList is a repeatable --of column=value flag
type predicateList []predicate

var _ pflag.Value = (*predicateList)(nil)

func (p *predicateList) String() string {
	parts := make([]string, len(*p))
	for i, pred := range *p {
		parts[i] = pred.column + "=" + pred.value
	}
	return strings.Join(parts, ",")
}

func (p *predicateList) Set(s string) error {
	column, value, found := strings.Cut(s, "=")
	if !found || column == "" {
		return fmt.Errorf("expected column=value, got %q", s)
	}
	*p = append(*p, predicate{column: column, value: value})
	return nil
}

func (p *predicateList) Type() string {
	return "column=value"
}

var (
	percentPredicates predicateList
	percentTable      string
	percentDelimiter  string
	percentInMemory   bool
)

var percentCmd = &cobra.Command{
	Use:   "percent [file.csv]",
	Short: "Compute the percentage of rows in a group",
	Long: `Compute what share of all rows has a column equal to a target value,
as a percentage rounded to two decimal places.

By default the dataset is loaded into the in-memory SQL store and the
percentage is computed from two independent COUNT queries; --in-memory
computes it by direct iteration instead. The result is identical.`,
	Example: `  tabstat percent transactions.csv --of transaction_type=sale
  tabstat percent transactions.csv --of transaction_type=sale --of transaction_type=scam`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(percentPredicates) == 0 {
			return fmt.Errorf("at least one --of column=value predicate is required")
		}

		cfg := loadConfig()
		path, err := resolveDataset(args, cfg)
		if err != nil {
			return err
		}

		delimiter := cfg.Dataset.DelimiterRune()
		if percentDelimiter != "" {
			delimiter = []rune(percentDelimiter)[0]
		}
		table := cfg.Dataset.TableName()
		if percentTable != "" {
			table = percentTable
		}

		ds, svc, err := loadStore(path, delimiter, table)
		if err != nil {
			return err
		}
		defer svc.Close()

		for _, pred := range percentPredicates {
			col, ok := ds.Column(pred.column)
			if !ok {
				return errors.ColumnNotFoundError(pred.column, ds.Columns())
			}
			target, err := col.Parse(pred.value)
			if err != nil {
				return err
			}

			pct, err := groupPercentage(ds, svc, table, pred.column, target)
			if err != nil {
				return err
			}
			fmt.Printf("%s of rows have %s = %s\n",
				ui.ColorSuccess(fmt.Sprintf("%.2f%%", pct)), pred.column, pred.value)
		}
		return nil
	},
}

// groupPercentage dispatches between the SQL-backed and in-memory paths
func groupPercentage(ds stats.Rows, svc *store.Service, table, column string, target interface{}) (float64, error) {
	if percentInMemory {
		return stats.Percentage(ds, column, target)
	}
	return svc.GroupPercentage(table, column, target)
}

func init() {
	percentCmd.Flags().VarP(&percentPredicates, "of", "o", "group predicate, repeatable (e.g. --of transaction_type=sale)")
	percentCmd.Flags().StringVarP(&percentTable, "table", "t", "", "table name for the loaded dataset")
	percentCmd.Flags().StringVarP(&percentDelimiter, "delimiter", "d", "", "field delimiter (default \",\")")
	percentCmd.Flags().BoolVar(&percentInMemory, "in-memory", false, "compute by direct iteration instead of SQL counts")
	rootCmd.AddCommand(percentCmd)
}

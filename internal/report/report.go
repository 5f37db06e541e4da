// Package report runs the fixed descriptive sequence against a loaded
// dataset: schema, total row count, group-by breakdowns, numeric averages,
// and group percentage lines.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"tabstat/internal/dataset"
	"tabstat/internal/store"
	"tabstat/pkg/errors"
	"tabstat/pkg/models"
)

// Report holds the computed results before rendering
type Report struct {
	Table       string
	Schema      []dataset.Column
	TotalRows   int64
	Groups      []GroupBreakdown
	Averages    []AverageResult
	Percentages []PercentageResult
}

// GroupBreakdown is the group-by count table for one column
type GroupBreakdown struct {
	Column string
	Groups []store.GroupCount
}

// AverageResult is the mean of one numeric column
type AverageResult struct {
	Column  string
	Average float64
}

// PercentageResult is one group percentage line
type PercentageResult struct {
	Column     string
	Value      string
	Percentage float64
}

// Build runs every configured query against the store. The dataset supplies
// the schema used to coerce percentage target values to their column types.
func Build(svc *store.Service, ds *dataset.Dataset, table string, def models.Report) (*Report, error) {
	r := &Report{Table: table, Schema: ds.Schema()}

	total, err := svc.Count(table)
	if err != nil {
		return nil, err
	}
	r.TotalRows = total

	for _, col := range def.GroupColumns {
		groups, err := svc.GroupCounts(table, col)
		if err != nil {
			return nil, err
		}
		r.Groups = append(r.Groups, GroupBreakdown{Column: col, Groups: groups})
	}

	for _, col := range def.AverageColumns {
		avg, err := svc.Average(table, col)
		if err != nil {
			return nil, err
		}
		r.Averages = append(r.Averages, AverageResult{Column: col, Average: avg})
	}

	for _, p := range def.Percentages {
		target, err := coerceTarget(ds, p.Column, p.Value)
		if err != nil {
			return nil, err
		}
		pct, err := svc.GroupPercentage(table, p.Column, target)
		if err != nil {
			return nil, err
		}
		r.Percentages = append(r.Percentages, PercentageResult{
			Column:     p.Column,
			Value:      p.Value,
			Percentage: pct,
		})
	}

	return r, nil
}

// Render writes the report as tables and summary lines
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "%s\n", color.New(color.Bold).Sprintf("Dataset report: %s (%d rows)", r.Table, r.TotalRows))

	fmt.Fprintf(w, "\n%s\n", color.CyanString("Schema"))
	schema := tablewriter.NewWriter(w)
	schema.SetHeader([]string{"Column", "Type"})
	for _, col := range r.Schema {
		schema.Append([]string{col.Name, col.Type.String()})
	}
	schema.Render()

	for _, g := range r.Groups {
		fmt.Fprintf(w, "\n%s\n", color.CyanString("Rows by %s", g.Column))
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{g.Column, "Count"})
		for _, group := range g.Groups {
			table.Append([]string{fmt.Sprintf("%v", group.Value), fmt.Sprintf("%d", group.Count)})
		}
		table.Render()
	}

	if len(r.Averages) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.CyanString("Averages"))
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Column", "Average"})
		for _, a := range r.Averages {
			table.Append([]string{a.Column, fmt.Sprintf("%.2f", a.Average)})
		}
		table.Render()
	}

	if len(r.Percentages) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.CyanString("Group percentages"))
		for _, p := range r.Percentages {
			fmt.Fprintf(w, "  %s of rows have %s = %s\n",
				color.GreenString("%.2f%%", p.Percentage), p.Column, p.Value)
		}
	}
}

// coerceTarget converts the configured target string to the value type of
// its column so equality is exact within the stored type
func coerceTarget(ds *dataset.Dataset, column, value string) (interface{}, error) {
	col, ok := ds.Column(column)
	if !ok {
		return nil, errors.ColumnNotFoundError(column, ds.Columns())
	}
	return col.Parse(value)
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"tabstat/internal/config"
	"tabstat/pkg/models"
)

// Indirection over survey so tests can simulate prompt failures
var (
	surveyAsk    = survey.Ask
	surveyAskOne = survey.AskOne
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initial configuration setup",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println("Setting up tabstat...")
	fmt.Println()

	// Check if config already exists
	if config.Exists() {
		var overwrite bool
		prompt := &survey.Confirm{
			Message: "Configuration already exists. Do you want to overwrite it?",
			Default: false,
		}
		if err := surveyAskOne(prompt, &overwrite); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	cfg := &models.Config{}

	fmt.Println("Dataset Configuration")
	fmt.Println("---------------------")

	datasetQs := []*survey.Question{
		{
			Name: "path",
			Prompt: &survey.Input{
				Message: "Path to the CSV dataset:",
			},
			Validate: survey.Required,
		},
		{
			Name: "table",
			Prompt: &survey.Input{
				Message: "Table name to load it into:",
				Default: "data",
			},
			Validate: survey.Required,
		},
		{
			Name: "delimiter",
			Prompt: &survey.Input{
				Message: "Field delimiter:",
				Default: ",",
			},
		},
	}

	if err := surveyAsk(datasetQs, &cfg.Dataset); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Report Configuration")
	fmt.Println("--------------------")

	var groupColumns, averageColumns string
	if err := surveyAskOne(&survey.Input{
		Message: "Columns for group-by count breakdowns (comma separated, optional):",
	}, &groupColumns); err != nil {
		return err
	}
	if err := surveyAskOne(&survey.Input{
		Message: "Numeric columns to average (comma separated, optional):",
	}, &averageColumns); err != nil {
		return err
	}
	cfg.Report.GroupColumns = splitColumns(groupColumns)
	cfg.Report.AverageColumns = splitColumns(averageColumns)

	for {
		var addPercentage bool
		prompt := &survey.Confirm{
			Message: "Add a group percentage line to the report?",
			Default: len(cfg.Report.Percentages) == 0,
		}
		if err := surveyAskOne(prompt, &addPercentage); err != nil {
			return err
		}
		if !addPercentage {
			break
		}

		var p models.Percentage
		percentQs := []*survey.Question{
			{
				Name: "column",
				Prompt: &survey.Input{
					Message: "Column name:",
				},
				Validate: survey.Required,
			},
			{
				Name: "value",
				Prompt: &survey.Input{
					Message: "Target value:",
				},
				Validate: survey.Required,
			},
		}
		if err := surveyAsk(percentQs, &p); err != nil {
			return err
		}
		cfg.Report.Percentages = append(cfg.Report.Percentages, p)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Println("Configuration saved to:", config.GetConfigFile())
	fmt.Println()
	fmt.Println("You can now run: tabstat report")
	return nil
}

// splitColumns parses a comma-separated column list, dropping blanks
func splitColumns(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

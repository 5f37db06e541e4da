package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tabstat/internal/config"
	"tabstat/internal/dataset"
	"tabstat/internal/store"
	"tabstat/internal/ui"
	"tabstat/pkg/models"
)

var rootCmd = &cobra.Command{
	Use:   "tabstat",
	Short: "Descriptive statistics over CSV datasets",
	Long:  "tabstat - Load a CSV dataset into an in-memory SQL store and run descriptive statistics: counts, group-bys, averages, and group percentages",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig points viper at a config.yaml in the working directory first,
// then the saved location. loadConfig overlays whatever viper found on top
// of the saved configuration.
func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home + "/.tabstat")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is okay; commands fall back to flags
	}
}

// resolveDataset picks the CSV path from the argument or the saved config
func resolveDataset(args []string, cfg *models.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Dataset.Path != "" {
		return cfg.Dataset.Path, nil
	}
	return "", fmt.Errorf("no dataset given: pass a CSV file or run 'tabstat setup'")
}

// loadStore reads the CSV and loads it into a fresh in-memory store
func loadStore(path string, delimiter rune, table string) (*dataset.Dataset, *store.Service, error) {
	ds, err := dataset.ReadCSV(path, delimiter)
	if err != nil {
		return nil, nil, err
	}

	svc := store.NewService(30 * time.Second)
	if err := svc.Open(); err != nil {
		return nil, nil, err
	}
	if err := svc.Load(ds, table); err != nil {
		svc.Close()
		return nil, nil, err
	}
	return ds, svc, nil
}

// loadConfig loads the saved configuration, tolerating a missing file.
// A config.yaml picked up by viper from the working directory overrides
// the saved values.
func loadConfig() *models.Config {
	cfg, err := config.Load()
	if err != nil {
		ui.ShowWarning(fmt.Sprintf("ignoring unreadable config: %v", err))
		cfg = &models.Config{}
	}

	if used := viper.ConfigFileUsed(); used != "" && used != config.GetConfigFile() {
		if err := viper.Unmarshal(cfg); err != nil {
			ui.ShowWarning(fmt.Sprintf("ignoring unreadable config %s: %v", used, err))
		}
	}
	return cfg
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabstat/pkg/models"
)

func TestGetConfigPath(t *testing.T) {
	t.Setenv("TABSTAT_CONFIG", "")
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".tabstat")
	assert.Equal(t, expected, GetConfigPath())
}

func TestGetConfigFileEnvOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv("TABSTAT_CONFIG", override)
	assert.Equal(t, override, GetConfigFile())
}

func TestGetConfigFileRejectsTraversal(t *testing.T) {
	t.Setenv("TABSTAT_CONFIG", "../../etc/passwd")
	got := GetConfigFile()
	assert.NotContains(t, got, "passwd")
	assert.Equal(t, "config.yaml", filepath.Base(got))
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("TABSTAT_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	testConfig := &models.Config{
		Dataset: models.Dataset{
			Path:      "/data/transactions.csv",
			Table:     "transactions",
			Delimiter: ",",
		},
		Report: models.Report{
			GroupColumns:   []string{"transaction_type"},
			AverageColumns: []string{"amount"},
			Percentages: []models.Percentage{
				{Column: "transaction_type", Value: "sale"},
				{Column: "transaction_type", Value: "scam"},
			},
		},
	}

	require.NoError(t, Save(testConfig))
	assert.True(t, Exists())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, testConfig.Dataset, loaded.Dataset)
	assert.Equal(t, testConfig.Report, loaded.Report)
}

func TestLoadMissingConfig(t *testing.T) {
	t.Setenv("TABSTAT_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, &models.Config{}, loaded)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataset: [not: valid"), 0600))
	t.Setenv("TABSTAT_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config")
}

func TestExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("TABSTAT_CONFIG", path)

	assert.False(t, Exists())
	require.NoError(t, os.WriteFile(path, []byte(""), 0600))
	assert.True(t, Exists())
}

func TestDatasetDefaults(t *testing.T) {
	d := models.Dataset{}
	assert.Equal(t, "data", d.TableName())
	assert.Equal(t, ',', d.DelimiterRune())

	d = models.Dataset{Table: "transactions", Delimiter: ";"}
	assert.Equal(t, "transactions", d.TableName())
	assert.Equal(t, ';', d.DelimiterRune())
}

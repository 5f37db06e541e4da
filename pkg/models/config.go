package models

type Config struct {
	Dataset Dataset `yaml:"dataset" mapstructure:"dataset"`
	Report  Report  `yaml:"report" mapstructure:"report"`
}

// Dataset points at the CSV input and names the table it is loaded into
type Dataset struct {
	Path      string `yaml:"path" mapstructure:"path"`
	Table     string `yaml:"table" mapstructure:"table"`
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"` // single character, default ","
}

// Report defines the fixed descriptive sequence run by 'tabstat report'
type Report struct {
	GroupColumns   []string     `yaml:"group_columns" mapstructure:"group_columns"`     // group-by count breakdowns
	AverageColumns []string     `yaml:"average_columns" mapstructure:"average_columns"` // numeric columns to average
	Percentages    []Percentage `yaml:"percentages" mapstructure:"percentages"`         // group percentage lines
}

// Percentage is one (column, value) group predicate
type Percentage struct {
	Column string `yaml:"column" mapstructure:"column"`
	Value  string `yaml:"value" mapstructure:"value"`
}

// TableName returns the configured table name or the default
func (d Dataset) TableName() string {
	if d.Table == "" {
		return "data"
	}
	return d.Table
}

// DelimiterRune returns the configured delimiter as a rune, or ',' when
// unset
func (d Dataset) DelimiterRune() rune {
	if d.Delimiter == "" {
		return ','
	}
	return []rune(d.Delimiter)[0]
}

// Package config holds the single configuration structure that is threaded
// through every stage of a report run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/chipqc/palette"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is every recognized option for one report run.
type Config struct {
	// Input is a sample sheet (.csv/.tsv) or an aggregate QC object (.json).
	Input string `mapstructure:"input" yaml:"input"`

	// FacetX and FacetY split charts into panels; FacetZ colors series.
	FacetX string `mapstructure:"facet_x" yaml:"facet_x"`
	FacetY string `mapstructure:"facet_y" yaml:"facet_y"`
	FacetZ string `mapstructure:"facet_z" yaml:"facet_z"`

	Palette string `mapstructure:"palette" yaml:"palette"`

	// Echo only affects the rendered document.
	Echo bool `mapstructure:"echo" yaml:"echo"`

	Output string `mapstructure:"output" yaml:"output"`

	// Sample sheet column names.
	SampleColumn    string `mapstructure:"sample_column" yaml:"sample_column"`
	PathColumn      string `mapstructure:"path_column" yaml:"path_column"`
	ReplicateColumn string `mapstructure:"replicate_column" yaml:"replicate_column"`

	ChartWidth  int `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int `mapstructure:"chart_height" yaml:"chart_height"`
}

// Defaults returns a Config with every default filled in except Input.
func Defaults() Config {
	return Config{
		FacetX:          "Factor",
		FacetY:          "Tissue",
		FacetZ:          "Condition",
		Palette:         "Set1",
		Output:          "chipqc-report",
		SampleColumn:    "SampleID",
		PathColumn:      "QCsample",
		ReplicateColumn: "Replicate",
		ChartWidth:      800,
		ChartHeight:     480,
	}
}

// Flag names, keyed by config key.
var flagNames = map[string]string{
	"input":            "input",
	"facet_x":          "facet-x",
	"facet_y":          "facet-y",
	"facet_z":          "facet-z",
	"palette":          "palette",
	"echo":             "echo",
	"output":           "output",
	"sample_column":    "sample-column",
	"path_column":      "path-column",
	"replicate_column": "replicate-column",
	"chart_width":      "chart-width",
	"chart_height":     "chart-height",
}

// RegisterFlags adds one flag per option to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String(flagNames["input"], "", "Sample sheet (.csv, .tsv) or aggregate QC object (.json). May be gzip/bzip2/xz compressed and may live at gs://.")
	fs.String(flagNames["facet_x"], d.FacetX, "Metadata column that splits charts horizontally.")
	fs.String(flagNames["facet_y"], d.FacetY, "Metadata column that splits charts vertically.")
	fs.String(flagNames["facet_z"], d.FacetZ, "Metadata column that colors samples, when it has more than one value.")
	fs.String(flagNames["palette"], d.Palette, "Qualitative palette: "+strings.Join(palette.Names(), ", "))
	fs.Bool(flagNames["echo"], d.Echo, "Echo the resolved configuration into the report document.")
	fs.String(flagNames["output"], d.Output, "Directory for the report.")
	fs.String(flagNames["sample_column"], d.SampleColumn, "Sample sheet column that identifies each sample.")
	fs.String(flagNames["path_column"], d.PathColumn, "Sample sheet column with the path to each per-sample QC file.")
	fs.String(flagNames["replicate_column"], d.ReplicateColumn, "Numeric sample sheet column that is never rewritten.")
	fs.Int(flagNames["chart_width"], d.ChartWidth, "Chart width in pixels.")
	fs.Int(flagNames["chart_height"], d.ChartHeight, "Chart height in pixels.")
}

// Load resolves configuration with precedence flags > CHIPQC_* env > config
// file > defaults. Both cfgFile and fs may be empty/nil.
func Load(cfgFile string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CHIPQC")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("input", d.Input)
	v.SetDefault("facet_x", d.FacetX)
	v.SetDefault("facet_y", d.FacetY)
	v.SetDefault("facet_z", d.FacetZ)
	v.SetDefault("palette", d.Palette)
	v.SetDefault("echo", d.Echo)
	v.SetDefault("output", d.Output)
	v.SetDefault("sample_column", d.SampleColumn)
	v.SetDefault("path_column", d.PathColumn)
	v.SetDefault("replicate_column", d.ReplicateColumn)
	v.SetDefault("chart_width", d.ChartWidth)
	v.SetDefault("chart_height", d.ChartHeight)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	if fs != nil {
		for key, name := range flagNames {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &c, nil
}

// Validate checks the options that must be right before any work starts.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("no input was provided")
	}

	for name, v := range map[string]string{"facet_x": c.FacetX, "facet_y": c.FacetY, "facet_z": c.FacetZ, "sample_column": c.SampleColumn, "path_column": c.PathColumn} {
		if v == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}

	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return fmt.Errorf("chart dimensions must be positive, got %dx%d", c.ChartWidth, c.ChartHeight)
	}

	return palette.Validate(c.Palette)
}

// YAML renders the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

// Save writes the configuration to path as YAML, creating its directory.
func Save(c *Config, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}

	b, err := c.YAML()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

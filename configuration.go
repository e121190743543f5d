package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "time/tzdata"

	"github.com/thlib/go-timezone-local/tzlocal"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OUTPUT_FORMAT_CSV  = "csv"
	OUTPUT_FORMAT_XLSX = "xlsx"
)

type Config struct {
	// MultiCurrencyAccounts are HomeMoney accounts with few currencies.
	// Each of them becomes one ZenMoney account per currency, like "Wallet (USD)".
	MultiCurrencyAccounts []string `yaml:"multiCurrencyAccounts,omitempty" validate:"dive,required"`
	// SplitOutputBy is a maximum number of records in one output file, 0 means don't split.
	SplitOutputBy int `yaml:"splitOutputBy,omitempty" validate:"min=0"`
	// TransferCategory, if set, makes transfers written as two records with this category.
	TransferCategory string `yaml:"transferCategory,omitempty"`
	OutputFormat     string `yaml:"outputFormat,omitempty" validate:"omitempty,oneof=csv xlsx"`
	LogLevel         string `yaml:"logLevel,omitempty" validate:"omitempty,oneof=trace debug info warn error"`
	// TimeZoneLocation is used for dates from HomeMoney file. System time zone by-default.
	TimeZoneLocation string `yaml:"timeZoneLocation,omitempty" validate:"timezone"`
}

func readConfig(filename string) (*Config, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	decoder := yaml.NewDecoder(strings.NewReader(string(buf)))
	decoder.KnownFields(true) // Disallow unknown fields
	if err = decoder.Decode(cfg); err != nil {
		if err.Error() == "EOF" {
			return nil, fmt.Errorf("can't decode YAML from configuration file '%s': %v", filename, err)
		}
		return nil, err
	}
	return cfg, nil
}

// applyArgs overrides configuration with command line arguments.
// Multi-currency accounts from both sources are merged.
func (cfg *Config) applyArgs(args Args) {
	for _, account := range args.MultiCurrencyAccounts {
		if !slices.Contains(cfg.MultiCurrencyAccounts, account) {
			cfg.MultiCurrencyAccounts = append(cfg.MultiCurrencyAccounts, account)
		}
	}
	if args.SplitOutputBy != nil {
		cfg.SplitOutputBy = *args.SplitOutputBy
	}
	if args.TransferCategory != "" {
		cfg.TransferCategory = args.TransferCategory
	}
	if args.Format != "" {
		cfg.OutputFormat = args.Format
	}
	if args.LogLevel != "" {
		cfg.LogLevel = args.LogLevel
	}
}

// setDefaults fills values which are not set neither in file nor in arguments.
func (cfg *Config) setDefaults(outputFile string) {
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = OUTPUT_FORMAT_CSV
		if strings.EqualFold(filepath.Ext(outputFile), "."+OUTPUT_FORMAT_XLSX) {
			cfg.OutputFormat = OUTPUT_FORMAT_XLSX
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if len(cfg.TimeZoneLocation) == 0 {
		tzname, err := tzlocal.RuntimeTZ()
		if err != nil {
			// Fallback to UTC if system timezone cannot be determined
			cfg.TimeZoneLocation = "UTC"
		} else {
			cfg.TimeZoneLocation = tzname
		}
	}
}

// verify checks configuration and returns time zone location to parse dates in.
func (cfg *Config) verify() (*time.Location, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(cfg.TimeZoneLocation)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone location '%s': %w", cfg.TimeZoneLocation, err)
	}
	return location, nil
}

// writeToFile writes the configuration to a file.
func (cfg *Config) writeToFile(filename string) error {
	buf, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, buf, 0644)
}

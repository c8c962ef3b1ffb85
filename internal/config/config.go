// Package config defines the data structures related to configuration and
// includes functions for loading and validating the catalog file.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/design-loan-quote/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for a catalog file.
type Configuration struct {
	Logging LoggingConfig  `yaml:"logging,omitempty"`
	Output  OutputConfig   `yaml:"output,omitempty"`
	Storage StorageConfig  `yaml:"storage,omitempty"`
	Designs []DesignConfig `yaml:"designs,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format         string `yaml:"format,omitempty"` // pretty, csv, json, yaml
	CurrencySymbol string `yaml:"currencySymbol,omitempty"`
	PreviewRows    int    `yaml:"previewRows,omitempty"`
}

// StorageConfig selects and configures the design repository.
type StorageConfig struct {
	Driver   string `yaml:"driver,omitempty"`   // memory, sqlite, redis
	DSN      string `yaml:"dsn,omitempty"`      // sqlite data source
	Address  string `yaml:"address,omitempty"`  // redis host:port
	Password string `yaml:"password,omitempty"` // redis password
	DB       int    `yaml:"db,omitempty"`       // redis database
	Prefix   string `yaml:"prefix,omitempty"`   // redis key prefix
}

// DesignConfig is a catalog design as written in a configuration file.
type DesignConfig struct {
	ID               string
	Name             string
	Category         string
	Description      string
	Price            float64
	MaxLoanTerm      int
	LoanTermType     string
	InterestRate     float64
	InterestRateType string
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

// envKeys may be overridden with LOANQUOTE_<SECTION>_<KEY> even when absent
// from the file.
var envKeys = []string{
	"logging.level",
	"logging.format",
	"output.format",
	"storage.driver",
	"storage.dsn",
	"storage.address",
	"storage.password",
}

func decode(v *viper.Viper) (*Configuration, error) {
	v.SetEnvPrefix("LOANQUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("unable to bind environment for %s, %s", key, err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ValidateConfiguration checks every design in the file. Designs that cannot
// be quoted are returned as an error; suspicious but usable values are
// returned as warnings.
func (c *Configuration) ValidateConfiguration() ([]string, error) {
	var warnings []string
	var problems []string

	seen := make(map[string]struct{})
	for i, design := range c.Designs {
		input := design.LoanTermsInput()
		if err := validation.ValidateLoanTerms(input); err != nil {
			problems = append(problems, fmt.Sprintf("designs[%d]: %v", i, err))
			continue
		}
		warnings = append(warnings, validation.LoanTermsWarnings(input)...)

		key := strings.ToLower(strings.TrimSpace(design.Name))
		if _, dup := seen[key]; dup {
			warnings = append(warnings, fmt.Sprintf("design '%s' is listed more than once", design.Name))
		}
		seen[key] = struct{}{}
	}

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return warnings, &validation.Error{Subject: "configuration", Problems: problems}
	}
	return warnings, nil
}

// LoanTermsInput exposes the design's financing fields for validation.
func (d DesignConfig) LoanTermsInput() validation.LoanTermsInput {
	return validation.LoanTermsInput{
		Name:              d.Name,
		Price:             d.Price,
		TermLength:        d.MaxLoanTerm,
		TermUnit:          d.LoanTermType,
		InterestRate:      d.InterestRate,
		InterestRateBasis: d.InterestRateType,
	}
}

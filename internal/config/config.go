package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// RunConfig represents the complete run configuration
type RunConfig struct {
	Simulation SimulationSettings `hcl:"simulation,block"`
}

// SimulationSettings contains the estimation batch settings
type SimulationSettings struct {
	Trials   int    `hcl:"trials,optional"`
	Seed     int64  `hcl:"seed,optional"`
	Workers  int    `hcl:"workers,optional"`
	LogLevel string `hcl:"log_level,optional"`
	Progress bool   `hcl:"progress,optional"`
}

// DefaultTrials gives roughly three decimal digits of precision; the
// standard error of the estimate scales as 1/sqrt(trials).
const DefaultTrials = 1000000

// DefaultRunConfig returns default run configuration
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Simulation: SimulationSettings{
			Trials:   DefaultTrials,
			Seed:     0,
			Workers:  0,
			LogLevel: "info",
			Progress: false,
		},
	}
}

// LoadRunConfig loads run configuration from an HCL file. A missing file
// yields the defaults; a file that parses fills any omitted settings from
// the defaults.
func LoadRunConfig(filename string) (*RunConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultRunConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config RunConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Simulation.Trials == 0 {
		config.Simulation.Trials = DefaultTrials
	}
	if config.Simulation.LogLevel == "" {
		config.Simulation.LogLevel = "info"
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", filename, err)
	}
	return &config, nil
}

// Validate checks the configuration for values the estimator would reject
func (c *RunConfig) Validate() error {
	if c.Simulation.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", c.Simulation.Trials)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Simulation.Workers)
	}
	switch c.Simulation.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.Simulation.LogLevel)
	}
	return nil
}

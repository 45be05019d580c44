package recommend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/slotter/pkg/constraint"
)

// Options configures one Assembler. It supports YAML parsing and includes
// validation.
type Options struct {
	// Scaling is the positive integer factor used to lift float candidate
	// scores into solver integers for the objective. Section sets carry
	// their own scaling for attribute constraints.
	Scaling int `yaml:"scaling" json:"scaling"`

	// SolverTimeBudgetMS bounds solver search time in milliseconds.
	// Zero means no budget.
	SolverTimeBudgetMS int `yaml:"solverTimeBudgetMs" json:"solverTimeBudgetMs"`

	// AllowInfeasibleReport makes an infeasible model return an empty
	// zero-score solution instead of an error.
	AllowInfeasibleReport bool `yaml:"allowInfeasibleReport" json:"allowInfeasibleReport"`
}

// DefaultOptions returns the default assembler options.
func DefaultOptions() Options {
	return Options{Scaling: 1}
}

// LoadOptions reads and validates a YAML options file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading options file: %w", err)
	}
	return LoadOptionsFromBytes(data)
}

// LoadOptionsFromBytes parses YAML options from a byte slice. A missing
// scaling defaults to 1.
func LoadOptionsFromBytes(data []byte) (Options, error) {
	opts := Options{}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parsing YAML: %w", err)
	}
	if opts.Scaling == 0 {
		opts.Scaling = 1
	}
	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("validation failed: %w", err)
	}
	return opts, nil
}

// Validate checks all option constraints.
func (o Options) Validate() error {
	if o.Scaling <= 0 {
		return fmt.Errorf("scaling must be positive, got %d: %w", o.Scaling, constraint.ErrInvalidConfiguration)
	}
	if o.SolverTimeBudgetMS < 0 {
		return fmt.Errorf("solver time budget must not be negative, got %d: %w",
			o.SolverTimeBudgetMS, constraint.ErrInvalidConfiguration)
	}
	return nil
}

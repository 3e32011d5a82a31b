package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rpgo/mortgage-compare/internal/domain"
	"gopkg.in/yaml.v3"
)

// MaxYearsLimit caps the simulated horizon. Longer horizons push the compounded
// balances toward float64 overflow.
const MaxYearsLimit = 100

// ErrInvalidConfiguration wraps every failure to turn a file into a usable configuration.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// fileConfiguration mirrors the on-disk layout. Pointers (and a zero Node kind)
// distinguish missing keys from zero values, and tax_rate is accepted as the older name of income_tax_rate.
type fileConfiguration struct {
	YearsLimit             yaml.Node          `yaml:"years_limit"`
	MonthlyIncome          *float64           `yaml:"monthly_income"`
	IncomeTaxRate          *float64           `yaml:"income_tax_rate"`
	TaxRate                *float64           `yaml:"tax_rate"`
	InvestmentAnnualReturn *float64           `yaml:"investment_annual_return"`
	CapitalGainsRate       *float64           `yaml:"capital_gains_rate"`
	Scenarios              *[]domain.Scenario `yaml:"scenarios"`
}

// LoadFromFile loads configuration from a JSON or YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read file %s: %w", ErrInvalidConfiguration, filename, err)
	}

	config, err := ip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return config, nil
}

// Parse decodes configuration bytes. JSON is accepted because it is a subset of YAML.
// Every parameter and the scenarios key are required; unknown keys are rejected.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var raw fileConfiguration
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file is empty", ErrInvalidConfiguration)
		}
		return nil, fmt.Errorf("%w: failed to parse: %w", ErrInvalidConfiguration, err)
	}

	if raw.IncomeTaxRate != nil && raw.TaxRate != nil {
		return nil, fmt.Errorf("%w: specify either income_tax_rate or tax_rate, not both", ErrInvalidConfiguration)
	}
	if raw.IncomeTaxRate == nil {
		raw.IncomeTaxRate = raw.TaxRate
	}

	var missing []string
	if raw.YearsLimit.Kind == 0 {
		missing = append(missing, "years_limit")
	}
	if raw.MonthlyIncome == nil {
		missing = append(missing, "monthly_income")
	}
	if raw.IncomeTaxRate == nil {
		missing = append(missing, "income_tax_rate")
	}
	if raw.InvestmentAnnualReturn == nil {
		missing = append(missing, "investment_annual_return")
	}
	if raw.CapitalGainsRate == nil {
		missing = append(missing, "capital_gains_rate")
	}
	if raw.Scenarios == nil {
		missing = append(missing, "scenarios")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required field(s): %s", ErrInvalidConfiguration, strings.Join(missing, ", "))
	}

	years, err := domain.DecodeWholeNumber(&raw.YearsLimit, "years_limit")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	config := &domain.Configuration{
		GlobalParameters: domain.GlobalParameters{
			MonthlyIncome:          *raw.MonthlyIncome,
			YearsLimit:             years,
			IncomeTaxRate:          *raw.IncomeTaxRate,
			InvestmentAnnualReturn: *raw.InvestmentAnnualReturn,
			CapitalGainsRate:       *raw.CapitalGainsRate,
		},
		Scenarios: *raw.Scenarios,
	}
	if config.Scenarios == nil {
		config.Scenarios = []domain.Scenario{}
	}

	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return config, nil
}

// ValidateConfiguration checks the structural constraints the simulator relies on.
// Rates, balances and payments are not range checked; unusual values flow through
// the arithmetic unchanged.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config == nil {
		return fmt.Errorf("configuration is empty")
	}
	if err := ValidateYearsLimit(config.YearsLimit); err != nil {
		return err
	}
	for i, sc := range config.Scenarios {
		if sc.LoanTermYears <= 0 {
			return fmt.Errorf("scenario %d: loan_term_years must be positive", i)
		}
	}
	return nil
}

// ValidateYearsLimit checks a horizon supplied by a file or an override flag.
func ValidateYearsLimit(years int) error {
	if years <= 0 || years > MaxYearsLimit {
		return fmt.Errorf("years_limit must be between 1 and %d, got %d", MaxYearsLimit, years)
	}
	return nil
}

// CreateExampleConfiguration returns a configuration comparing four common loan shapes.
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	return &domain.Configuration{
		GlobalParameters: domain.GlobalParameters{
			MonthlyIncome:          1000,
			YearsLimit:             30,
			IncomeTaxRate:          0.25,
			InvestmentAnnualReturn: 0.08,
			CapitalGainsRate:       0.20,
		},
		Scenarios: []domain.Scenario{
			{LoanBalance: 100000, LoanTermYears: 30, LoanRate: 0.035, MonthlyPayment: 1000},
			{LoanBalance: 100000, LoanTermYears: 25, LoanRate: 0.035, MonthlyPayment: 1200},
			{LoanBalance: 100000, LoanTermYears: 20, LoanRate: 0.035, MonthlyPayment: 1500},
			{LoanBalance: 100000, LoanTermYears: 15, LoanRate: 0.030, MonthlyPayment: 2500},
		},
	}
}

// SaveConfiguration writes a configuration as YAML.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := MarshalConfiguration(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}

// MarshalConfiguration renders a configuration in the same YAML layout LoadFromFile reads.
func MarshalConfiguration(config *domain.Configuration) ([]byte, error) {
	return yaml.Marshal(config)
}

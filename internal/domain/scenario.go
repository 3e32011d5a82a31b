package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// GlobalParameters holds the household assumptions shared by every scenario in a run.
// All rates are decimal fractions (0.035 for 3.5%).
type GlobalParameters struct {
	MonthlyIncome          float64 `yaml:"monthly_income" json:"monthly_income"`
	YearsLimit             int     `yaml:"years_limit" json:"years_limit"`
	IncomeTaxRate          float64 `yaml:"income_tax_rate" json:"income_tax_rate"`
	InvestmentAnnualReturn float64 `yaml:"investment_annual_return" json:"investment_annual_return"`
	CapitalGainsRate       float64 `yaml:"capital_gains_rate" json:"capital_gains_rate"`
}

// HorizonMonths is the number of months simulated for every scenario.
func (gp GlobalParameters) HorizonMonths() int {
	return gp.YearsLimit * 12
}

// Scenario is one candidate loan. In configuration files it is written as a
// four element sequence: [loan_balance, loan_term_years, loan_rate, monthly_payment].
type Scenario struct {
	LoanBalance    float64 `yaml:"loan_balance" json:"loan_balance"`
	LoanTermYears  int     `yaml:"loan_term_years" json:"loan_term_years"`
	LoanRate       float64 `yaml:"loan_rate" json:"loan_rate"`
	MonthlyPayment float64 `yaml:"monthly_payment" json:"monthly_payment"`
}

// scenarioFields names the tuple positions in error messages.
var scenarioFields = [4]string{"loan_balance", "loan_term_years", "loan_rate", "monthly_payment"}

// UnmarshalYAML accepts the tuple form and, for hand-written YAML, a mapping
// with the named fields. Both forms require all four values.
func (s *Scenario) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		if len(value.Content) != len(scenarioFields) {
			return fmt.Errorf("line %d: scenario must have %d elements (loan_balance, loan_term_years, loan_rate, monthly_payment), got %d",
				value.Line, len(scenarioFields), len(value.Content))
		}
		for i, node := range value.Content {
			if err := s.decodeField(i, node); err != nil {
				return err
			}
		}
		return nil
	case yaml.MappingNode:
		var seen [len(scenarioFields)]bool
		for k := 0; k+1 < len(value.Content); k += 2 {
			key, node := value.Content[k], value.Content[k+1]
			i := fieldIndex(key.Value)
			if i < 0 {
				return fmt.Errorf("line %d: scenario has unknown field %q", key.Line, key.Value)
			}
			if seen[i] {
				return fmt.Errorf("line %d: scenario field %s given twice", key.Line, key.Value)
			}
			seen[i] = true
			if err := s.decodeField(i, node); err != nil {
				return err
			}
		}
		for i, ok := range seen {
			if !ok {
				return fmt.Errorf("line %d: scenario is missing %s", value.Line, scenarioFields[i])
			}
		}
		return nil
	default:
		return fmt.Errorf("line %d: scenario must be a sequence of %d values", value.Line, len(scenarioFields))
	}
}

func fieldIndex(name string) int {
	for i, f := range scenarioFields {
		if f == name {
			return i
		}
	}
	return -1
}

func (s *Scenario) decodeField(i int, node *yaml.Node) error {
	if i == 1 {
		years, err := DecodeWholeNumber(node, "scenario loan_term_years")
		if err != nil {
			return err
		}
		s.LoanTermYears = years
		return nil
	}
	targets := [...]*float64{&s.LoanBalance, nil, &s.LoanRate, &s.MonthlyPayment}
	if err := node.Decode(targets[i]); err != nil {
		return fmt.Errorf("line %d: scenario %s: %w", node.Line, scenarioFields[i], err)
	}
	return nil
}

// DecodeWholeNumber decodes an integer literal. yaml.v3 would truncate 30.5
// into an int, so anything not tagged !!int is rejected.
func DecodeWholeNumber(node *yaml.Node, field string) (int, error) {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!int" {
		return 0, fmt.Errorf("line %d: %s must be a whole number, got %q", node.Line, field, node.Value)
	}
	var v int
	if err := node.Decode(&v); err != nil {
		return 0, fmt.Errorf("line %d: %s: %w", node.Line, field, err)
	}
	return v, nil
}

// MarshalYAML writes the scenario back in flow-style tuple form.
func (s Scenario) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []any{s.LoanBalance, s.LoanTermYears, s.LoanRate, s.MonthlyPayment} {
		var elem yaml.Node
		if err := elem.Encode(v); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &elem)
	}
	return node, nil
}

// Configuration is a complete comparison request.
type Configuration struct {
	GlobalParameters `yaml:",inline"`
	Scenarios        []Scenario `yaml:"scenarios" json:"scenarios"`
}

// SimulationResult summarizes one scenario at the end of the horizon.
// Currency fields are truncated toward zero.
type SimulationResult struct {
	DurationYears      int     `json:"duration_years"`
	LoanRatePercent    float64 `json:"loan_rate_percent"`
	NetWorth           int64   `json:"net_worth"`
	InvestBalance      int64   `json:"invest_balance"`
	TotalInterestPaid  int64   `json:"total_interest_paid"`
	TotalPrincipalPaid int64   `json:"total_principal_paid"`
}

// Comparison is the ranked outcome of a run, best net worth first.
type Comparison struct {
	YearsLimit int                `json:"years_limit"`
	Results    []SimulationResult `json:"results"`
}

// Best returns the top ranked result, if any.
func (c *Comparison) Best() (SimulationResult, bool) {
	if c == nil || len(c.Results) == 0 {
		return SimulationResult{}, false
	}
	return c.Results[0], true
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/rpgo/mortgage-compare/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_JSON(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile("../../testdata/example_config.json")
	require.NoError(t, err)

	assert.Equal(t, parser.CreateExampleConfiguration(), config)
}

func TestLoadFromFile_YAMLWithLegacyTaxRateAndMappingScenario(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile("../../testdata/example_config.yaml")
	require.NoError(t, err)

	assert.Equal(t, parser.CreateExampleConfiguration(), config)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile("nonexistent_file.json")

	assert.Error(t, err)
	assert.Nil(t, config)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to read file")
}

// configJSON builds a complete configuration document. An override with an
// empty value removes that key.
func configJSON(overrides map[string]string) string {
	fields := map[string]string{
		"years_limit":              "30",
		"monthly_income":           "1000",
		"income_tax_rate":          "0.25",
		"investment_annual_return": "0.08",
		"capital_gains_rate":       "0.20",
		"scenarios":                "[]",
	}
	for k, v := range overrides {
		if v == "" {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%q: %s", k, fields[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func TestLoadFromFile_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "broken json",
			content: `{"years_limit": 30, "scenarios": [`,
			errText: "failed to parse",
		},
		{
			name:    "empty file",
			content: "",
			errText: "file is empty",
		},
		{
			name:    "string where number expected",
			content: configJSON(map[string]string{"monthly_income": `"lots"`}),
			errText: "failed to parse",
		},
		{
			name:    "scenario with three elements",
			content: configJSON(map[string]string{"scenarios": `[[100000, 30, 0.035]]`}),
			errText: "must have 4 elements",
		},
		{
			name:    "fractional loan term",
			content: configJSON(map[string]string{"scenarios": `[[100000, 30.5, 0.035, 1000]]`}),
			errText: "loan_term_years must be a whole number",
		},
		{
			name:    "fractional loan term in mapping form",
			content: configJSON(map[string]string{"scenarios": `[{"loan_balance": 100000, "loan_term_years": 20.7, "loan_rate": 0.035, "monthly_payment": 1500}]`}),
			errText: "loan_term_years must be a whole number",
		},
		{
			name:    "mapping scenario missing payment",
			content: configJSON(map[string]string{"scenarios": `[{"loan_balance": 100000, "loan_term_years": 20, "loan_rate": 0.035}]`}),
			errText: "scenario is missing monthly_payment",
		},
		{
			name:    "mapping scenario with unknown field",
			content: configJSON(map[string]string{"scenarios": `[{"loan_balance": 100000, "loan_term_years": 20, "loan_rate": 0.035, "monthly_payment": 1500, "points": 2}]`}),
			errText: `unknown field "points"`,
		},
		{
			name:    "string payment",
			content: configJSON(map[string]string{"scenarios": `[[100000, 30, 0.035, "1000"]]`}),
			errText: "monthly_payment",
		},
		{
			name:    "scenario as scalar",
			content: configJSON(map[string]string{"scenarios": `[42]`}),
			errText: "sequence of 4 values",
		},
		{
			name:    "missing years_limit",
			content: configJSON(map[string]string{"years_limit": ""}),
			errText: "missing required field(s): years_limit",
		},
		{
			name:    "fractional years_limit",
			content: configJSON(map[string]string{"years_limit": "30.9"}),
			errText: "years_limit must be a whole number",
		},
		{
			name:    "quoted years_limit",
			content: configJSON(map[string]string{"years_limit": `"30"`}),
			errText: "years_limit must be a whole number",
		},
		{
			name:    "zero years_limit",
			content: configJSON(map[string]string{"years_limit": "0"}),
			errText: "between 1 and 100",
		},
		{
			name:    "missing monthly_income",
			content: configJSON(map[string]string{"monthly_income": ""}),
			errText: "missing required field(s): monthly_income",
		},
		{
			name:    "misspelled monthly_income",
			content: configJSON(map[string]string{"monthly_income": "", "monthly_incme": "1000"}),
			errText: "monthly_incme",
		},
		{
			name:    "missing tax rate",
			content: configJSON(map[string]string{"income_tax_rate": ""}),
			errText: "missing required field(s): income_tax_rate",
		},
		{
			name:    "missing return and capital gains",
			content: configJSON(map[string]string{"investment_annual_return": "", "capital_gains_rate": ""}),
			errText: "investment_annual_return, capital_gains_rate",
		},
		{
			name:    "missing scenarios",
			content: configJSON(map[string]string{"scenarios": ""}),
			errText: "missing required field(s): scenarios",
		},
		{
			name:    "both tax rate keys",
			content: configJSON(map[string]string{"tax_rate": "0.3"}),
			errText: "not both",
		},
		{
			name:    "non-positive term",
			content: configJSON(map[string]string{"scenarios": `[[100000, 0, 0.035, 1000]]`}),
			errText: "loan_term_years must be positive",
		},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.json", tt.content)
			config, err := parser.LoadFromFile(path)

			require.Error(t, err)
			assert.Nil(t, config)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestParse_EmptyScenarioList(t *testing.T) {
	config, err := NewInputParser().Parse([]byte(configJSON(map[string]string{"years_limit": "5"})))
	require.NoError(t, err)
	assert.Equal(t, 5, config.YearsLimit)
	assert.NotNil(t, config.Scenarios)
	assert.Empty(t, config.Scenarios)
}

func TestParse_LegacyTaxRateKey(t *testing.T) {
	config, err := NewInputParser().Parse([]byte(configJSON(map[string]string{"income_tax_rate": "", "tax_rate": "0.3"})))
	require.NoError(t, err)
	assert.Equal(t, 0.3, config.IncomeTaxRate)
}

func TestParse_UnusualValuesAreAccepted(t *testing.T) {
	// Negative balances and rates are not rejected; they flow through the simulation.
	config, err := NewInputParser().Parse([]byte(configJSON(map[string]string{
		"years_limit":     "10",
		"monthly_income":  "-50",
		"income_tax_rate": "1.5",
		"scenarios":       "[[-1000, 5, -0.01, 0]]",
	})))
	require.NoError(t, err)
	assert.Equal(t, -50.0, config.MonthlyIncome)
	assert.Equal(t, 1.5, config.IncomeTaxRate)
	assert.Equal(t, domain.Scenario{LoanBalance: -1000, LoanTermYears: 5, LoanRate: -0.01, MonthlyPayment: 0}, config.Scenarios[0])
}

func TestValidateYearsLimit(t *testing.T) {
	assert.NoError(t, ValidateYearsLimit(1))
	assert.NoError(t, ValidateYearsLimit(MaxYearsLimit))
	assert.Error(t, ValidateYearsLimit(0))
	assert.Error(t, ValidateYearsLimit(-3))
	assert.Error(t, ValidateYearsLimit(MaxYearsLimit+1))
}

func TestValidateConfiguration_Nil(t *testing.T) {
	assert.Error(t, NewInputParser().ValidateConfiguration(nil))
}

func TestSaveConfiguration_RoundTrip(t *testing.T) {
	parser := NewInputParser()
	example := parser.CreateExampleConfiguration()

	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, SaveConfiguration(example, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- [100000, 30, 0.035, 1000]")

	loaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, example, loaded)
}

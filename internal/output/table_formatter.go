package output

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/rpgo/mortgage-compare/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter renders the ranking as a bordered table with a recommendation line.
type TableFormatter struct{}

func (t TableFormatter) Name() string { return "table" }

func (t TableFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "MORTGAGE VS INVESTMENT AFTER %d YEARS\n", results.YearsLimit)

	table := tablewriter.NewWriter(&buf)
	table.Header("#", "Term", "Rate", "Net Worth", "Invest Balance", "Interest Paid", "Principal Paid")
	for i, r := range results.Results {
		if err := table.Append(
			intToString(i+1),
			fmt.Sprintf("%d yrs", r.DurationYears),
			FormatPercentage(decimal.NewFromFloat(r.LoanRatePercent)),
			FormatWholeCurrency(r.NetWorth),
			FormatWholeCurrency(r.InvestBalance),
			FormatWholeCurrency(r.TotalInterestPaid),
			FormatWholeCurrency(r.TotalPrincipalPaid),
		); err != nil {
			return nil, err
		}
	}
	if err := table.Render(); err != nil {
		return nil, err
	}

	if best, ok := results.Best(); ok {
		fmt.Fprintf(&buf, "Recommended: %d years @ %s (%s net)\n",
			best.DurationYears,
			FormatPercentage(decimal.NewFromFloat(best.LoanRatePercent)),
			FormatWholeCurrency(best.NetWorth))
	}
	return buf.Bytes(), nil
}

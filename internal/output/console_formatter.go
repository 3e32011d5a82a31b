package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/mortgage-compare/internal/domain"
)

// ConsoleFormatter renders the plain-text ranking. Column widths are part of the
// output contract and are compared byte for byte in tests.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "After %d years:\n", results.YearsLimit)
	for _, r := range results.Results {
		fmt.Fprintf(&buf, "  %2d years @ %.2f%% -> %9d net (%9d invest_balance, %7d total_interest_paid, %7d total_principal_paid)\n",
			r.DurationYears,
			r.LoanRatePercent,
			r.NetWorth,
			r.InvestBalance,
			r.TotalInterestPaid,
			r.TotalPrincipalPaid,
		)
	}
	return buf.Bytes(), nil
}

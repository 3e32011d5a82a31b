package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/mortgage-compare/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVSummarizer writes one row per scenario in ranked order.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.Comparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Rank", "HorizonYears", "LoanTermYears", "LoanRatePercent", "NetWorth", "InvestBalance", "TotalInterestPaid", "TotalPrincipalPaid"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, r := range results.Results {
		row := []string{
			intToString(i + 1),
			intToString(results.YearsLimit),
			intToString(r.DurationYears),
			decimal.NewFromFloat(r.LoanRatePercent).StringFixed(2),
			int64ToString(r.NetWorth),
			int64ToString(r.InvestBalance),
			int64ToString(r.TotalInterestPaid),
			int64ToString(r.TotalPrincipalPaid),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func intToString(v int) string { return strconv.Itoa(v) }

func int64ToString(v int64) string { return strconv.FormatInt(v, 10) }

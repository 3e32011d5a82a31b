package calculation

import (
	"math"

	"github.com/rpgo/mortgage-compare/internal/domain"
)

// MonthTrace is the simulation state at the end of one month.
type MonthTrace struct {
	Month              int
	LoanBalance        float64
	MonthlyInterest    float64
	MonthlyPayment     float64
	MonthlyInvestment  float64
	InvestBalance      float64
	TotalInvested      float64
	TotalInterestPaid  float64
	TotalPrincipalPaid float64
}

// TraceFunc receives every simulated month. It must not retain the engine's state.
type TraceFunc func(MonthTrace)

// Simulate runs the month-by-month mortgage and investment projection for a
// single scenario over params.HorizonMonths() months, independent of the
// scenario's own loan term.
func Simulate(params domain.GlobalParameters, scenario domain.Scenario) domain.SimulationResult {
	return SimulateWithTrace(params, scenario, nil)
}

// SimulateWithTrace is Simulate with an optional per-month hook.
//
// Operation order is fixed because the reported integers depend on float64
// rounding: interest is charged before the deduction credit, and investment
// growth is taken on the balance before this month's contribution is added.
// Explicit float64 conversions keep the compiler from fusing multiply-adds.
func SimulateWithTrace(params domain.GlobalParameters, scenario domain.Scenario, trace TraceFunc) domain.SimulationResult {
	loanBalance := scenario.LoanBalance
	monthlyPayment := scenario.MonthlyPayment

	var (
		totalPrincipalPaid float64
		totalInterestPaid  float64
		totalInvested      float64
		investBalance      float64
	)

	months := params.HorizonMonths()
	for month := 0; month < months; month++ {
		monthlyInvestment := 0.0
		monthlyInterest := 0.0

		if loanBalance > 0 {
			monthlyInterest = float64(loanBalance*scenario.LoanRate) / 12
			totalInterestPaid += monthlyInterest

			// Deduction is credited monthly at the marginal rate with no cap.
			monthlyInvestment += float64(monthlyInterest * params.IncomeTaxRate)

			monthlyPrincipal := monthlyPayment - monthlyInterest
			totalPrincipalPaid += monthlyPrincipal

			// Unclamped: the last payment may overshoot and leave a negative balance.
			loanBalance -= monthlyPrincipal
		} else {
			// Paid off; nothing goes to the lender for the rest of the horizon.
			monthlyPayment = 0
		}

		monthlyInvestment += params.MonthlyIncome - monthlyPayment
		totalInvested += monthlyInvestment

		growth := float64(investBalance*params.InvestmentAnnualReturn) / 12.0
		investBalance = investBalance + (growth + monthlyInvestment)

		if trace != nil {
			trace(MonthTrace{
				Month:              month,
				LoanBalance:        loanBalance,
				MonthlyInterest:    monthlyInterest,
				MonthlyPayment:     monthlyPayment,
				MonthlyInvestment:  monthlyInvestment,
				InvestBalance:      investBalance,
				TotalInvested:      totalInvested,
				TotalInterestPaid:  totalInterestPaid,
				TotalPrincipalPaid: totalPrincipalPaid,
			})
		}
	}

	// Only the gains portion of the investment balance is taxed.
	investGains := investBalance - totalInvested
	investGainsAfterTax := float64(investGains * (1.0 - params.CapitalGainsRate))

	// Principal paid stands in for home equity.
	net := totalInvested + investGainsAfterTax + totalPrincipalPaid

	return domain.SimulationResult{
		DurationYears:      scenario.LoanTermYears,
		LoanRatePercent:    float64(scenario.LoanRate * 100),
		NetWorth:           truncate(net),
		InvestBalance:      truncate(investBalance),
		TotalInterestPaid:  truncate(totalInterestPaid),
		TotalPrincipalPaid: truncate(totalPrincipalPaid),
	}
}

// truncate drops the fraction toward zero. Values beyond the int64 range
// saturate and NaN reports as 0; a bare int64 conversion of those is
// implementation defined in Go.
func truncate(x float64) int64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt64:
		return math.MaxInt64
	case x < math.MinInt64:
		return math.MinInt64
	}
	return int64(x)
}

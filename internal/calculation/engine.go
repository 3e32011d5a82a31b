package calculation

import (
	"errors"
	"runtime"
	"sync"

	"github.com/rpgo/mortgage-compare/internal/domain"
)

// ErrNilConfiguration is returned when RunScenarios is called without a configuration.
var ErrNilConfiguration = errors.New("calculation: nil configuration")

// CalculationEngine runs every scenario of a configuration and ranks the results.
type CalculationEngine struct {
	// Workers bounds concurrent scenario simulations. Values <= 1 run sequentially.
	Workers int
	// Trace emits per-month simulation state through Logger at debug level.
	Trace  bool
	Logger Logger
}

// NewCalculationEngine creates a sequential engine with a no-op logger.
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Workers: 1,
		Logger:  NopLogger{},
	}
}

// NewCalculationEngineWithWorkers creates an engine that simulates scenarios in
// parallel. A non-positive count means one worker per CPU.
func NewCalculationEngineWithWorkers(workers int) *CalculationEngine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ce := NewCalculationEngine()
	ce.Workers = workers
	return ce
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// RunScenarios simulates every scenario against the shared parameters and
// returns them ranked by net worth.
func (ce *CalculationEngine) RunScenarios(config *domain.Configuration) (*domain.Comparison, error) {
	if config == nil {
		return nil, ErrNilConfiguration
	}
	if ce.Logger == nil {
		ce.Logger = NopLogger{}
	}

	params := config.GlobalParameters
	ce.Logger.Infof("simulating %d scenarios over %d months", len(config.Scenarios), params.HorizonMonths())

	var results []domain.SimulationResult
	if ce.Workers > 1 && len(config.Scenarios) > 1 {
		results = ce.runConcurrent(params, config.Scenarios)
	} else {
		results = make([]domain.SimulationResult, len(config.Scenarios))
		for i, sc := range config.Scenarios {
			results[i] = SimulateWithTrace(params, sc, ce.traceFor(i))
		}
	}

	for i, r := range results {
		ce.Logger.Debugf("scenario %d: %d years @ %.2f%% net=%d invest_balance=%d interest=%d principal=%d",
			i, r.DurationYears, r.LoanRatePercent, r.NetWorth, r.InvestBalance, r.TotalInterestPaid, r.TotalPrincipalPaid)
	}

	return &domain.Comparison{
		YearsLimit: params.YearsLimit,
		Results:    Rank(results),
	}, nil
}

// runConcurrent fans scenarios out to a worker pool. Each result is written to
// its input index so the subsequent stable rank is deterministic.
func (ce *CalculationEngine) runConcurrent(params domain.GlobalParameters, scenarios []domain.Scenario) []domain.SimulationResult {
	workers := ce.Workers
	if workers > len(scenarios) {
		workers = len(scenarios)
	}

	results := make([]domain.SimulationResult, len(scenarios))
	workCh := make(chan int, len(scenarios))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				results[i] = SimulateWithTrace(params, scenarios[i], ce.traceFor(i))
			}
		}()
	}

	for i := range scenarios {
		workCh <- i
	}
	close(workCh)
	wg.Wait()

	return results
}

func (ce *CalculationEngine) traceFor(index int) TraceFunc {
	if !ce.Trace {
		return nil
	}
	logger := ce.Logger
	return func(m MonthTrace) {
		logger.Debugf("scenario=%d month=%d loan_balance=%.2f interest=%.2f payment=%.2f investment=%.2f invest_balance=%.2f total_invested=%.2f total_interest=%.2f total_principal=%.2f",
			index, m.Month, m.LoanBalance, m.MonthlyInterest, m.MonthlyPayment, m.MonthlyInvestment,
			m.InvestBalance, m.TotalInvested, m.TotalInterestPaid, m.TotalPrincipalPaid)
	}
}

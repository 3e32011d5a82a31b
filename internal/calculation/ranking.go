package calculation

import (
	"sort"

	"github.com/rpgo/mortgage-compare/internal/domain"
)

// Rank returns a copy of results ordered by net worth, highest first.
// Results with equal net worth keep their input order.
func Rank(results []domain.SimulationResult) []domain.SimulationResult {
	ranked := make([]domain.SimulationResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].NetWorth > ranked[j].NetWorth })
	return ranked
}

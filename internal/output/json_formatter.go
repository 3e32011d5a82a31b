package output

import (
	"encoding/json"

	"github.com/rpgo/mortgage-compare/internal/domain"
)

// JSONFormatter serializes the ranked comparison as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(results *domain.Comparison) ([]byte, error) {
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

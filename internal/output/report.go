package output

import (
	"bytes"
	"os"

	"github.com/rpgo/mortgage-compare/internal/domain"
)

// SaveReport writes the formatted report to filename instead of a stream.
func SaveReport(results *domain.Comparison, format, filename string) error {
	var buf bytes.Buffer
	if err := WriteReport(&buf, results, format); err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0644)
}

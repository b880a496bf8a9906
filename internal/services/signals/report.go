package signals

import (
	"fmt"
	"sort"
	"strings"

	"FinVerdict/internal/domain/models"
)

// Report renders verdicts as plain text, highest confidence first.
func Report(verdicts []models.CombinedVerdict) string {
	sorted := make([]models.CombinedVerdict, len(verdicts))
	copy(sorted, verdicts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Confidence > sorted[j].Confidence })

	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed %d symbols\n", len(sorted))
	for _, v := range sorted {
		fmt.Fprintf(&b, "\n%s - $%.2f\n", v.Symbol, v.CurrentPrice)
		fmt.Fprintf(&b, "  Overall: %s\n", v.Recommendation)
		fmt.Fprintf(&b, "  Confidence: %.1f%%\n", v.Confidence)
		for _, ind := range v.Indicators {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", ind.Signal, ind.Name, ind.Description)
		}
	}
	return b.String()
}

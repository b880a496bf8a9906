package usecase

import (
	"context"
	"sort"

	"FinVerdict/internal/domain/models"
	domrepo "FinVerdict/internal/domain/repository"
	"FinVerdict/internal/services/signals"
	"FinVerdict/pkg/util"
)

// TechnicalReport evaluates each symbol and renders the verdicts as plain text.
// Symbols that could not be evaluated are left out of the report and returned in the map.
func (uc *VerdictUseCase) TechnicalReport(ctx context.Context, symbols []string, iv domrepo.Interval, limit int) (string, map[string]error) {
	errs := make(map[string]error)
	verdicts := make([]models.CombinedVerdict, 0, len(symbols))
	for _, sym := range symbols {
		sym = util.NormalizeSymbol(sym)
		res, err := uc.analyzer.Technical(ctx, sym, iv, limit)
		if err != nil {
			errs[sym] = err
			continue
		}
		verdicts = append(verdicts, res.Verdict)
	}
	sort.SliceStable(verdicts, func(i, j int) bool { return verdicts[i].Symbol < verdicts[j].Symbol })
	return signals.Report(verdicts), errs
}

package features

import (
	"fmt"
	"math"
	"sort"

	"FinVerdict/internal/domain/models"
)

// extremeMovePct flags bar-to-bar close changes above this percentage.
const extremeMovePct = 50.0

// Quality statuses.
const (
	StatusEmpty   = "empty"
	StatusValid   = "valid"
	StatusInvalid = "invalid"
)

// DropInvalid removes bars that violate price invariants and sorts the rest ascending.
// The input slice is not modified.
func DropInvalid(points []models.PricePoint) []models.PricePoint {
	out := make([]models.PricePoint, 0, len(points))
	for _, p := range points {
		if p.Valid() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// Compute derives per-bar change, typical price and true range.
// The first bar has zero change and a true range of high-low.
func Compute(points []models.PricePoint) []models.BarFeatures {
	if len(points) == 0 {
		return nil
	}
	out := make([]models.BarFeatures, 0, len(points))
	for i, p := range points {
		f := models.BarFeatures{
			Timestamp:    p.Timestamp,
			TypicalPrice: (p.High + p.Low + p.Close) / 3,
			TrueRange:    p.High - p.Low,
		}
		if i > 0 {
			prev := points[i-1].Close
			f.PriceChange = p.Close - prev
			if prev != 0 {
				f.PriceChangePct = f.PriceChange / prev * 100
			}
			f.TrueRange = math.Max(f.TrueRange, math.Max(math.Abs(p.High-prev), math.Abs(p.Low-prev)))
		}
		out = append(out, f)
	}
	return out
}

// CheckQuality reports duplicate timestamps as issues and extreme moves as warnings.
func CheckQuality(points []models.PricePoint) models.DataQuality {
	q := models.DataQuality{Records: len(points), Issues: []string{}, Warnings: []string{}}
	if len(points) == 0 {
		q.Status = StatusEmpty
		q.Issues = append(q.Issues, "No data")
		return q
	}

	seen := make(map[int64]struct{}, len(points))
	dups := 0
	for _, p := range points {
		k := p.Timestamp.UnixNano()
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	if dups > 0 {
		q.Issues = append(q.Issues, fmt.Sprintf("Found %d duplicate timestamps", dups))
	}

	extreme := 0
	for _, f := range Compute(points) {
		if math.Abs(f.PriceChangePct) > extremeMovePct {
			extreme++
		}
	}
	if extreme > 0 {
		q.Warnings = append(q.Warnings, fmt.Sprintf("Found %d extreme price movements (>%g%%)", extreme, extremeMovePct))
	}

	q.Status = StatusValid
	if len(q.Issues) > 0 {
		q.Status = StatusInvalid
	}
	return q
}

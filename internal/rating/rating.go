// Package rating predicts how an entity's average rating moves when a
// review is approved, so tests can assert the exact value the site should
// display afterwards.
package rating

import (
	"fmt"
	"math"

	"github.com/hikersvoice/e2e/internal/errs"
)

// Next returns the average and review count after adding one review with
// the given stars. The backend stores averages rounded to two decimals, and
// the first review sets the average outright.
func Next(avg float64, count int, stars int) (float64, int) {
	if count <= 0 {
		return round2(float64(stars)), 1
	}
	total := avg*float64(count) + float64(stars)
	return round2(total / float64(count+1)), count + 1
}

// Verify checks that an observed final average and count match what adding
// one review with the given stars should produce. The tolerance absorbs the
// rounding the backend applies before display.
func Verify(initialAvg float64, initialCount, stars int, finalAvg float64, finalCount int, tol float64) error {
	wantAvg, wantCount := Next(initialAvg, initialCount, stars)
	if finalCount != wantCount {
		return errs.New(errs.FailedPrecondition,
			fmt.Sprintf("review count is %d, expected %d", finalCount, wantCount))
	}
	if math.Abs(finalAvg-wantAvg) > tol {
		return errs.New(errs.FailedPrecondition,
			fmt.Sprintf("average rating is %.2f, expected %.2f (±%.2f)", finalAvg, wantAvg, tol))
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

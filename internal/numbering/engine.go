package numbering

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"sjwi-backend/internal/fiscalyear"
	"sjwi-backend/internal/models"

	"gorm.io/gorm"
)

// FirstSuffix is assigned to the first certificate of a fiscal year.
const FirstSuffix = "001"

// Engine computes the next certificate suffix within a fiscal-year
// bucket. The result is advisory until the insert succeeds: two
// concurrent creates can be handed the same suffix, and the unique
// index on (prefix, fiscal_year, suffix) rejects the loser. Callers
// must re-run NextSuffix and retry on a duplicate-key error.
type Engine struct {
	DB *gorm.DB
}

// NextSuffix returns the next unused suffix for the fiscal year the
// reference date falls in, along with that fiscal year start.
// Suffixes start at "001", zero-padded to 3 digits and never truncated
// ("999" is followed by "1000"). Stored suffixes that do not parse as
// integers are skipped when computing the maximum.
func (e *Engine) NextSuffix(ctx context.Context, prefix string, ref time.Time) (string, int, error) {
	fy := fiscalyear.Start(ref)

	var suffixes []string
	err := e.DB.WithContext(ctx).
		Model(&models.Certificate{}).
		Where("certificate_no_prefix = ? AND fiscal_year = ?", prefix, fy).
		Pluck("suffix", &suffixes).Error
	if err != nil {
		return "", 0, fmt.Errorf("Failed to query last certificate suffix: %w", err)
	}
	if len(suffixes) == 0 {
		return FirstSuffix, fy, nil
	}

	max := 0
	for _, s := range suffixes {
		n, err := strconv.Atoi(s)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	return Format(max + 1), fy, nil
}

// Format zero-pads a suffix number to at least 3 digits.
func Format(n int) string {
	return fmt.Sprintf("%03d", n)
}

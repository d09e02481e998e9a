package analytics

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// Seeder backfills day records: demo data for fresh installations and
// gap-free ranges before a report is generated.
type Seeder struct {
	counters domain.AnalyticsRepository
	logger   zerolog.Logger
}

// NewSeeder constructs the seeder.
func NewSeeder(counters domain.AnalyticsRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{counters: counters, logger: logger}
}

// SeedRange upserts one record per day for the given number of consecutive
// calendar dates ending at end. Values are derived deterministically from
// the date, so re-running the same range rewrites identical records instead
// of duplicating them.
func (s *Seeder) SeedRange(ctx context.Context, end time.Time, days int) error {
	if days < 1 {
		return fmt.Errorf("%w: days must be positive", domain.ErrInvalid)
	}

	endDay := domain.StartOfDay(end)
	for i := 0; i < days; i++ {
		day := endDay.AddDate(0, 0, -i)
		if err := s.counters.UpsertDay(ctx, day, demoCounters(day)); err != nil {
			return fmt.Errorf("seed day %s: %w", day.Format("2006-01-02"), err)
		}
	}

	s.logger.Info().Int("days", days).Str("end", endDay.Format("2006-01-02")).Msg("seeded analytics range")
	return nil
}

// EnsureToday guarantees the current day's record exists. The worker calls
// it at midnight so dashboards never hit a missing-today edge.
func (s *Seeder) EnsureToday(ctx context.Context) error {
	if _, err := s.counters.GetOrCreateToday(ctx); err != nil {
		return fmt.Errorf("ensure today record: %w", err)
	}
	return nil
}

// demoCounters derives plausible counter values from the date alone.
func demoCounters(day time.Time) domain.DayCounters {
	seed := dayHash(day)
	total := 50 + int(seed%100)
	articleViews := 10 + int((seed>>8)%20)
	categoryViews := 15 + int((seed>>16)%30)

	return domain.DayCounters{
		TotalViews:    total,
		ArticleViews:  map[string]int{"sample-article": articleViews},
		CategoryViews: map[string]int{string(domain.CategoryFootball): categoryViews},
	}
}

func dayHash(day time.Time) uint64 {
	h := fnv.New64a()
	h.Write([]byte(day.Format("2006-01-02")))
	return h.Sum64()
}

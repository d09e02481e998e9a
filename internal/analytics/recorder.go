// Package analytics implements the view-recording and aggregation core:
// the single entry point that counts a content view, the read-side queries
// behind the admin dashboard, and the backfill used to seed day records.
package analytics

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/metrics"
)

// Recorder counts one content-view event against two independent documents:
// the article's own counter/history and the current day's aggregate record.
// There is no cross-document transaction; view counts are a best-effort
// metric and the daily aggregate must never block content delivery.
type Recorder struct {
	articles domain.ArticleRepository
	counters domain.AnalyticsRepository
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

// NewRecorder constructs the recorder.
func NewRecorder(articles domain.ArticleRepository, counters domain.AnalyticsRepository, m *metrics.Metrics, logger zerolog.Logger) *Recorder {
	return &Recorder{
		articles: articles,
		counters: counters,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Record registers one view for the article. The article mutation is the
// primary effect: its failure (including domain.ErrNotFound for missing or
// unpublished articles) is returned to the caller. The daily counter update
// runs on a context detached from request cancellation and its failure is
// only logged.
func (r *Recorder) Record(ctx context.Context, articleID string) error {
	day := domain.StartOfDay(r.now())

	category, err := r.articles.IncrementViews(ctx, articleID, day)
	if err != nil {
		r.metrics.ViewRecordFailures.WithLabelValues("article").Inc()
		return err
	}

	// The counter store must still be updated when the viewer hangs up
	// mid-response.
	ctx = context.WithoutCancel(ctx)
	if _, err := r.counters.GetOrCreateToday(ctx); err != nil {
		r.metrics.ViewRecordFailures.WithLabelValues("counters").Inc()
		r.logger.Error().Err(err).Str("article_id", articleID).Msg("get-or-create today record failed")
		return nil
	}
	if err := r.counters.IncrementView(ctx, day, articleID, category); err != nil {
		r.metrics.ViewRecordFailures.WithLabelValues("counters").Inc()
		r.logger.Error().Err(err).Str("article_id", articleID).Msg("daily counter increment failed")
		return nil
	}

	r.metrics.ViewsRecorded.WithLabelValues(string(category)).Inc()
	return nil
}

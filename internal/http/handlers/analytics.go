package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

// AnalyticsOverview serves the dashboard overview, cache-aside when redis is
// configured.
func (a *App) AnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	if overview, ok := a.Cache.Get(r.Context()); ok {
		a.json(w, http.StatusOK, map[string]any{
			"success":   true,
			"analytics": overview,
		})
		return
	}

	overview, err := a.Aggregator.Overview(r.Context(), time.Now())
	if err != nil {
		a.fail(w, err, "failed to build analytics overview")
		return
	}
	a.Cache.Set(r.Context(), overview)

	a.json(w, http.StatusOK, map[string]any{
		"success":   true,
		"analytics": overview,
	})
}

// AnalyticsViews serves per-day view totals for a named lookback period.
func (a *App) AnalyticsViews(w http.ResponseWriter, r *http.Request) {
	period := domain.ViewPeriod(chi.URLParam(r, "period"))

	points, err := a.Aggregator.ViewsForPeriod(r.Context(), period, time.Now())
	if err != nil {
		a.fail(w, err, "failed to fetch view analytics")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"period":  period,
		"data":    points,
	})
}

// AnalyticsArticlePerformance serves the top articles by views, optionally
// restricted to articles created within the requested period.
func (a *App) AnalyticsArticlePerformance(w http.ResponseWriter, r *http.Request) {
	period := domain.PerformancePeriod(r.URL.Query().Get("period"))
	limit := queryInt(r, "limit", 20)

	stats, err := a.Aggregator.ArticlePerformance(r.Context(), limit, period, time.Now())
	if err != nil {
		a.fail(w, err, "failed to fetch article performance")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":  true,
		"articles": stats,
	})
}

// AnalyticsSeed backfills demo counter records ending today.
func (a *App) AnalyticsSeed(w http.ResponseWriter, r *http.Request) {
	days := 30
	if r.Body != nil {
		var req struct {
			Days int `json:"days"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Days > 0 {
			days = req.Days
		}
	}

	if err := a.Seeder.SeedRange(r.Context(), time.Now(), days); err != nil {
		a.fail(w, err, "failed to seed analytics")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Analytics data seeded",
		"days":    days,
	})
}

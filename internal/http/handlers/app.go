package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/analytics"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/mail"
	"server/internal/metrics"
	"server/internal/storage"
)

// App is the handler container: repositories, services, and shared helpers.
type App struct {
	Cfg    *infra.Config
	Logger zerolog.Logger

	Articles    domain.ArticleRepository
	Comments    domain.CommentRepository
	Subscribers domain.SubscriberRepository
	Contacts    domain.ContactRepository
	Users       domain.UserRepository
	Counters    domain.AnalyticsRepository

	Recorder   *analytics.Recorder
	Aggregator *analytics.Aggregator
	Seeder     *analytics.Seeder
	Cache      *analytics.OverviewCache

	Mailer  mail.Mailer
	Files   *storage.FileStore
	GeoIP   geoip.CountryResolver
	Metrics *metrics.Metrics
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]any{"success": false, "message": message})
}

// fail maps domain errors onto the response envelope. fallback is the
// client-facing message for unexpected errors, which are never echoed.
func (a *App) fail(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalid):
		a.error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		a.error(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized")
	default:
		a.Logger.Error().Err(err).Msg(fallback)
		a.error(w, http.StatusInternalServerError, fallback)
	}
}

// country resolves the ISO country for an IP when geoip is configured.
func (a *App) country(ip string) string {
	if a.GeoIP == nil || ip == "" {
		return ""
	}
	code, err := a.GeoIP.CountryCode(ip)
	if err != nil {
		return ""
	}
	return code
}

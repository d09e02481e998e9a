package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
)

func subscriberView(s *domain.Subscriber) map[string]any {
	return map[string]any{
		"id":           s.ID,
		"email":        s.Email,
		"active":       s.Active,
		"source":       s.Source,
		"subscribedAt": s.CreatedAt,
	}
}

// Subscribe registers a newsletter subscriber and sends the welcome email.
func (a *App) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email  string `json:"email"`
		Source string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if !domain.ValidEmail(req.Email) {
		a.error(w, http.StatusBadRequest, "please enter a valid email")
		return
	}

	sub := &domain.Subscriber{
		ID:     uuid.NewString(),
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Source: req.Source,
	}
	if sub.Source == "" {
		sub.Source = "website"
	}

	if err := a.Subscribers.Create(r.Context(), sub); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			a.error(w, http.StatusConflict, "This email is already subscribed")
			return
		}
		a.fail(w, err, "failed to subscribe")
		return
	}

	detached := context.WithoutCancel(r.Context())
	if err := a.Counters.IncrementSubscribers(detached, domain.StartOfDay(sub.CreatedAt)); err != nil {
		a.Logger.Warn().Err(err).Msg("subscriber counter update failed")
	}
	if err := a.Mailer.SendWelcome(detached, sub.Email); err != nil {
		a.Logger.Warn().Err(err).Str("email", sub.Email).Msg("welcome email failed")
	}

	a.json(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Successfully subscribed to the newsletter",
	})
}

// Unsubscribe deactivates the subscriber named in the URL.
func (a *App) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "email")))
	if email == "" {
		a.error(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := a.Subscribers.Deactivate(r.Context(), email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "email not found in subscriber list")
			return
		}
		a.fail(w, err, "failed to unsubscribe")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Successfully unsubscribed",
	})
}

// SubscribersAdminList lists all subscribers for the dashboard.
func (a *App) SubscribersAdminList(w http.ResponseWriter, r *http.Request) {
	subs, err := a.Subscribers.List(r.Context())
	if err != nil {
		a.fail(w, err, "failed to fetch subscribers")
		return
	}
	views := make([]map[string]any, 0, len(subs))
	active := 0
	for i := range subs {
		if subs[i].Active {
			active++
		}
		views = append(views, subscriberView(&subs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":     true,
		"subscribers": views,
		"total":       len(subs),
		"active":      active,
	})
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/middleware"
)

func contactView(c *domain.Contact) map[string]any {
	return map[string]any{
		"id":        c.ID,
		"name":      c.Name,
		"email":     c.Email,
		"subject":   c.Subject,
		"message":   c.Body,
		"read":      c.Read,
		"replied":   c.Replied,
		"createdAt": c.CreatedAt,
	}
}

// ContactCreate accepts a contact form submission and alerts the admin inbox.
func (a *App) ContactCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Message) == "" {
		a.error(w, http.StatusBadRequest, "name and message are required")
		return
	}
	if !domain.ValidEmail(req.Email) {
		a.error(w, http.StatusBadRequest, "please enter a valid email")
		return
	}

	contact := &domain.Contact{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Subject:   strings.TrimSpace(req.Subject),
		Body:      strings.TrimSpace(req.Message),
		IPAddress: middleware.ClientIP(r),
	}
	if contact.Subject == "" {
		contact.Subject = "No subject"
	}

	if err := a.Contacts.Create(r.Context(), contact); err != nil {
		a.fail(w, err, "failed to submit message")
		return
	}

	if err := a.Mailer.SendContactMessage(context.WithoutCancel(r.Context()), contact); err != nil {
		a.Logger.Warn().Err(err).Msg("contact notification failed")
	}

	a.json(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Message sent successfully. We will get back to you soon.",
	})
}

// ContactsAdminList pages through contact messages with read/replied filters.
func (a *App) ContactsAdminList(w http.ResponseWriter, r *http.Request) {
	read := queryBool(r, "read")
	replied := queryBool(r, "replied")
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	contacts, total, err := a.Contacts.List(r.Context(), read, replied, page, limit)
	if err != nil {
		a.fail(w, err, "failed to fetch messages")
		return
	}
	unread, err := a.Contacts.CountUnread(r.Context())
	if err != nil {
		a.fail(w, err, "failed to fetch messages")
		return
	}
	views := make([]map[string]any, 0, len(contacts))
	for i := range contacts {
		views = append(views, contactView(&contacts[i]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":     true,
		"contacts":    views,
		"unreadCount": unread,
		"pagination":  pagination(page, limit, total),
	})
}

// ContactMarkRead flags a message as read.
func (a *App) ContactMarkRead(w http.ResponseWriter, r *http.Request) {
	contact, err := a.Contacts.MarkRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err, "failed to update message")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"contact": contactView(contact),
	})
}

// ContactMarkReplied flags a message as replied.
func (a *App) ContactMarkReplied(w http.ResponseWriter, r *http.Request) {
	contact, err := a.Contacts.MarkReplied(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err, "failed to update message")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"contact": contactView(contact),
	})
}

// ContactDelete removes a message.
func (a *App) ContactDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Contacts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, err, "failed to delete message")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Message deleted",
	})
}

func queryBool(r *http.Request, key string) *bool {
	switch r.URL.Query().Get(key) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

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

func commentView(c *domain.Comment) map[string]any {
	return map[string]any{
		"id":           c.ID,
		"articleId":    c.ArticleID,
		"articleTitle": c.ArticleTitle,
		"user":         c.Author,
		"email":        c.Email,
		"text":         c.Body,
		"approved":     c.Approved,
		"country":      c.Country,
		"createdAt":    c.CreatedAt,
	}
}

func commentViews(comments []domain.Comment) []map[string]any {
	views := make([]map[string]any, 0, len(comments))
	for i := range comments {
		views = append(views, commentView(&comments[i]))
	}
	return views
}

// CommentCreate accepts a reader comment and holds it for moderation.
func (a *App) CommentCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ArticleID string `json:"articleId"`
		User      string `json:"user"`
		Email     string `json:"email"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	article, err := a.Articles.GetByID(r.Context(), req.ArticleID)
	if err != nil {
		a.fail(w, err, "failed to fetch article")
		return
	}

	ip := middleware.ClientIP(r)
	comment := &domain.Comment{
		ID:           uuid.NewString(),
		ArticleID:    article.ID,
		ArticleTitle: article.Title,
		Author:       strings.TrimSpace(req.User),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Body:         strings.TrimSpace(req.Text),
		IPAddress:    ip,
		UserAgent:    r.UserAgent(),
		Country:      a.country(ip),
	}
	if err := comment.Validate(); err != nil {
		a.fail(w, err, "invalid comment")
		return
	}

	if err := a.Comments.Create(r.Context(), comment); err != nil {
		a.fail(w, err, "failed to submit comment")
		return
	}

	detached := context.WithoutCancel(r.Context())
	if err := a.Counters.IncrementComments(detached, domain.StartOfDay(comment.CreatedAt)); err != nil {
		a.Logger.Warn().Err(err).Msg("comment counter update failed")
	}
	if err := a.Mailer.SendNewComment(detached, comment); err != nil {
		a.Logger.Warn().Err(err).Msg("comment notification failed")
	}

	a.json(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Comment submitted and awaiting approval",
		"comment": commentView(comment),
	})
}

// CommentsAdminList lists comments for moderation, optionally filtered by
// approval state.
func (a *App) CommentsAdminList(w http.ResponseWriter, r *http.Request) {
	approved := queryBool(r, "approved")
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	comments, total, err := a.Comments.List(r.Context(), approved, page, limit)
	if err != nil {
		a.fail(w, err, "failed to fetch comments")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":    true,
		"comments":   commentViews(comments),
		"pagination": pagination(page, limit, total),
	})
}

// CommentApprove publishes a held comment.
func (a *App) CommentApprove(w http.ResponseWriter, r *http.Request) {
	comment, err := a.Comments.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err, "failed to approve comment")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Comment approved",
		"comment": commentView(comment),
	})
}

// CommentDelete removes a comment outright.
func (a *App) CommentDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Comments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, err, "failed to delete comment")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Comment deleted",
	})
}

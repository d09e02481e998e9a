package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
)

type articleRequest struct {
	Title     *string  `json:"title"`
	Content   *string  `json:"content"`
	Category  *string  `json:"category"`
	Image     *string  `json:"image"`
	Author    *string  `json:"author"`
	Published *bool    `json:"published"`
	Featured  *bool    `json:"featured"`
	Tags      []string `json:"tags"`
}

func articleView(a *domain.Article) map[string]any {
	return map[string]any{
		"id":        a.ID,
		"title":     a.Title,
		"content":   a.Content,
		"excerpt":   a.Excerpt(),
		"category":  a.Category,
		"image":     a.Image,
		"author":    a.Author,
		"published": a.Published,
		"featured":  a.Featured,
		"views":     a.Views,
		"tags":      a.Tags,
		"createdAt": a.CreatedAt,
		"updatedAt": a.UpdatedAt,
	}
}

func articleViews(articles []domain.Article) []map[string]any {
	views := make([]map[string]any, 0, len(articles))
	for i := range articles {
		views = append(views, articleView(&articles[i]))
	}
	return views
}

func pagination(page, limit, total int) map[string]any {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return map[string]any{
		"currentPage":   page,
		"totalPages":    totalPages,
		"totalArticles": total,
		"hasNext":       page < totalPages,
		"hasPrev":       page > 1,
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

// ArticlesList serves the public article listing with pagination, category
// and featured filters, and title/content search.
func (a *App) ArticlesList(w http.ResponseWriter, r *http.Request) {
	filter := domain.ArticleFilter{
		PublishedOnly: true,
		FeaturedOnly:  r.URL.Query().Get("featured") == "true",
		Search:        r.URL.Query().Get("search"),
		Page:          queryInt(r, "page", 1),
		Limit:         queryInt(r, "limit", 12),
	}
	if c := r.URL.Query().Get("category"); c != "" && c != "all" {
		category, err := domain.ParseCategory(c)
		if err != nil {
			a.fail(w, err, "invalid category")
			return
		}
		filter.Category = category
	}

	articles, total, err := a.Articles.List(r.Context(), filter)
	if err != nil {
		a.fail(w, err, "failed to fetch articles")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":    true,
		"articles":   articleViews(articles),
		"pagination": pagination(filter.Page, filter.PageLimit(), total),
	})
}

// ArticlesFeatured serves the homepage hero carousel.
func (a *App) ArticlesFeatured(w http.ResponseWriter, r *http.Request) {
	articles, _, err := a.Articles.List(r.Context(), domain.ArticleFilter{
		PublishedOnly: true,
		FeaturedOnly:  true,
		Limit:         6,
	})
	if err != nil {
		a.fail(w, err, "failed to fetch featured articles")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":  true,
		"articles": articleViews(articles),
	})
}

// ArticleGet serves one published article and records the view. Recording is
// best-effort: a failed count never fails the page.
func (a *App) ArticleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	article, err := a.Articles.GetByID(r.Context(), id)
	if err != nil || !article.Published {
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			a.fail(w, err, "failed to fetch article")
			return
		}
		a.error(w, http.StatusNotFound, "article not found")
		return
	}

	if err := a.Recorder.Record(r.Context(), article.ID); err != nil {
		a.Logger.Warn().Err(err).Str("article_id", article.ID).Msg("view recording failed")
	} else {
		article.Views++
	}

	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"article": articleView(article),
	})
}

// ArticlesByCategory lists published articles in one category.
func (a *App) ArticlesByCategory(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		a.fail(w, err, "invalid category")
		return
	}

	filter := domain.ArticleFilter{
		PublishedOnly: true,
		Category:      category,
		Page:          queryInt(r, "page", 1),
		Limit:         queryInt(r, "limit", 12),
	}
	articles, total, err := a.Articles.List(r.Context(), filter)
	if err != nil {
		a.fail(w, err, "failed to fetch articles")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":    true,
		"articles":   articleViews(articles),
		"pagination": pagination(filter.Page, filter.PageLimit(), total),
	})
}

// ArticleCreate publishes a new article and notifies active subscribers.
func (a *App) ArticleCreate(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	article := &domain.Article{
		ID:        uuid.NewString(),
		Author:    "Admin",
		Published: true,
	}
	applyArticleRequest(article, &req)
	if err := article.Validate(); err != nil {
		a.fail(w, err, "invalid article")
		return
	}

	if err := a.Articles.Create(r.Context(), article); err != nil {
		a.fail(w, err, "failed to create article")
		return
	}

	if article.Published {
		a.notifySubscribers(r.Context(), article)
	}

	a.json(w, http.StatusCreated, map[string]any{
		"success": true,
		"article": articleView(article),
		"message": "Article published successfully",
	})
}

// ArticleUpdate overlays the provided fields onto the stored article.
func (a *App) ArticleUpdate(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	article, err := a.Articles.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err, "failed to fetch article")
		return
	}

	applyArticleRequest(article, &req)
	if err := article.Validate(); err != nil {
		a.fail(w, err, "invalid article")
		return
	}

	updated, err := a.Articles.Update(r.Context(), article)
	if err != nil {
		a.fail(w, err, "failed to update article")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"article": articleView(updated),
		"message": "Article updated successfully",
	})
}

// ArticleDelete removes an article and its dependents.
func (a *App) ArticleDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Articles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, err, "failed to delete article")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Article deleted successfully",
	})
}

// ArticlesAdminAll lists every article, drafts included, for the dashboard.
func (a *App) ArticlesAdminAll(w http.ResponseWriter, r *http.Request) {
	filter := domain.ArticleFilter{
		Search: r.URL.Query().Get("search"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 10),
	}
	articles, total, err := a.Articles.List(r.Context(), filter)
	if err != nil {
		a.fail(w, err, "failed to fetch articles")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":    true,
		"articles":   articleViews(articles),
		"pagination": pagination(filter.Page, filter.PageLimit(), total),
	})
}

// ArticleComments lists the approved comments of one article.
func (a *App) ArticleComments(w http.ResponseWriter, r *http.Request) {
	comments, err := a.Comments.ListByArticle(r.Context(), chi.URLParam(r, "id"), true)
	if err != nil {
		a.fail(w, err, "failed to fetch comments")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":  true,
		"comments": commentViews(comments),
	})
}

func applyArticleRequest(article *domain.Article, req *articleRequest) {
	if req.Title != nil {
		article.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.Category != nil {
		article.Category = domain.Category(strings.ToLower(strings.TrimSpace(*req.Category)))
	}
	if req.Image != nil {
		article.Image = *req.Image
	}
	if req.Author != nil && strings.TrimSpace(*req.Author) != "" {
		article.Author = strings.TrimSpace(*req.Author)
	}
	if req.Published != nil {
		article.Published = *req.Published
	}
	if req.Featured != nil {
		article.Featured = *req.Featured
	}
	if req.Tags != nil {
		article.Tags = req.Tags
	}
}

// notifySubscribers emails active subscribers about a new article. Runs on a
// detached context; a mail failure never fails the publish.
func (a *App) notifySubscribers(ctx context.Context, article *domain.Article) {
	ctx = context.WithoutCancel(ctx)
	subs, err := a.Subscribers.ListActive(ctx)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("subscriber lookup for notification failed")
		return
	}
	if len(subs) == 0 {
		return
	}
	recipients := make([]string, 0, len(subs))
	for _, s := range subs {
		recipients = append(recipients, s.Email)
	}
	if err := a.Mailer.SendNewArticle(ctx, recipients, article); err != nil {
		a.Logger.Warn().Err(err).Msg("article notification failed")
	}
}

package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// NewRouter wires the public and admin API surfaces onto one chi router.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Cfg.CORSOrigins),
		middleware.Metrics(app.Metrics),
		middleware.RateLimit(app.Cfg.RateLimitPerMin, time.Minute),
	)

	r.Get("/api/health", app.Health)
	r.Handle("/metrics", app.Metrics.Handler())

	r.Route("/api/articles", func(r chi.Router) {
		r.Get("/", app.ArticlesList)
		r.Get("/featured", app.ArticlesFeatured)
		r.Get("/category/{category}", app.ArticlesByCategory)
		r.Get("/{id}", app.ArticleGet)
		r.Get("/{id}/comments", app.ArticleComments)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(app.Cfg.JWTSecret), middleware.RequireAdmin)
			r.Get("/admin/all", app.ArticlesAdminAll)
			r.Post("/", app.ArticleCreate)
			r.Put("/{id}", app.ArticleUpdate)
			r.Delete("/{id}", app.ArticleDelete)
		})
	})

	r.Route("/api/comments", func(r chi.Router) {
		r.Post("/", app.CommentCreate)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(app.Cfg.JWTSecret), middleware.RequireAdmin)
			r.Get("/", app.CommentsAdminList)
			r.Patch("/{id}/approve", app.CommentApprove)
			r.Delete("/{id}", app.CommentDelete)
		})
	})

	r.Route("/api/subscribers", func(r chi.Router) {
		r.Post("/", app.Subscribe)
		r.Delete("/{email}", app.Unsubscribe)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(app.Cfg.JWTSecret), middleware.RequireAdmin)
			r.Get("/", app.SubscribersAdminList)
		})
	})

	r.Route("/api/contacts", func(r chi.Router) {
		r.Post("/", app.ContactCreate)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(app.Cfg.JWTSecret), middleware.RequireAdmin)
			r.Get("/", app.ContactsAdminList)
			r.Patch("/{id}/read", app.ContactMarkRead)
			r.Patch("/{id}/replied", app.ContactMarkReplied)
			r.Delete("/{id}", app.ContactDelete)
		})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(app.Cfg.AuthRatePerWin, app.Cfg.AuthRateWindow)).
			Post("/login", app.Login)
		r.With(middleware.AuthJWT(app.Cfg.JWTSecret)).
			Post("/verify", app.Verify)
	})

	r.Route("/api/analytics", func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Cfg.JWTSecret), middleware.RequireAdmin)
		r.Get("/overview", app.AnalyticsOverview)
		r.Get("/views/{period}", app.AnalyticsViews)
		r.Get("/articles/performance", app.AnalyticsArticlePerformance)
		r.Post("/seed", app.AnalyticsSeed)
	})

	r.Route("/api/uploads", func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Cfg.JWTSecret), middleware.RequireAdmin)
		r.Post("/image", app.UploadImage)
		r.Delete("/image/{filename}", app.UploadDelete)
		r.Get("/images", app.UploadsList)
	})

	if app.Files != nil {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.Files.BasePath())))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/educateagirl/storefront-api/api/controllers"
	"github.com/educateagirl/storefront-api/api/middleware"
	"github.com/educateagirl/storefront-api/pkg/config"
	"github.com/educateagirl/storefront-api/pkg/db"
	"github.com/educateagirl/storefront-api/pkg/logger"
	"github.com/educateagirl/storefront-api/pkg/metrics"
	"github.com/educateagirl/storefront-api/pkg/redis"
	"github.com/educateagirl/storefront-api/pkg/storage"
)

// Params carries everything NewRouter mounts. Redis, Sink, Metrics and
// Gatherer are optional.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Sink     storage.Sink
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer
	Services Services
}

func NewRouter(p Params) http.Handler {
	cfg, logg, svc := p.Config, p.Logger, p.Services

	// A nil *redis.Client must not reach the middleware as a non-nil interface.
	var (
		idempotencyStore redis.IdempotencyStore
		limiter          redis.RateLimiter
		readiness        = []controllers.ReadinessCheck{}
	)
	if p.DB != nil {
		readiness = append(readiness, controllers.ReadinessCheck{Name: "db", Ping: p.DB.Ping})
	}
	if p.Redis != nil {
		idempotencyStore = p.Redis
		limiter = p.Redis
		readiness = append(readiness, controllers.ReadinessCheck{Name: "redis", Ping: p.Redis.Ping})
	}

	sink := p.Sink
	if sink == nil {
		sink = storage.Disabled()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, logg, readiness...))
	})

	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	messagePolicy := middleware.NewRateLimitPolicy("messages", cfg.RateLimit.Window, cfg.RateLimit.MessageIPLimit)
	reviewPolicy := middleware.NewRateLimitPolicy("reviews", cfg.RateLimit.Window, cfg.RateLimit.ReviewIPLimit)
	ips := middleware.NewClientIPResolver(cfg.App.TrustedProxyHops)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, ips, logg))

		r.Post("/upload", controllers.Upload(controllers.UploadParams{
			Sink:     sink,
			Provider: cfg.Media.Provider,
			Folder:   cfg.Media.Folder,
			MaxBytes: cfg.Media.MaxUploadBytes(),
			Metrics:  p.Metrics,
		}, logg))
		r.Post("/checkout", controllers.Checkout(logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svc.Products, logg))
			r.Post("/", controllers.CreateProduct(svc.Products, logg))
			r.Get("/{id}", controllers.GetProduct(svc.Products, logg))
			r.Put("/{id}", controllers.UpdateProduct(svc.Products, logg))
			r.Delete("/{id}", controllers.DeleteProduct(svc.Products, logg))
		})

		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", controllers.ListGallery(svc.Gallery, logg))
			r.Post("/", controllers.CreateGalleryItem(svc.Gallery, logg))
			r.Delete("/{id}", controllers.DeleteGalleryItem(svc.Gallery, logg))
		})

		r.Route("/stories", func(r chi.Router) {
			r.Get("/", controllers.ListStories(svc.Stories, logg))
			r.Post("/", controllers.CreateStory(svc.Stories, logg))
			r.Put("/{id}", controllers.UpdateStory(svc.Stories, logg))
			r.Delete("/{id}", controllers.DeleteStory(svc.Stories, logg))
		})

		r.Route("/team", func(r chi.Router) {
			r.Get("/", controllers.ListTeam(svc.Team, logg))
			r.Post("/", controllers.CreateTeamMember(svc.Team, logg))
			r.Put("/{id}", controllers.UpdateTeamMember(svc.Team, logg))
			r.Delete("/{id}", controllers.DeleteTeamMember(svc.Team, logg))
		})

		r.Route("/journey", func(r chi.Router) {
			r.Get("/", controllers.ListJourney(svc.Journey, logg))
			r.Post("/", controllers.CreateJourneyEntry(svc.Journey, logg))
			r.Put("/{id}", controllers.UpdateJourneyEntry(svc.Journey, logg))
			r.Delete("/{id}", controllers.DeleteJourneyEntry(svc.Journey, logg))
		})

		r.Route("/programs", func(r chi.Router) {
			r.Get("/", controllers.ListPrograms(svc.Programs, logg))
			r.Post("/", controllers.CreateProgram(svc.Programs, logg))
			r.Put("/{id}", controllers.UpdateProgram(svc.Programs, logg))
			r.Delete("/{id}", controllers.DeleteProgram(svc.Programs, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/{key}", controllers.GetSetting(svc.Settings, logg))
			r.Post("/{key}", controllers.PutSetting(svc.Settings, logg))
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", controllers.ListMessages(svc.Messages, logg))
			r.With(middleware.RateLimit(messagePolicy, limiter, ips, logg)).Post("/", controllers.CreateMessage(svc.Messages, logg))
			r.Put("/{id}/read", controllers.MarkMessageRead(svc.Messages, logg))
			r.Delete("/{id}", controllers.DeleteMessage(svc.Messages, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/product/{id}", controllers.ListProductReviews(svc.Reviews, logg))
			r.Get("/pending", controllers.ListPendingReviews(svc.Reviews, logg))
			r.With(middleware.RateLimit(reviewPolicy, limiter, ips, logg)).Post("/", controllers.CreateReview(svc.Reviews, logg))
			r.Put("/{id}/approve", controllers.ApproveReview(svc.Reviews, logg))
			r.Delete("/{id}", controllers.DeleteReview(svc.Reviews, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(svc.Orders, logg))
			r.Get("/{id}", controllers.GetOrder(svc.Orders, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/{session_id}", controllers.ListWishlist(svc.Wishlist, logg))
			r.Post("/", controllers.AddWishlistItem(svc.Wishlist, logg))
			r.Delete("/{id}", controllers.DeleteWishlistItem(svc.Wishlist, logg))
		})
	})

	return r
}

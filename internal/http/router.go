// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns
// such as tracing, correlation IDs, logging, panic recovery, metrics,
// compression, CORS, security headers, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//
// The events webhook is the single unauthenticated API route: its caller
// is verified through the payload token, and the url_verification
// handshake has to work before any credential exists. Every other API
// method runs behind the bearer guard.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-slack-sim/internal/config"
	"github.com/tbourn/go-slack-sim/internal/http/handlers"
	"github.com/tbourn/go-slack-sim/internal/http/middleware"
	"github.com/tbourn/go-slack-sim/internal/id"
	"github.com/tbourn/go-slack-sim/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given
// Gin engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip compression
//  8. Rate limiter (per actor/IP)
//  9. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, gen *id.Generator, cfg config.Config) {
	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to the failure envelope (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 8) Token-bucket rate limiter per actor/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByActorOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (allow all when no allowlist is configured)
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
	}))

	// Unmatched paths answer in the envelope shape like real API methods.
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, handlers.ErrCodeUnknownMethod)
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← db/generator
	authSvc := services.NewAuthService(db)
	convSvc := services.NewConversationService(db)
	msgSvc := services.NewMessageService(db, gen)
	reactSvc := services.NewReactionService(db)
	eventSvc := services.NewEventService(db, gen)
	dirSvc := services.NewDirectoryService(db)
	h := handlers.New(convSvc, msgSvc, reactSvc, eventSvc, dirSvc)

	// Webhook ingress: no bearer guard (see package comment).
	r.POST("/api/events", h.Events)

	// Public API methods behind the bearer guard. Read methods accept GET
	// or POST; mutations are POST-only.
	api := r.Group("/api", middleware.BearerAuth(authSvc))
	{
		getOrPost(api, "/conversations.list", h.ListConversations)
		getOrPost(api, "/conversations.history", h.ConversationHistory)
		getOrPost(api, "/conversations.replies", h.ConversationReplies)
		getOrPost(api, "/conversations.info", h.ConversationInfo)
		getOrPost(api, "/conversations.members", h.ConversationMembers)
		api.POST("/conversations.create", h.CreateConversation)
		api.POST("/conversations.join", h.JoinConversation)

		api.POST("/chat.postMessage", h.PostMessage)
		api.POST("/chat.update", h.UpdateMessage)
		api.POST("/chat.delete", h.DeleteMessage)

		api.POST("/reactions.add", h.AddReaction)
		api.POST("/reactions.remove", h.RemoveReaction)

		getOrPost(api, "/users.list", h.ListUsers)
		getOrPost(api, "/users.info", h.UserInfo)
		getOrPost(api, "/team.info", h.TeamInfo)
		getOrPost(api, "/auth.test", h.AuthTest)
	}
}

// getOrPost registers a read method under both verbs, matching the
// platform convention that read endpoints are verb-agnostic.
func getOrPost(g *gin.RouterGroup, path string, fn gin.HandlerFunc) {
	g.GET(path, fn)
	g.POST(path, fn)
}

// limitBody returns a Gin middleware that caps the request body size for
// all endpoints using http.MaxBytesReader. Requests exceeding the cap
// cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

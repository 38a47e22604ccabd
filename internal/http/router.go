// Package httpapi wires the HTTP transport (Gin) to the catalog services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, sessions, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → session → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - HTML pages and the JSON API share one engine; the API base path decides
//     which error surface a request gets
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/recettes/internal/auth"
	"github.com/tbourn/recettes/internal/config"
	"github.com/tbourn/recettes/internal/http/handlers"
	"github.com/tbourn/recettes/internal/http/middleware"
	"github.com/tbourn/recettes/internal/http/views"
	"github.com/tbourn/recettes/internal/services"
)

// maxBodyBytes caps every request body. Forms are small.
const maxBodyBytes = 1 << 20

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), compression, CORS
// and security headers, health and metrics endpoints, the HTML pages, and
// then mounts the JSON API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. APIScope: tag requests under the API base path
//  4. Session: resolve the signed-in user from the cookie
//  5. AccessLog: structured logs with PII scrubbing
//  6. Recovery: capture panics after logger
//  7. Body size limiter
//  8. Metrics
//  9. Gzip, CORS and security headers
//
// The rate limiter only guards the login and sign-up posts and the write
// routes; reads stay unthrottled.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, sessions *auth.SessionManager, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// Dependency injection: services ← db
	dishes := services.NewDishService(db, cfg.PageSize)
	ingredients := services.NewIngredientService(db, cfg.PageSize)
	compositions := services.NewCompositionService(db)
	users := services.NewUserService(db, auth.NewHasher(cfg.BcryptCost))
	h := handlers.New(dishes, ingredients, compositions, users, sessions, cfg.APIBasePath)

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) API requests answer in JSON, pages in HTML
	r.Use(middleware.APIScope(cfg.APIBasePath))

	// 4) Signed-in user, when the cookie is valid
	r.Use(middleware.Session(sessions, users))

	// 5) Structured logging with redaction
	r.Use(middleware.AccessLog(middleware.RedactOptions{
		MaskParams: []string{"email", "login"},
	}))

	// 6) Panic recovery (JSON for the API, error page otherwise)
	r.Use(middleware.Recovery())

	// 7) Global body size limit
	r.Use(limitBody(maxBodyBytes))

	// 8) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 9) Compression, CORS posture, security headers
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	useCORS(r, cfg.CORS.AllowedOrigins)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
		CSP:          middleware.DefaultCSP,
		CSPExempt:    []string{"/swagger"},
	}))

	// Fallbacks
	r.NoRoute(h.NotFound)
	r.NoMethod(h.MethodNotAllowed)

	// Liveness/health
	r.GET("/health", health(db))

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Pages
	r.SetHTMLTemplate(views.MustParse())
	r.StaticFS("/static", views.Static())

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	limited := rl.Handler()
	getPost := []string{http.MethodGet, http.MethodPost}

	r.GET("/", h.Home)
	r.GET("/plat", h.Dishes)
	r.Match(getPost, "/plats/:id", h.ShowDish)
	r.GET("/recherche_plat", h.SearchDishes)
	r.GET("/recherche_plat_type", h.DishesByCategory)
	r.Match(getPost, "/recherche_plat_convives", h.SearchDishesByGuests)
	r.GET("/ingredients/all", h.Ingredients)
	r.GET("/ingredients/:id", h.ShowIngredient)
	r.GET("/recherche_ingredient", h.SearchIngredients)
	r.GET("/recherche_ingredient_type", h.IngredientsByCategory)

	// Accounts
	r.GET("/register", h.RegisterForm)
	r.POST("/register", limited, h.Register)
	r.GET("/connexion", h.Login)
	r.POST("/connexion", limited, h.Login)
	r.Match(getPost, "/deconnexion", h.Logout)

	// Writes require a session
	w := r.Group("/", middleware.RequireLogin(), limited)
	{
		w.GET("/ajout_recette", h.NewDish)
		w.POST("/ajout_recette", h.CreateDish)
		w.Match(getPost, "/plats/:id/adding_ingredients", h.AddIngredientsForm)
		w.POST("/add_ingredients", h.AddIngredients)
		w.Match(getPost, "/edition_recette/:id", h.EditDishForm)
		w.POST("/editer_recette", h.EditDish)
		w.Match(getPost, "/supprimer/:id", h.ConfirmDelete)
		w.Match(getPost, "/supprimer", h.DeleteDish)
		w.Match(getPost, "/vers_ajout_ingredient", h.NewIngredient)
		w.GET("/ajout_ingredient", h.NewIngredient)
		w.POST("/ajout_ingredient", h.CreateIngredient)
	}

	// Public JSON API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/plats", h.APIListDishes)
		api.GET("/plats/:id", h.APIGetDish)
	}
}

// useCORS installs the CORS posture: allow all origins when none are
// configured, otherwise echo allow-listed origins.
func useCORS(r *gin.Engine, origins []string) {
	methods := []string{"GET", "POST", "OPTIONS"}
	headers := []string{"Origin", "Content-Type", "Accept", "If-None-Match"}
	expose := []string{"X-Request-ID", "Content-Length", "ETag"}

	if len(origins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     methods,
			AllowHeaders:     headers,
			ExposeHeaders:    expose,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
		return
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		c.Next()
	})
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     methods,
		AllowHeaders:     headers,
		ExposeHeaders:    expose,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
}

// health reports ok while the database answers a ping.
func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			middleware.LoggerFrom(c).Error().Err(err).Msg("health: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

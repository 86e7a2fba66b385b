package routes

import (
	"cafe-api/handlers"
	"cafe-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the engine with the middleware chain and every route
func NewRouter(h *handlers.Handler, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Metrics(),
		middleware.CORS(corsOrigins),
	)
	r.SetHTMLTemplate(handlers.Templates())
	SetupRoutes(r, h)
	return r
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	// ── Pages & ops ────────────────────────────────────────────────
	r.GET("/", h.Home)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ── Read ───────────────────────────────────────────────────────
	r.GET("/random", h.RandomCafe)
	r.GET("/search", h.SearchCafes)
	r.GET("/all", h.AllCafes)

	// ── Write ──────────────────────────────────────────────────────
	r.POST("/add", h.AddCafe)
	r.POST("/add/excel", h.ImportCafes)
	r.PUT("/update-price/:id", h.UpdatePrice)
	r.PATCH("/update-price/:id", h.UpdatePrice)
	r.DELETE("/report-closed/:id", h.ReportClosed)
}

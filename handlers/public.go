package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"cafe-api/logging"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded HTML templates for gin's renderer
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type endpoint struct {
	Method      string
	Path        string
	Description string
}

var endpoints = []endpoint{
	{http.MethodGet, "/random", "A random cafe"},
	{http.MethodGet, "/all", "Every cafe"},
	{http.MethodGet, "/search?loc=<location>", "Cafes at an exact location"},
	{http.MethodPost, "/add", "Add a cafe (form fields: name, map_url, img_url, loc, seats, toilet, wifi, sockets, calls, coffee_price)"},
	{http.MethodPost, "/add/excel", "Bulk import cafes from an .xlsx upload (field: file)"},
	{http.MethodPut, "/update-price/<id>?new_price=<price>", "Change the coffee price of a cafe"},
	{http.MethodDelete, "/report-closed/<id>?api-key=<key>", "Remove a closed cafe"},
}

// Home renders the landing page
func (h *Handler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Endpoints": endpoints})
}

// Health reports database reachability and the number of cafes
func (h *Handler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.cafes.Ping(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unreachable"})
		return
	}
	n, err := h.cafes.Count(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Cafe API",
		"cafes":   n,
	})
}

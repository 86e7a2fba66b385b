package handlers

import (
	"context"
	"net/http"
	"strconv"

	"cafe-api/logging"
	"cafe-api/models"
	"cafe-api/store"

	"github.com/gin-gonic/gin"
)

// CafeStore is the persistence the handlers depend on
type CafeStore interface {
	ListAll(ctx context.Context) ([]models.Cafe, error)
	FindByLocation(ctx context.Context, location string) ([]models.Cafe, error)
	FindByID(ctx context.Context, id uint) (*models.Cafe, error)
	Random(ctx context.Context) (*models.Cafe, error)
	Create(ctx context.Context, cafe *models.Cafe) error
	CreateBatch(ctx context.Context, cafes []models.Cafe) (store.BatchResult, error)
	UpdatePrice(ctx context.Context, id uint, price *string) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// KeyVerifier checks the shared secret sent with destructive requests
type KeyVerifier interface {
	Verify(presented string) bool
}

// Handler serves every cafe route. It holds no per-request state.
type Handler struct {
	cafes CafeStore
	keys  KeyVerifier
}

func New(cafes CafeStore, keys KeyVerifier) *Handler {
	return &Handler{cafes: cafes, keys: keys}
}

const cafeNotFoundMsg = "Sorry, a cafe with that id was not found in the database"

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"Not Found": msg}})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"Bad Request": msg}})
}

func conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"Conflict": msg}})
}

func forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"error": msg})
}

// internalError logs err with the request ID and hides it from the client
func internalError(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	logging.Ctx(c.Request.Context()).Error().Err(err).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"Internal Server Error": msg}})
}

// cafeID parses the :id path parameter. Ids that cannot exist are reported
// as not found, the same as unknown ones.
func cafeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

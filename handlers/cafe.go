package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"cafe-api/metrics"
	"cafe-api/models"
	"cafe-api/store"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RandomCafe returns one cafe chosen uniformly at random
func (h *Handler) RandomCafe(c *gin.Context) {
	cafe, err := h.cafes.Random(c.Request.Context())
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "Sorry, there are no cafes in the database.")
		return
	}
	if err != nil {
		internalError(c, err, "Failed to fetch a random cafe")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cafe": cafe.ToMap()})
}

// SearchCafes lists cafes whose location equals ?loc= exactly
func (h *Handler) SearchCafes(c *gin.Context) {
	cafes, err := h.cafes.FindByLocation(c.Request.Context(), c.Query("loc"))
	if err != nil {
		internalError(c, err, "Failed to search cafes")
		return
	}
	if len(cafes) == 0 {
		notFound(c, "No cafes found at this location")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cafes": models.CafesToMaps(cafes)})
}

// AllCafes lists every cafe
func (h *Handler) AllCafes(c *gin.Context) {
	cafes, err := h.cafes.ListAll(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to list cafes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cafes": models.CafesToMaps(cafes)})
}

// AddCafeForm mirrors the form fields accepted by POST /add. Amenity flags
// are raw strings and go through models.ParseFlag.
type AddCafeForm struct {
	Name        string  `form:"name" binding:"required"`
	MapURL      string  `form:"map_url" binding:"required"`
	ImgURL      string  `form:"img_url" binding:"required"`
	Location    string  `form:"loc" binding:"required"`
	Seats       string  `form:"seats" binding:"required"`
	Sockets     string  `form:"sockets"`
	Toilet      string  `form:"toilet"`
	Wifi        string  `form:"wifi"`
	Calls       string  `form:"calls"`
	CoffeePrice *string `form:"coffee_price"`
}

// trim strips surrounding whitespace from the required text fields, the
// same way spreadsheet cells are read on import.
func (f *AddCafeForm) trim() {
	for _, v := range []*string{&f.Name, &f.MapURL, &f.ImgURL, &f.Location, &f.Seats} {
		*v = strings.TrimSpace(*v)
	}
}

func (f *AddCafeForm) toCafe() models.Cafe {
	return models.Cafe{
		Name:         f.Name,
		MapURL:       f.MapURL,
		ImgURL:       f.ImgURL,
		Location:     f.Location,
		Seats:        f.Seats,
		HasSockets:   models.ParseFlag(f.Sockets),
		HasToilet:    models.ParseFlag(f.Toilet),
		HasWifi:      models.ParseFlag(f.Wifi),
		CanTakeCalls: models.ParseFlag(f.Calls),
		CoffeePrice:  optional(f.CoffeePrice),
	}
}

// AddCafe creates a cafe from form input
func (h *Handler) AddCafe(c *gin.Context) {
	var form AddCafeForm
	err := c.ShouldBind(&form)
	if err == nil {
		// whitespace-only values pass "required"; check again once trimmed
		form.trim()
		err = binding.Validator.ValidateStruct(&form)
	}
	if err != nil {
		metrics.RecordMutation("create", "invalid")
		badRequest(c, bindingMessage(err))
		return
	}

	cafe := form.toCafe()
	err = h.cafes.Create(c.Request.Context(), &cafe)
	if errors.Is(err, store.ErrDuplicateName) {
		metrics.RecordMutation("create", "conflict")
		conflict(c, fmt.Sprintf("A cafe named %q already exists.", cafe.Name))
		return
	}
	if err != nil {
		metrics.RecordMutation("create", "error")
		internalError(c, err, "Failed to add the cafe")
		return
	}

	metrics.RecordMutation("create", "ok")
	c.JSON(http.StatusOK, gin.H{
		"response": gin.H{"success": "Successfully added the new cafe."},
		"cafe":     cafe.ToMap(),
	})
}

// UpdatePrice replaces the coffee price of one cafe with ?new_price=.
// An empty new_price clears it.
func (h *Handler) UpdatePrice(c *gin.Context) {
	id, ok := cafeID(c)
	if !ok {
		notFound(c, cafeNotFoundMsg)
		return
	}
	raw, ok := c.GetQuery("new_price")
	if !ok {
		metrics.RecordMutation("update_price", "invalid")
		badRequest(c, "new_price is required")
		return
	}

	err := h.cafes.UpdatePrice(c.Request.Context(), id, optional(&raw))
	if errors.Is(err, store.ErrNotFound) {
		metrics.RecordMutation("update_price", "not_found")
		notFound(c, cafeNotFoundMsg)
		return
	}
	if err != nil {
		metrics.RecordMutation("update_price", "error")
		internalError(c, err, "Failed to update the price")
		return
	}
	metrics.RecordMutation("update_price", "ok")
	c.JSON(http.StatusOK, gin.H{"success": "Successfully updated the price"})
}

// ReportClosed deletes a cafe. The id is checked before the api-key so an
// unknown id is a 404 whatever key was sent.
func (h *Handler) ReportClosed(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := cafeID(c)
	if !ok {
		notFound(c, cafeNotFoundMsg)
		return
	}
	if _, err := h.cafes.FindByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(c, cafeNotFoundMsg)
			return
		}
		internalError(c, err, "Failed to look up the cafe")
		return
	}

	if !h.keys.Verify(c.Query("api-key")) {
		metrics.RecordMutation("delete", "forbidden")
		forbidden(c, "Sorry, that's not allowed. Make sure you have the correct api_key.")
		return
	}

	err := h.cafes.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, cafeNotFoundMsg)
		return
	}
	if err != nil {
		metrics.RecordMutation("delete", "error")
		internalError(c, err, "Failed to delete the cafe")
		return
	}
	metrics.RecordMutation("delete", "ok")
	c.JSON(http.StatusOK, gin.H{"success": "Cafe deleted"})
}

// optional turns an absent or blank value into nil
func optional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

var addCafeFormType = reflect.TypeOf(AddCafeForm{})

// bindingMessage turns a binding error into "<form field> is required"
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if f, ok := addCafeFormType.FieldByName(fe.StructField()); ok {
			name = f.Tag.Get("form")
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, name+" is required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", name, fe.Tag()))
		}
	}
	return strings.Join(msgs, ", ")
}

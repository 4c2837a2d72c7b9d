package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"clinic-directory/internal/models"
	"clinic-directory/internal/repository"
	"clinic-directory/internal/service"

	"github.com/gin-gonic/gin"
)

const adminResultLimit = 2000

// AdminService covers directory reads plus every admin mutation.
type AdminService interface {
	Search(ctx context.Context, view, query string, limit int) ([]models.Clinic, error)
	Get(ctx context.Context, id int64) (*models.Clinic, error)
	Create(ctx context.Context, c *models.Clinic) (int64, error)
	Update(ctx context.Context, c *models.Clinic) error
	Delete(ctx context.Context, id int64) error
	Regeocode(ctx context.Context, id int64) (*models.Coordinates, error)
	BulkImport(ctx context.Context, raw, defaultKind string) (created, updated, skipped int, err error)
}

// AdminHandler handles the authenticated admin surface.
type AdminHandler struct {
	service AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

type clinicRequest struct {
	Kind    string   `json:"kind"`
	Name    string   `json:"name" binding:"required"`
	Address string   `json:"address" binding:"required"`
	City    string   `json:"city"`
	Phone   string   `json:"phone"`
	Website string   `json:"website"`
	Notes   string   `json:"notes"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

func (r *clinicRequest) toModel() models.Clinic {
	return models.Clinic{
		Kind:    r.Kind,
		Name:    r.Name,
		Address: r.Address,
		City:    r.City,
		Phone:   r.Phone,
		Website: r.Website,
		Notes:   r.Notes,
		Lat:     r.Lat,
		Lon:     r.Lon,
	}
}

func clinicID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clinic id"})
		return 0, false
	}
	return id, true
}

// List handles GET /admin/clinics.
func (h *AdminHandler) List(c *gin.Context) {
	view := c.DefaultQuery("view", "all")
	query := c.Query("q")

	clinics, err := h.service.Search(c.Request.Context(), view, query, adminResultLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clinics": clinics})
}

// Get handles GET /admin/clinics/:id.
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := clinicID(c)
	if !ok {
		return
	}
	clinic, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "clinic not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, clinic)
}

// Create handles POST /admin/clinics.
func (h *AdminHandler) Create(c *gin.Context) {
	var req clinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	clinic := req.toModel()
	id, err := h.service.Create(c.Request.Context(), &clinic)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Update handles PUT /admin/clinics/:id.
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := clinicID(c)
	if !ok {
		return
	}
	var req clinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	clinic := req.toModel()
	clinic.ID = id
	if err := h.service.Update(c.Request.Context(), &clinic); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "clinic not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Delete handles DELETE /admin/clinics/:id.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := clinicID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "clinic not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Geocode handles POST /admin/clinics/:id/geocode. The result is persisted
// only when the address resolves; an unresolvable address reports ok=false
// with no partial update.
func (h *AdminHandler) Geocode(c *gin.Context) {
	id, ok := clinicID(c)
	if !ok {
		return
	}
	coords, err := h.service.Regeocode(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "clinic not found"})
		case errors.Is(err, service.ErrUnresolvedAddress):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "lat": coords.Lat, "lon": coords.Lon})
}

type importRequest struct {
	Raw         string `json:"raw" binding:"required"`
	DefaultKind string `json:"default_kind"`
}

// Import handles POST /admin/import with a raw pipe-delimited clinic list.
func (h *AdminHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, updated, skipped, err := h.service.BulkImport(c.Request.Context(), req.Raw, req.DefaultKind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created, "updated": updated, "skipped": skipped})
}

// Package handler exposes the clinic directory and lead intake over HTTP.
package handler

import (
	"context"
	"net/http"

	"clinic-directory/internal/models"

	"github.com/gin-gonic/gin"
)

// There is no pagination cursor; listings are capped and callers needing
// more raise the limit.
const publicResultLimit = 2000

// ClinicSearcher serves filtered directory reads.
type ClinicSearcher interface {
	Search(ctx context.Context, view, query string, limit int) ([]models.Clinic, error)
}

// ClinicsHandler handles the public directory read API.
type ClinicsHandler struct {
	service ClinicSearcher
}

// NewClinicsHandler creates a new public directory handler.
func NewClinicsHandler(svc ClinicSearcher) *ClinicsHandler {
	return &ClinicsHandler{service: svc}
}

// List handles GET /api/clinics requests. The view parameter selects all,
// ambassadors or authorized clinics; q narrows by free text.
func (h *ClinicsHandler) List(c *gin.Context) {
	view := c.DefaultQuery("view", "all")
	query := c.Query("q")

	clinics, err := h.service.Search(c.Request.Context(), view, query, publicResultLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clinics": clinics})
}

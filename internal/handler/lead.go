package handler

import (
	"context"
	"errors"
	"net/http"

	"clinic-directory/internal/service"

	"github.com/gin-gonic/gin"
)

// LeadSubmitter stores contact-form submissions.
type LeadSubmitter interface {
	Submit(ctx context.Context, name, email, phone, message string) (int64, error)
}

// LeadHandler handles contact-form submissions.
type LeadHandler struct {
	service LeadSubmitter
}

// NewLeadHandler creates a new lead handler.
func NewLeadHandler(svc LeadSubmitter) *LeadHandler {
	return &LeadHandler{service: svc}
}

// Submit handles POST /lead requests with form fields name, email, phone and
// message.
func (h *LeadHandler) Submit(c *gin.Context) {
	id, err := h.service.Submit(
		c.Request.Context(),
		c.PostForm("name"),
		c.PostForm("email"),
		c.PostForm("phone"),
		c.PostForm("message"),
	)
	if err != nil {
		if errors.Is(err, service.ErrNoContact) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide an email or a phone number"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

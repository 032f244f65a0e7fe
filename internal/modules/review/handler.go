package review

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homeclean/internal/modules/auth"
	"homeclean/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/me/reviews", h.Mine)
	protected.GET("/users/:id/reviews", h.ForUser)
}

func (h *Handler) Mine(c *gin.Context) {
	summary, err := h.service.Mine(c.Request.Context(), auth.SessionFrom(c.Request.Context()))
	h.respond(c, summary, err)
}

func (h *Handler) ForUser(c *gin.Context) {
	summary, err := h.service.SummaryFor(c.Request.Context(), c.Param("id"))
	h.respond(c, summary, err)
}

func (h *Handler) respond(c *gin.Context, summary *Summary, err error) {
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, summary)
	case errors.Is(err, ErrUnauthorized):
		response.Unauthorized(c, "User not authenticated")
	case errors.Is(err, ErrInvalidRequest):
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid user id")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "REVIEWS_FAILED", "Failed to load reviews")
	}
}

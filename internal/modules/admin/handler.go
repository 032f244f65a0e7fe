package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homeclean/internal/pkg/response"
	"homeclean/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group already restricted to admins.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/promo-codes", h.ListPromos)
	admin.POST("/promo-codes", h.CreatePromo)
	admin.PATCH("/promo-codes/:id", h.SetPromoActive)

	admin.GET("/settings/platform", h.GetPlatformSettings)
	admin.PUT("/settings/platform", h.UpdatePlatformSettings)
}

func (h *Handler) ListPromos(c *gin.Context) {
	list, err := h.service.ListPromos(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"promoCodes": list})
}

func (h *Handler) CreatePromo(c *gin.Context) {
	var req CreatePromoRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.service.CreatePromo(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"promoCode": p})
}

func (h *Handler) SetPromoActive(c *gin.Context) {
	var req SetPromoActiveRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.service.SetPromoActive(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"promoCode": p})
}

func (h *Handler) GetPlatformSettings(c *gin.Context) {
	s, err := h.service.GetPlatformSettings(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": s})
}

func (h *Handler) UpdatePlatformSettings(c *gin.Context) {
	var req PlatformSettingsRequest
	if !bind(c, &req) {
		return
	}
	s, err := h.service.UpdatePlatformSettings(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": s})
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Promo code not found")
	case errors.Is(err, ErrCodeTaken):
		response.Error(c, http.StatusConflict, "CODE_TAKEN", "An active promo with this code exists")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "ADMIN_FAILED", "Failed to process request")
	}
}

package cleaner

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homeclean/internal/modules/auth"
	"homeclean/internal/pkg/response"
	"homeclean/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(cleaners *gin.RouterGroup) {
	profile := cleaners.Group("/cleaners/me")
	{
		profile.GET("", h.GetMe)
		profile.PUT("", h.Upsert)
		profile.PATCH("/status", h.SetStatus)
	}
}

func (h *Handler) GetMe(c *gin.Context) {
	profile, err := h.service.GetMyProfile(c.Request.Context(), auth.SessionFrom(c.Request.Context()))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	profile, err := h.service.UpsertProfile(c.Request.Context(), auth.SessionFrom(c.Request.Context()), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

func (h *Handler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	profile, err := h.service.SetStatus(c.Request.Context(), auth.SessionFrom(c.Request.Context()), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		response.Unauthorized(c, "User not authenticated")
	case errors.Is(err, ErrForbidden):
		response.Forbidden(c, "Only cleaners have profiles")
	case errors.Is(err, ErrProfileNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Cleaner profile not found")
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidRadius):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "PROFILE_FAILED", "Failed to process cleaner profile")
	}
}

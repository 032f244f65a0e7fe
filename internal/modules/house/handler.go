package house

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

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	houses := protected.Group("/houses")
	{
		houses.POST("", h.Add)
		houses.GET("", h.ListMine)
	}
}

func (h *Handler) Add(c *gin.Context) {
	var req AddHouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	house, err := h.service.AddHouse(c.Request.Context(), auth.SessionFrom(c.Request.Context()), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"house": house})
}

func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.service.ListMyHouses(c.Request.Context(), auth.SessionFrom(c.Request.Context()))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"houses": list})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		response.Unauthorized(c, "User not authenticated")
	case errors.Is(err, ErrForbidden):
		response.Forbidden(c, "Only customers can add houses")
	case errors.Is(err, ErrInvalidGeo):
		response.Error(c, http.StatusBadRequest, "INVALID_LOCATION", "Provide both lat and lng within range")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "HOUSE_FAILED", "Failed to process house")
	}
}

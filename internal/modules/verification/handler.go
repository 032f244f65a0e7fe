package verification

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homeclean/internal/domain"
	"homeclean/internal/modules/auth"
	"homeclean/internal/pkg/response"
	"homeclean/internal/pkg/validator"
)

type VerifyCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/bookings/:id/verification")
	{
		g.POST("/codes", h.GenerateCodes)
		g.POST("/verify", h.VerifyCode)
		g.POST("/start", h.Start)
	}
}

// GenerateCodes returns only the caller's own code; the other party's code is the
// one they have to type in.
func (h *Handler) GenerateCodes(c *gin.Context) {
	session, ok := h.party(c)
	if !ok {
		return
	}

	codes, applied, err := h.service.GenerateVerificationCodes(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !applied {
		response.Applied(c, false, nil)
		return
	}

	mine := codes.CustomerCode
	if session.Role == domain.RoleCleaner {
		mine = codes.CleanerCode
	}
	response.Applied(c, true, gin.H{"code": mine})
}

func (h *Handler) VerifyCode(c *gin.Context) {
	session, ok := h.party(c)
	if !ok {
		return
	}

	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	matched, err := h.service.VerifyJobCode(ctx, id, session.Role, req.Code)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !matched {
		response.Success(c, http.StatusOK, gin.H{"verified": false, "started": false})
		return
	}

	started, err := h.service.CheckVerificationAndStart(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verified": true, "started": started})
}

func (h *Handler) Start(c *gin.Context) {
	if _, ok := h.party(c); !ok {
		return
	}
	started, err := h.service.CheckVerificationAndStart(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Applied(c, started, nil)
}

// party resolves the session and checks it belongs to the booking in the path.
func (h *Handler) party(c *gin.Context) (*auth.Session, bool) {
	session := auth.SessionFrom(c.Request.Context())
	if session == nil {
		h.fail(c, ErrUnauthorized)
		return nil, false
	}
	b, err := h.service.Booking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	switch {
	case session.Role == domain.RoleCustomer && b.CustomerID == session.UserID:
	case session.Role == domain.RoleCleaner && b.CleanerUserID == session.UserID:
	default:
		h.fail(c, ErrForbidden)
		return nil, false
	}
	return session, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		response.Unauthorized(c, "User not authenticated")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Forbidden(c, "Not a party to this booking")
	case errors.Is(err, ErrInvalidCode):
		response.Error(c, http.StatusBadRequest, "INVALID_CODE", "Code must be exactly 4 digits")
	case errors.Is(err, ErrInvalidRole):
		response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "Role must be customer or cleaner")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "VERIFICATION_FAILED", "Failed to process verification")
	}
}

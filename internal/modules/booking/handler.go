package booking

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
	bookings := protected.Group("/bookings")
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.ListMine)
		bookings.GET("/:id", h.Get)
		bookings.POST("/:id/accept", h.Accept)
		bookings.POST("/:id/submit", h.Submit)
		bookings.POST("/:id/approve", h.Approve)
		bookings.POST("/:id/rate-customer", h.RateCustomer)
		bookings.POST("/:id/cancel", h.Cancel)
		bookings.POST("/:id/dispute", h.Dispute)
	}
	protected.GET("/jobs/open", h.ListOpenJobs)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if !bind(c, &req) {
		return
	}

	b, offers, err := h.service.CreateBooking(c.Request.Context(), auth.SessionFrom(c.Request.Context()), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b, "offers_sent": offers})
}

func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.service.ListMyBookings(c.Request.Context(), auth.SessionFrom(c.Request.Context()))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) ListOpenJobs(c *gin.Context) {
	list, err := h.service.ListOpenJobs(c.Request.Context(), auth.SessionFrom(c.Request.Context()))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jobs": list})
}

func (h *Handler) Get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), auth.SessionFrom(c.Request.Context()), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Accept(c *gin.Context) {
	applied, err := h.service.AcceptJob(c.Request.Context(), auth.SessionFrom(c.Request.Context()), c.Param("id"))
	h.applied(c, applied, err)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitJobRequest
	if !bind(c, &req) {
		return
	}
	applied, err := h.service.SubmitJobForApproval(c.Request.Context(), auth.SessionFrom(c.Request.Context()),
		c.Param("id"), req.Note, req.Photos)
	h.applied(c, applied, err)
}

func (h *Handler) Approve(c *gin.Context) {
	var req RatingRequest
	if !bind(c, &req) {
		return
	}
	applied, err := h.service.ApproveJob(c.Request.Context(), auth.SessionFrom(c.Request.Context()),
		c.Param("id"), req.Rating, req.Comment)
	h.applied(c, applied, err)
}

func (h *Handler) RateCustomer(c *gin.Context) {
	var req RatingRequest
	if !bind(c, &req) {
		return
	}
	applied, err := h.service.RateCustomer(c.Request.Context(), auth.SessionFrom(c.Request.Context()),
		c.Param("id"), req.Rating, req.Comment)
	h.applied(c, applied, err)
}

func (h *Handler) Cancel(c *gin.Context) {
	var req ReasonRequest
	if !bind(c, &req) {
		return
	}
	applied, err := h.service.CancelBooking(c.Request.Context(), auth.SessionFrom(c.Request.Context()), c.Param("id"), req.Reason)
	h.applied(c, applied, err)
}

func (h *Handler) Dispute(c *gin.Context) {
	var req ReasonRequest
	if !bind(c, &req) {
		return
	}
	applied, err := h.service.DisputeBooking(c.Request.Context(), auth.SessionFrom(c.Request.Context()), c.Param("id"), req.Reason)
	h.applied(c, applied, err)
}

func (h *Handler) applied(c *gin.Context, applied bool, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Applied(c, applied, nil)
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
	case errors.Is(err, ErrUnauthorized):
		response.Unauthorized(c, "User not authenticated")
	case errors.Is(err, ErrForbidden):
		response.Forbidden(c, "Not allowed for this booking")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrHouseNotFound):
		response.Error(c, http.StatusNotFound, "HOUSE_NOT_FOUND", "House not found")
	case errors.Is(err, ErrNoCleanerProfile):
		response.Error(c, http.StatusPreconditionFailed, "NO_CLEANER_PROFILE", "Create a cleaner profile first")
	case errors.Is(err, ErrInvalidPromo):
		response.Error(c, http.StatusBadRequest, "INVALID_PROMO", "Promo code is not valid")
	case errors.Is(err, ErrInvalidRating):
		response.Error(c, http.StatusBadRequest, "INVALID_RATING", "Rating must be between 1 and 5")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "BOOKING_FAILED", "Failed to process booking")
	}
}

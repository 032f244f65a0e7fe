package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"homeclean/internal/modules/auth"
	"homeclean/internal/pkg/response"
	"homeclean/internal/pkg/validator"
)

type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewHandler(service *Service, hub *Hub, checkOrigin func(r *http.Request) bool, log *zap.Logger) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: log,
	}
}

// RegisterRoutes registers chat routes under the protected group.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/bookings/:id/messages", h.GetMessages)
	protected.POST("/bookings/:id/messages", h.SendMessage)
}

// RegisterStreamRoutes mounts the live message socket: GET /ws/chat?token=…
func (h *Handler) RegisterStreamRoutes(ws *gin.RouterGroup) {
	ws.GET("/chat", h.Connect)
}

func (h *Handler) GetMessages(c *gin.Context) {
	session := auth.SessionFrom(c.Request.Context())
	msgs, err := h.service.ListMessages(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]*MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, ToMessageResponse(&msgs[i], session.UserID))
	}
	response.Success(c, http.StatusOK, gin.H{"messages": out})
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	session := auth.SessionFrom(c.Request.Context())
	msg, err := h.service.SendMessage(c.Request.Context(), session, c.Param("id"), req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": ToMessageResponse(msg, session.UserID)})
}

func (h *Handler) Connect(c *gin.Context) {
	session := auth.SessionFrom(c.Request.Context())
	if session == nil {
		h.fail(c, ErrUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.String("user_id", session.UserID), zap.Error(err))
		return
	}

	client := h.hub.Register(session.UserID, conn)
	h.log.Debug("chat connected", zap.String("user_id", session.UserID))
	h.hub.serve(session.UserID, client)
	h.log.Debug("chat disconnected", zap.String("user_id", session.UserID))
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		response.Unauthorized(c, "User not authenticated")
	case errors.Is(err, ErrNotParticipant):
		response.Forbidden(c, "Not a party to this booking")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrNoCounterpart):
		response.Error(c, http.StatusConflict, "NO_CLEANER", "Chat opens once a cleaner accepts the booking")
	case errors.Is(err, ErrEmptyContent):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Message cannot be empty")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "CHAT_ERROR", "Failed to process message")
	}
}

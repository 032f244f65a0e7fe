package tracking

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"homeclean/internal/domain"
	"homeclean/internal/modules/auth"
	"homeclean/internal/pkg/response"
	"homeclean/internal/pkg/validator"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

type Handler struct {
	service  *Service
	watcher  *Watcher
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler builds the tracking handler. checkOrigin decides which websocket
// origins are accepted; nil accepts all.
func NewHandler(service *Service, watcher *Watcher, checkOrigin func(r *http.Request) bool, log *zap.Logger) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		service: service,
		watcher: watcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: log,
	}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/bookings/:id/tracking", h.Get)
	protected.POST("/bookings/:id/tracking", h.Update)
}

// RegisterStreamRoutes mounts the websocket stream. The group's auth middleware
// must accept the token as a query parameter.
func (h *Handler) RegisterStreamRoutes(ws *gin.RouterGroup) {
	ws.GET("/bookings/:id/tracking", h.Stream)
}

func (h *Handler) Get(c *gin.Context) {
	b, ok := h.party(c, "")
	if !ok {
		return
	}
	view := b.RedactedFor(auth.SessionFrom(c.Request.Context()).Role)
	response.Success(c, http.StatusOK, gin.H{"booking": view})
}

func (h *Handler) Update(c *gin.Context) {
	if _, ok := h.party(c, domain.RoleCleaner); !ok {
		return
	}

	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(patch); errs != nil {
		response.ValidationFailed(c, errs)
		return
	}

	applied, err := h.service.UpdateBookingTracking(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Applied(c, applied, nil)
}

// Stream pushes tracking updates over a websocket until the booking leaves the
// trip phase or the client goes away.
func (h *Handler) Stream(c *gin.Context) {
	if _, ok := h.party(c, ""); !ok {
		return
	}
	bookingID := c.Param("id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.String("booking_id", bookingID), zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.readPump(conn, cancel)

	updates := h.watcher.Watch(ctx, bookingID)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case u, ok := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "tracking finished"))
				return
			}
			if err := conn.WriteJSON(u); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// readPump only exists to process pongs and notice the client closing.
func (h *Handler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("tracking stream closed", zap.Error(err))
			}
			return
		}
	}
}

// party loads the booking and checks the session is its customer or assigned
// cleaner. A non-empty role pins which side it must be.
func (h *Handler) party(c *gin.Context, role domain.UserRole) (*domain.Booking, bool) {
	session := auth.SessionFrom(c.Request.Context())
	if session == nil {
		h.fail(c, ErrUnauthorized)
		return nil, false
	}
	b, err := h.service.GetBookingWithTracking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if b == nil {
		h.fail(c, ErrBookingNotFound)
		return nil, false
	}

	isCustomer := session.Is(domain.RoleCustomer) && b.CustomerID == session.UserID
	isCleaner := session.Is(domain.RoleCleaner) && b.CleanerUserID == session.UserID
	allowed := isCustomer || isCleaner
	switch role {
	case domain.RoleCustomer:
		allowed = isCustomer
	case domain.RoleCleaner:
		allowed = isCleaner
	}
	if !allowed {
		h.fail(c, ErrForbidden)
		return nil, false
	}
	return b, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		response.Unauthorized(c, "User not authenticated")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Forbidden(c, "Not a party to this booking")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "TRACKING_FAILED", "Failed to process tracking")
	}
}

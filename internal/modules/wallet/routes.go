package wallet

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	wallets := rg.Group("/wallets")
	{
		wallets.GET("/me", h.GetMyWallet)
	}
}

func (h *Handler) GetMyWallet(c *gin.Context) {
	w, err := h.service.GetMyWallet(c.Request.Context(), auth.SessionFrom(c.Request.Context()))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Unauthorized(c, "User not authenticated")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "WALLET_FAILED", "Failed to load wallet")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"wallet": w})
}

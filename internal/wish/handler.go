package wish

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elskow/naviwish/internal/api"
	"github.com/elskow/naviwish/internal/auth"
)

const (
	msgInvalidRequest = "Solicitud inválida."
	msgEmptyWish      = "El deseo está vacío."
	msgServerError    = "Error en servidor."
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

type addRequest struct {
	Wish string `json:"wish"`
}

type deleteRequest struct {
	ID *uint `json:"id"`
}

// Response is the JSON representation of a wish.
type Response struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Wish      string `json:"wish"`
	CreatedAt string `json:"created_at"`
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

// Add stores a wish for the authenticated identity. Replies 200 with an
// empty body.
func (h *Handler) Add(c *gin.Context) {
	owner, err := auth.GetUserFromContext(c.Request.Context())
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req addRequest
	if err := api.DecodeJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgInvalidRequest})
		return
	}

	if _, err := h.service.Add(c.Request.Context(), owner, req.Wish); err != nil {
		if errors.Is(err, ErrEmptyWish) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgEmptyWish})
			return
		}
		h.log.Error("failed to add wish", zap.String("name", owner), zap.Error(err))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgServerError})
		return
	}

	c.Status(http.StatusOK)
}

// Delete removes one of the authenticated identity's wishes. Ids that do
// not exist or belong to someone else are ignored.
func (h *Handler) Delete(c *gin.Context) {
	owner, err := auth.GetUserFromContext(c.Request.Context())
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req deleteRequest
	if err := api.DecodeJSON(c, &req); err != nil || req.ID == nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgInvalidRequest})
		return
	}

	if err := h.service.Delete(c.Request.Context(), *req.ID, owner); err != nil {
		h.log.Error("failed to delete wish", zap.String("name", owner), zap.Uint("id", *req.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgServerError})
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handler) List(c *gin.Context) {
	wishes, err := h.service.List(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list wishes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgServerError})
		return
	}

	resp := make([]Response, 0, len(wishes))
	for _, w := range wishes {
		resp = append(resp, toResponse(w))
	}

	c.JSON(http.StatusOK, resp)
}

func toResponse(w Wish) Response {
	return Response{
		ID:        w.ID,
		Name:      w.Name,
		Wish:      w.Text,
		CreatedAt: w.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

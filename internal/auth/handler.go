package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elskow/naviwish/internal/api"
	"github.com/elskow/naviwish/internal/config"
	"github.com/elskow/naviwish/internal/sanitize"
)

const (
	msgMissingData   = "Faltan datos."
	msgNotAllowed    = "Nombre no autorizado."
	msgServerError   = "Error en servidor."
	msgLocked        = "BLOQUEADO."
	msgLockedFor     = "BLOQUEADO. Intenta en %d min."
	msgWrongCode     = "ERROR %d/%d"
	msgSessionExpiry = "Sesión expirada"
)

type Handler struct {
	service  *Service
	log      *zap.Logger
	maxInput int
}

type loginRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Name    string `json:"name"`
}

type refusalResponse struct {
	Error  string `json:"error"`
	Locked bool   `json:"locked"`
}

func NewHandler(service *Service, log *zap.Logger, cfg *config.AuthConfig) *Handler {
	return &Handler{
		service:  service,
		log:      log,
		maxInput: cfg.MaxInputLength,
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := api.DecodeJSON(c, &req); err != nil {
		h.log.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgMissingData})
		return
	}

	name := sanitize.Upper(req.Name, h.maxInput)
	code := sanitize.Upper(req.Code, h.maxInput)

	session, err := h.service.Login(c.Request.Context(), name, code)
	if err != nil {
		h.writeLoginError(c, name, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Token:   session.Token,
		Name:    session.Name,
	})
}

func (h *Handler) writeLoginError(c *gin.Context, name string, err error) {
	var refusal *RefusalError
	switch {
	case errors.Is(err, ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgMissingData})
	case errors.Is(err, ErrNameNotAllowed):
		h.log.Warn("login for name outside allow-list", zap.String("name", name))
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: msgNotAllowed})
	case errors.As(err, &refusal):
		h.log.Warn("login refused", zap.String("name", name), zap.Error(err))
		c.JSON(http.StatusForbidden, refusalResponse{
			Error:  refusalMessage(refusal),
			Locked: refusal.Locked,
		})
	default:
		h.log.Error("login failed", zap.String("name", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgServerError})
	}
}

func refusalMessage(e *RefusalError) string {
	switch {
	case e.Attempt == 0:
		return fmt.Sprintf(msgLockedFor, RemainingMinutes(e.Remaining))
	case e.Locked:
		return msgLocked
	default:
		return fmt.Sprintf(msgWrongCode, e.Attempt, e.MaxAttempts)
	}
}

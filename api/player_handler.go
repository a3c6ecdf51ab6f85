package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emiliano-diaz/commerce-api/internal/backup"
)

// playerHandler serves inventory backups keyed by player nick.
type playerHandler struct {
	service *backup.Service
	logger  *zap.Logger
}

// NewPlayerHandler creates a new player data handler.
func NewPlayerHandler(service *backup.Service, logger *zap.Logger) *playerHandler {
	return &playerHandler{
		service: service,
		logger:  logger,
	}
}

func (h *playerHandler) respondError(c *gin.Context, err error, nick string) {
	switch {
	case errors.Is(err, backup.ErrInvalidKey):
		fail(c, http.StatusBadRequest, "INVALID_NICK", "nick is required")
	case errors.Is(err, backup.ErrInvalidData):
		fail(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, backup.ErrNotFound):
		fail(c, http.StatusNotFound, "NOT_FOUND", "Player data not found")
	default:
		h.logger.Error("player data operation failed", zap.String("nick", nick), zap.Error(err))
		fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

func (h *playerHandler) handleList(c *gin.Context) {
	all, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	ok(c, http.StatusOK, all, "")
}

func (h *playerHandler) handleLoad(c *gin.Context) {
	nick := c.Param("nick")
	data, err := h.service.Load(c.Request.Context(), nick)
	if err != nil {
		h.respondError(c, err, nick)
		return
	}
	ok(c, http.StatusOK, data, "")
}

func (h *playerHandler) handleSave(c *gin.Context) {
	nick := c.Param("nick")
	if _, err := backup.NormalizeKey(nick); err != nil {
		h.respondError(c, err, nick)
		return
	}

	var req struct {
		ID        string                 `json:"id" binding:"required"`
		Nick      string                 `json:"nick" binding:"required"`
		Inventory []backup.InventoryItem `json:"inventory" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_DATA", "required fields: id, nick, inventory")
		return
	}

	data, err := backup.NewPlayerData(req.ID, req.Nick, req.Inventory)
	if err != nil {
		h.respondError(c, err, nick)
		return
	}
	saved, err := h.service.Save(c.Request.Context(), nick, data)
	if err != nil {
		h.respondError(c, err, nick)
		return
	}
	ok(c, http.StatusOK, saved, "Player data saved successfully")
}

func (h *playerHandler) handleDelete(c *gin.Context) {
	nick := c.Param("nick")
	if err := h.service.Delete(c.Request.Context(), nick); err != nil {
		h.respondError(c, err, nick)
		return
	}
	ok(c, http.StatusOK, nil, "Player data deleted successfully")
}

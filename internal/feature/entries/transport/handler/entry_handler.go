// Package handler provides the HTTP handlers of the entries feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"slambook_backend/internal/feature/entries/domain/entity"
	"slambook_backend/internal/feature/entries/transport/http/dto"
	"slambook_backend/internal/feature/entries/usecase"
	jwtmw "slambook_backend/internal/platform/jwt"
)

// EntryUsecase defines the entry operations the handler depends on.
// Following Go convention, the interface is defined by its consumer.
type EntryUsecase interface {
	List(ctx context.Context, ownerID string, skip, limit int) ([]*entity.Entry, error)
	Get(ctx context.Context, ownerID, id string) (*entity.Entry, error)
	Create(ctx context.Context, ownerID string, fields entity.Fields) (*entity.Entry, error)
	Update(ctx context.Context, ownerID, id string, fields entity.Fields) (*entity.Entry, error)
	Delete(ctx context.Context, ownerID, id string) error
	ToggleFavorite(ctx context.Context, ownerID, id string) (*entity.Entry, error)
	Statistics(ctx context.Context, ownerID string) (*entity.Statistics, error)
}

// EntryHandler serves the /entries routes.
// Every route is expected to be registered behind jwtmw.AuthRequired.
type EntryHandler struct {
	entries EntryUsecase
}

// NewEntryHandler creates an EntryHandler.
func NewEntryHandler(entries EntryUsecase) *EntryHandler {
	return &EntryHandler{entries: entries}
}

// List handles GET /entries?skip=&limit=.
func (h *EntryHandler) List(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	entries, err := h.entries.List(c.Request.Context(), owner, q.Skip, q.Limit)
	if err != nil {
		writeError(c, err, owner, actionAccess)
		return
	}
	c.JSON(http.StatusOK, dto.NewEntryListRes(entries))
}

// Get handles GET /entries/:id.
func (h *EntryHandler) Get(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	e, err := h.entries.Get(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		writeError(c, err, owner, actionAccess)
		return
	}
	c.JSON(http.StatusOK, dto.NewEntryRes(e))
}

// Create handles POST /entries.
func (h *EntryHandler) Create(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.EntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("entry validation failed", "error", err, "user_id", owner)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	e, err := h.entries.Create(c.Request.Context(), owner, req.Fields())
	if err != nil {
		writeError(c, err, owner, actionAccess)
		return
	}
	c.JSON(http.StatusCreated, dto.NewEntryRes(e))
}

// Update handles PUT /entries/:id.
func (h *EntryHandler) Update(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.EntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("entry validation failed", "error", err, "user_id", owner)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	e, err := h.entries.Update(c.Request.Context(), owner, c.Param("id"), req.Fields())
	if err != nil {
		writeError(c, err, owner, actionUpdate)
		return
	}
	c.JSON(http.StatusOK, dto.NewEntryRes(e))
}

// Delete handles DELETE /entries/:id.
func (h *EntryHandler) Delete(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.entries.Delete(c.Request.Context(), owner, c.Param("id")); err != nil {
		writeError(c, err, owner, actionDelete)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleFavorite handles PATCH /entries/:id/favorite.
func (h *EntryHandler) ToggleFavorite(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	e, err := h.entries.ToggleFavorite(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		writeError(c, err, owner, actionModify)
		return
	}
	c.JSON(http.StatusOK, dto.NewEntryRes(e))
}

// Statistics handles GET /entries/stats/statistics.
func (h *EntryHandler) Statistics(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	stats, err := h.entries.Statistics(c.Request.Context(), owner)
	if err != nil {
		writeError(c, err, owner, actionAccess)
		return
	}
	c.JSON(http.StatusOK, dto.NewStatisticsRes(stats))
}

func currentUserID(c *gin.Context) (string, bool) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return "", false
	}
	return user.ID, true
}

// Verbs used in the 403 detail of each operation.
const (
	actionAccess = "access"
	actionUpdate = "update"
	actionDelete = "delete"
	actionModify = "modify"
)

// writeError maps usecase errors to status codes. Unknown errors are logged
// and reported without detail.
func writeError(c *gin.Context, err error, owner, action string) {
	switch {
	case errors.Is(err, usecase.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Entry not found"})
	case errors.Is(err, usecase.ErrForbidden):
		slog.Warn("entry access denied", "user_id", owner, "entry_id", c.Param("id"), "action", action, "remote_addr", c.ClientIP())
		c.JSON(http.StatusForbidden, gin.H{"detail": "Not authorized to " + action + " this entry"})
	default:
		slog.Error("entry request failed", "error", err, "user_id", owner, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}

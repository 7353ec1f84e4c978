package handler

import (
	"github.com/gin-gonic/gin"

	"doccompare/internal/service"
)

// RemoteSetHandler handles provider-owned document set endpoints.
type RemoteSetHandler struct {
	remoteSetService service.RemoteSetService
	sessionService   service.SessionService
}

// NewRemoteSetHandler creates a new RemoteSetHandler.
func NewRemoteSetHandler(remoteSetService service.RemoteSetService, sessionService service.SessionService) *RemoteSetHandler {
	return &RemoteSetHandler{remoteSetService: remoteSetService, sessionService: sessionService}
}

// ListDocuments handles GET /api/v1/remote-sets/:id/documents
func (h *RemoteSetHandler) ListDocuments(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	docs, err := h.remoteSetService.ListDocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, docs)
}

// History handles GET /api/v1/remote-sets/history
func (h *RemoteSetHandler) History(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	items, err := h.sessionService.RemoteSetHistory(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, items)
}

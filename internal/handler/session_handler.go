package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"doccompare/internal/service"
)

// SessionHandler handles analysis history endpoints.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	sessions, total, err := h.sessionService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, sessions, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/sessions/:id
func (h *SessionHandler) GetByID(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	session, err := h.sessionService.GetByID(c.Request.Context(), userID, sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, session)
}

// ExportXLSX handles GET /api/v1/sessions/:id/export
func (h *SessionHandler) ExportXLSX(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	file, err := h.sessionService.ExportXLSX(c.Request.Context(), userID, sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendExport(c, file)
}

// ExportCSV handles GET /api/v1/sessions/export
func (h *SessionHandler) ExportCSV(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	file, err := h.sessionService.ExportCSV(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendExport(c, file)
}

func sendExport(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"doccompare/internal/service"
)

// DocumentHandler handles uploaded document endpoints.
type DocumentHandler struct {
	uploadService service.UploadService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(uploadService service.UploadService) *DocumentHandler {
	return &DocumentHandler{uploadService: uploadService}
}

// Upload handles POST /api/v1/documents/upload
// Form fields: file (required), group_id (required), document_type, description.
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	groupID, err := uuid.Parse(c.PostForm("group_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "group_id is required")
		return
	}

	doc, err := h.uploadService.Upload(c.Request.Context(), &service.UploadDocumentInput{
		UserID:       userID,
		GroupID:      groupID,
		DocumentType: c.PostForm("document_type"),
		Description:  c.PostForm("description"),
		File:         file,
		Header:       header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.uploadService.Delete(c.Request.Context(), userID, docID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "document deleted"})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"doccompare/internal/service"
)

// GroupHandler handles document group endpoints.
type GroupHandler struct {
	groupService  service.GroupService
	uploadService service.UploadService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService service.GroupService, uploadService service.UploadService) *GroupHandler {
	return &GroupHandler{groupService: groupService, uploadService: uploadService}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// List handles GET /api/v1/document-groups
func (h *GroupHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	groups, err := h.groupService.List(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, groups)
}

// GetByID handles GET /api/v1/document-groups/:id
func (h *GroupHandler) GetByID(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	group, err := h.groupService.GetByID(c.Request.Context(), userID, groupID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, group)
}

// Create handles POST /api/v1/document-groups
func (h *GroupHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body: "+err.Error())
		return
	}
	group, err := h.groupService.Create(c.Request.Context(), &service.CreateGroupInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, group)
}

// Update handles PUT /api/v1/document-groups/:id
func (h *GroupHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body: "+err.Error())
		return
	}
	group, err := h.groupService.Update(c.Request.Context(), &service.UpdateGroupInput{
		UserID:      userID,
		GroupID:     groupID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, group)
}

// Delete handles DELETE /api/v1/document-groups/:id
func (h *GroupHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.groupService.Delete(c.Request.Context(), userID, groupID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "document group deleted"})
}

// ListDocuments handles GET /api/v1/document-groups/:id/documents
func (h *GroupHandler) ListDocuments(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	docs, err := h.uploadService.ListByGroup(c.Request.Context(), userID, groupID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, docs)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"doccompare/internal/service"
)

// RuleHandler handles comparison rule endpoints.
type RuleHandler struct {
	ruleService service.RuleService
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(ruleService service.RuleService) *RuleHandler {
	return &RuleHandler{ruleService: ruleService}
}

type createRuleRequest struct {
	Name                   string   `json:"name"`
	Description            string   `json:"description"`
	ExtractionFields       []string `json:"extraction_fields"`
	ComparisonInstructions string   `json:"comparison_instructions"`
	CriticalChecks         []string `json:"critical_checks"`
}

type updateRuleRequest struct {
	Name                   *string  `json:"name"`
	Description            *string  `json:"description"`
	ExtractionFields       []string `json:"extraction_fields"`
	ComparisonInstructions *string  `json:"comparison_instructions"`
	CriticalChecks         []string `json:"critical_checks"`
}

// List handles GET /api/v1/rules
func (h *RuleHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	rules, err := h.ruleService.List(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rules)
}

// GetByID handles GET /api/v1/rules/:id
func (h *RuleHandler) GetByID(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	ruleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rule, err := h.ruleService.GetByID(c.Request.Context(), userID, ruleID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rule)
}

// Create handles POST /api/v1/rules
func (h *RuleHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req createRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body: "+err.Error())
		return
	}

	rule, err := h.ruleService.Create(c.Request.Context(), &service.CreateRuleInput{
		UserID:                 userID,
		Name:                   req.Name,
		Description:            req.Description,
		ExtractionFields:       req.ExtractionFields,
		ComparisonInstructions: req.ComparisonInstructions,
		CriticalChecks:         req.CriticalChecks,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, rule)
}

// Update handles PUT /api/v1/rules/:id
func (h *RuleHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	ruleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body: "+err.Error())
		return
	}

	rule, err := h.ruleService.Update(c.Request.Context(), &service.UpdateRuleInput{
		UserID:                 userID,
		RuleID:                 ruleID,
		Name:                   req.Name,
		Description:            req.Description,
		ExtractionFields:       req.ExtractionFields,
		ComparisonInstructions: req.ComparisonInstructions,
		CriticalChecks:         req.CriticalChecks,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rule)
}

// Delete handles DELETE /api/v1/rules/:id
func (h *RuleHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	ruleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ruleService.Delete(c.Request.Context(), userID, ruleID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "rule deleted"})
}

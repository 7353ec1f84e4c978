package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"doccompare/internal/domain"
	"doccompare/internal/service"
)

// AnalysisHandler handles document comparison requests.
type AnalysisHandler struct {
	analysisService service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

type analyzeRequest struct {
	Mode             string             `json:"mode"`
	QuotationID      string             `json:"quotation_id"`
	GroupID          string             `json:"group_id"`
	DocumentIDs      []string           `json:"document_ids"`
	RuleID           string             `json:"rule_id"`
	RuleInstructions *domain.InlineRule `json:"rule_instructions"`
}

type analyzeResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Summary   string    `json:"summary"`
	*domain.AnalysisResults
}

// Analyze handles POST /api/v1/analyses
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body: "+err.Error())
		return
	}

	input := &service.AnalyzeInput{
		UserID:      userID,
		Mode:        domain.AnalysisMode(strings.ToLower(strings.TrimSpace(req.Mode))),
		RemoteSetID: strings.TrimSpace(req.QuotationID),
		DocumentIDs: req.DocumentIDs,
	}
	if req.GroupID != "" {
		groupID, err := uuid.Parse(req.GroupID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group_id")
			return
		}
		input.GroupID = groupID
	}

	// Inline instructions take precedence, so rule_id is only read without them.
	var ruleID *uuid.UUID
	inlineGiven := req.RuleInstructions != nil && strings.TrimSpace(req.RuleInstructions.ComparisonInstructions) != ""
	if req.RuleID != "" && !inlineGiven {
		id, err := uuid.Parse(req.RuleID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid rule_id")
			return
		}
		ruleID = &id
	}
	src, err := domain.NewRuleSource(ruleID, req.RuleInstructions)
	if err != nil {
		HandleError(c, err)
		return
	}
	input.RuleSource = src

	out, err := h.analysisService.Analyze(c.Request.Context(), input)
	if err != nil {
		var analysisErr *service.AnalysisError
		if errors.As(err, &analysisErr) {
			respondAnalysisError(c, analysisErr)
			return
		}
		HandleError(c, err)
		return
	}

	RespondOK(c, analyzeResponse{SessionID: out.SessionID, Summary: out.Summary, AnalysisResults: out.Results})
}

// respondAnalysisError reports a failure that happened after the session was
// created. Caller-facing failures carry the message recorded on the session.
func respondAnalysisError(c *gin.Context, e *service.AnalysisError) {
	status, code, msg := MapDomainError(e.Err)
	var downloadErr *service.DownloadError
	if status < http.StatusInternalServerError || status == http.StatusBadGateway || errors.As(e.Err, &downloadErr) {
		msg = e.Err.Error()
	} else {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] analysis session %s: internal error: %v", requestID, e.SessionID, e.Err)
	}
	c.JSON(status, APIResponse{
		Success: false,
		Data:    gin.H{"session_id": e.SessionID},
		Error:   &APIError{Code: code, Message: msg},
	})
}

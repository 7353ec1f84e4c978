package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"doccompare/internal/domain"
	"doccompare/internal/port"
)

// Analyze sends one comparison request to the engine. It never retries.
// A transport failure is ErrEngineUnavailable; a non-2xx status or a body
// reporting success=false becomes an *EngineError.
func (c *Client) Analyze(ctx context.Context, in *port.AnalyzeRequest) (json.RawMessage, error) {
	bodyBytes, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.engineURL+analyzePath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}

	status, body, err := c.do(req)
	if err != nil {
		log.Printf("tracker.Analyze: calling analysis engine: %v", err)
		return nil, domain.ErrEngineUnavailable
	}

	if status < 200 || status > 299 {
		msg := errorField(body)
		if msg == "" {
			msg = fmt.Sprintf("Analysis failed (%d): %s", status, http.StatusText(status))
		}
		return nil, &EngineError{StatusCode: status, Message: msg}
	}

	var head struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &head); err == nil && head.Success != nil && !*head.Success {
		msg := head.Error
		if msg == "" {
			msg = "Analysis failed"
		}
		return nil, &EngineError{StatusCode: status, Message: msg}
	}

	return json.RawMessage(body), nil
}

package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"doccompare/internal/domain"
)

// ListDocuments returns every document the provider holds for setID.
func (c *Client) ListDocuments(ctx context.Context, setID string) ([]domain.RemoteDocument, error) {
	u := c.providerURL + listDocumentsPath + "?quotation_id=" + url.QueryEscape(setID)
	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	status, body, err := c.do(req)
	if err != nil {
		log.Printf("tracker.ListDocuments: set %s: %v", setID, err)
		return nil, domain.ErrProviderUnavailable
	}
	if status != http.StatusOK {
		log.Printf("tracker.ListDocuments: set %s: provider answered %d", setID, status)
		return nil, fmt.Errorf("%w: failed to fetch documents: %s",
			domain.ErrProviderUnavailable, http.StatusText(status))
	}

	var payload struct {
		Documents []domain.RemoteDocument `json:"documents"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Documents == nil {
		return nil, fmt.Errorf("invalid response format from provider: %w",
			domain.ErrMalformedUpstreamResponse)
	}
	return payload.Documents, nil
}

// GetSetDetails returns provider metadata for setID.
func (c *Client) GetSetDetails(ctx context.Context, setID string) (*domain.RemoteSetDetails, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.providerURL+setDetailsPath+url.PathEscape(setID), nil)
	if err != nil {
		return nil, err
	}

	status, body, err := c.do(req)
	if err != nil {
		log.Printf("tracker.GetSetDetails: set %s: %v", setID, err)
		return nil, domain.ErrProviderUnavailable
	}
	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("tracker.GetSetDetails: set %s: %w", setID, domain.ErrNotFound)
	case status != http.StatusOK:
		log.Printf("tracker.GetSetDetails: set %s: provider answered %d", setID, status)
		return nil, fmt.Errorf("%w: failed to fetch set details: %s",
			domain.ErrProviderUnavailable, http.StatusText(status))
	}

	var details domain.RemoteSetDetails
	if err := json.Unmarshal(body, &details); err != nil {
		log.Printf("tracker.GetSetDetails: set %s: decoding: %v", setID, err)
		return nil, fmt.Errorf("invalid set details from provider: %w", domain.ErrMalformedUpstreamResponse)
	}
	if details.SetID == "" {
		details.SetID = setID
	}
	return &details, nil
}

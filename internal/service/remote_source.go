package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"doccompare/internal/domain"
	"doccompare/internal/port"
)

var (
	companyInDescription = regexp.MustCompile(`(?i)company[:\s]+([^\n,]+)`)
	companyInFileName    = regexp.MustCompile(`([^-]+)-`)
)

// setDateLayouts are the date formats the provider has been seen to return.
var setDateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

type remoteSetSource struct {
	provider port.DocumentProvider
	cache    port.SetDetailsCache
	cacheTTL time.Duration
}

// NewRemoteSetSource creates the DocumentSource for provider-owned sets.
// cache may be nil.
func NewRemoteSetSource(provider port.DocumentProvider, cache port.SetDetailsCache, cacheTTL time.Duration) DocumentSource {
	return &remoteSetSource{provider: provider, cache: cache, cacheTTL: cacheTTL}
}

func (s *remoteSetSource) Mode() domain.AnalysisMode { return domain.AnalysisModeRemote }

// Summarize returns "<id> - <company> - <destination> - <Mon D, YYYY>" from
// provider metadata, falling back to the first document's company and then
// to the bare id.
func (s *remoteSetSource) Summarize(ctx context.Context, req *SourceRequest) string {
	setID := req.RemoteSetID

	details, err := s.setDetails(ctx, setID)
	if err == nil {
		parts := make([]string, 0, 3)
		for _, p := range []string{details.Company, details.Destination, formatSetDate(details.Date)} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			return setID
		}
		return setID + " - " + strings.Join(parts, " - ")
	}
	log.Printf("remoteSetSource.Summarize: set details for %s unavailable: %v", setID, err)

	docs, err := s.provider.ListDocuments(ctx, setID)
	if err != nil {
		log.Printf("remoteSetSource.Summarize: documents for %s unavailable: %v", setID, err)
		return setID
	}
	if len(docs) == 0 {
		return setID
	}
	if company := companyFromDocument(&docs[0]); company != "" {
		return setID + " - " + company
	}
	return setID
}

func (s *remoteSetSource) setDetails(ctx context.Context, setID string) (*domain.RemoteSetDetails, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, setID)
		if err != nil {
			log.Printf("remoteSetSource.setDetails: cache get %s: %v", setID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	details, err := s.provider.GetSetDetails(ctx, setID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, fmt.Errorf("set %s: %w", setID, domain.ErrNotFound)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, details, s.cacheTTL); err != nil {
			log.Printf("remoteSetSource.setDetails: cache set %s: %v", setID, err)
		}
	}
	return details, nil
}

// ResolveDocuments forwards references for the requested documents the
// provider knows about. The full requested id list is forwarded unchanged;
// ids the provider does not list are not rejected here.
func (s *remoteSetSource) ResolveDocuments(ctx context.Context, req *SourceRequest) (*DocumentSet, error) {
	docs, err := s.provider.ListDocuments(ctx, req.RemoteSetID)
	if err != nil {
		return nil, asUpstreamError(err)
	}

	byID := make(map[string]*domain.RemoteDocument, len(docs))
	for i := range docs {
		byID[docs[i].ID] = &docs[i]
	}

	refs := make([]port.DocumentReference, 0, len(req.DocumentIDs))
	for _, id := range req.DocumentIDs {
		d, ok := byID[id]
		if !ok {
			continue
		}
		refs = append(refs, port.DocumentReference{
			ID:           d.ID,
			FileName:     d.FileName,
			FileURL:      d.FileURL,
			DocumentType: d.DocumentType,
		})
	}
	if missing := len(req.DocumentIDs) - len(refs); missing > 0 {
		log.Printf("remoteSetSource.ResolveDocuments: set %s: %d requested documents not listed by provider", req.RemoteSetID, missing)
	}

	return &DocumentSet{
		Mode:        domain.AnalysisModeRemote,
		DocumentIDs: append([]string(nil), req.DocumentIDs...),
		References:  refs,
	}, nil
}

func companyFromDocument(d *domain.RemoteDocument) string {
	if m := companyInDescription.FindStringSubmatch(d.Description); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := companyInFileName.FindStringSubmatch(d.FileName); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// formatSetDate renders a provider date as "Jan 2, 2006". Unparseable dates
// are dropped.
func formatSetDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range setDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return ""
}

// asUpstreamError makes sure a provider failure carries ErrUpstreamUnavailable
// unless it already names a more specific upstream category.
func asUpstreamError(err error) error {
	if errors.Is(err, domain.ErrUpstreamUnavailable) || errors.Is(err, domain.ErrMalformedUpstreamResponse) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
}

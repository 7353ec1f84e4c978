package tracker_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doccompare/internal/config"
	"doccompare/internal/domain"
	"doccompare/internal/port"
	"doccompare/internal/tracker"
)

func newTestClient(serverURL string) *tracker.Client {
	return tracker.NewClient(&config.TrackerConfig{
		ProviderURL: serverURL,
		EngineURL:   serverURL,
		APIKey:      "test-key",
		TimeoutSecs: 5,
	})
}

func TestClient_ListDocuments_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/document-comparison/list-documents", r.URL.Path)
		assert.Equal(t, "QT 1", r.URL.Query().Get("quotation_id"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"documents":[{"id":"D3","quotation_id":"QT 1","file_name":"invoice.pdf","file_url":"https://files/D3"}]}`))
	}))
	defer server.Close()

	docs, err := newTestClient(server.URL).ListDocuments(context.Background(), "QT 1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "D3", docs[0].ID)
	assert.Equal(t, "https://files/D3", docs[0].FileURL)
}

func TestClient_ListDocuments_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListDocuments(context.Background(), "QT-1")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestClient_ListDocuments_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).ListDocuments(context.Background(), "QT-1")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, "document provider unavailable", err.Error())
	assert.NotContains(t, err.Error(), url)
}

func TestClient_GetSetDetails_UnreachableHidesTransportDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).GetSetDetails(context.Background(), "QT-1")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.NotContains(t, err.Error(), url)
	assert.NotContains(t, err.Error(), "dial")
}

func TestClient_ListDocuments_InvalidFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListDocuments(context.Background(), "QT-1")
	assert.ErrorIs(t, err, domain.ErrMalformedUpstreamResponse)
}

func TestClient_GetSetDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/quotation-details/QT-1":
			_, _ = w.Write([]byte(`{"company":"ABC Company","destination":"Thailand","date":"2024-01-15"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()
	c := newTestClient(server.URL)

	details, err := c.GetSetDetails(context.Background(), "QT-1")
	require.NoError(t, err)
	assert.Equal(t, "QT-1", details.SetID)
	assert.Equal(t, "ABC Company", details.Company)
	assert.Equal(t, "Thailand", details.Destination)

	_, err = c.GetSetDetails(context.Background(), "QT-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_Analyze_Success(t *testing.T) {
	userID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/document-comparison/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "uploaded", body["analysis_mode"])
		assert.Equal(t, userID.String(), body["user_id"])
		docs := body["documents"].([]interface{})
		if assert.Len(t, docs, 1) {
			assert.Equal(t, "aGVsbG8=", docs[0].(map[string]interface{})["content"])
		}
		rule := body["rule"].(map[string]interface{})
		assert.Equal(t, "compare totals", rule["comparison_instructions"])

		_, _ = w.Write([]byte(`{"success":true,"results":[{"document_id":"D1"}]}`))
	}))
	defer server.Close()

	raw, err := newTestClient(server.URL).Analyze(context.Background(), &port.AnalyzeRequest{
		Mode:        domain.AnalysisModeUploaded,
		DocumentIDs: []string{"D1"},
		Documents:   []port.EncodedDocument{{ID: "D1", FileName: "a.pdf", MimeType: "application/pdf", Content: "aGVsbG8="}},
		Rule:        port.RulePayload{ComparisonInstructions: "compare totals"},
		UserID:      userID,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"results":[{"document_id":"D1"}]}`, string(raw))
}

func TestClient_Analyze_ErrorBodyMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"rule has no critical checks"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Analyze(context.Background(), &port.AnalyzeRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAnalysisFailed)
	assert.Equal(t, "rule has no critical checks", err.Error())

	var engineErr *tracker.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, http.StatusUnprocessableEntity, engineErr.StatusCode)
}

func TestClient_Analyze_GenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>boom</html>`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Analyze(context.Background(), &port.AnalyzeRequest{})
	assert.ErrorIs(t, err, domain.ErrAnalysisFailed)
	assert.Equal(t, "Analysis failed (500): Internal Server Error", err.Error())
}

func TestClient_Analyze_SuccessFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"documents unreadable"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Analyze(context.Background(), &port.AnalyzeRequest{})
	assert.ErrorIs(t, err, domain.ErrAnalysisFailed)
	assert.Equal(t, "documents unreadable", err.Error())
}

func TestClient_Analyze_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Analyze(context.Background(), &port.AnalyzeRequest{})
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.NotErrorIs(t, err, domain.ErrAnalysisFailed)
	assert.Equal(t, "analysis engine unavailable", err.Error())
}

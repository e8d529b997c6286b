package searchapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"doc-scout/config"
)

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.Config{SearchAPIURL: srv.URL}, zap.NewNop())
}

func TestQuery(t *testing.T) {
	var received Request
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"response": [{
				"content": "The quick brown fox",
				"highlight_words": ["fox"],
				"source": "https://example.com/doc",
				"title": "Doc",
				"doc_type": "research paper"
			}],
			"summary": "s",
			"summary_2x": "s2",
			"valid_sources": [{"title": "Doc", "url": "https://example.com/doc", "doc_type": "research paper"}],
			"invalid_sources": []
		}`))
	})

	resp, err := client.Query(context.Background(), "question",
		[]FileRef{{Name: "a.pdf", URL: "https://files.test/a.pdf"}})
	require.NoError(t, err)

	assert.Equal(t, "question", received.Message)
	require.Len(t, received.Files, 1)
	assert.Equal(t, "a.pdf", received.Files[0].Name)

	require.Len(t, resp.Response, 1)
	assert.Equal(t, []string{"fox"}, resp.Response[0].HighlightWords)
	require.NotNil(t, resp.Summary2x)
	assert.Equal(t, "s2", *resp.Summary2x)
	assert.Nil(t, resp.Summary3x)
}

func TestQuery_EmptyFilesSerializedAsArray(t *testing.T) {
	var raw map[string]json.RawMessage
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"response": [], "summary": ""}`))
	})

	_, err := client.Query(context.Background(), "q", nil)
	require.NoError(t, err)
	// Der Upstream-Service erwartet "files" immer als Array, nie null.
	assert.JSONEq(t, `[]`, string(raw["files"]))
}

func TestQuery_MissingResponseField(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"summary": "only a summary"}`))
	})

	_, err := client.Query(context.Background(), "q", nil)
	require.ErrorIs(t, err, ErrNoResult)
}

func TestQuery_UpstreamError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Query(context.Background(), "q", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResult)
}

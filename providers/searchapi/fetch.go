package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"doc-scout/config"

	"go.uber.org/zap"
)

// httpClient wird für alle Anfragen an den Search-Service verwendet.
// Die Suche inklusive Summarization kann dauern, daher der große Timeout.
var httpClient = &http.Client{Timeout: 120 * time.Second}

// ErrNoResult zeigt an, dass die Antwort des Services das erwartete
// Top-Level-Feld "response" nicht enthielt.
var ErrNoResult = errors.New("search service returned no result")

// Client kapselt die Interaktion mit dem Search-Service.
type Client struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewClient erstellt eine neue Instanz des Search-Clients.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{Config: cfg, Logger: logger}
}

// Query schickt die Anfrage mit den aufgelösten Datei-Referenzen an den
// Service und dekodiert die Antwort.
func (c *Client) Query(ctx context.Context, message string, files []FileRef) (*Response, error) {
	log := c.Logger.With(zap.Int("file_count", len(files)))

	if files == nil {
		files = []FileRef{}
	}
	body, err := json.Marshal(Request{Message: message, Files: files})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Config.SearchAPIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		log.Error("Search service request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("Search service returned non-OK status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("search service returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result Response
	if err := json.Unmarshal(raw, &result); err != nil {
		log.Error("Failed to decode search service response", zap.Error(err))
		return nil, err
	}

	if result.Response == nil {
		return nil, ErrNoResult
	}

	log.Info("Search service responded",
		zap.Int("result_count", len(result.Response)),
		zap.Int("valid_sources", len(result.ValidSources)),
		zap.Int("invalid_sources", len(result.InvalidSources)))

	return &result, nil
}

// Package rerank implements the client for the external relevance-scoring
// endpoint used by the wizard. Indexed catalog documents are scored against
// a taste-preference query and returned ordered by relevance.
//
// The wire shape follows the provider's v2 rerank API: the request carries
// the model name, the query, and the document texts; the response carries
// (index, relevance_score) pairs referring back to the submitted order.
package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Defaults for the scoring endpoint.
const (
	DefaultEndpoint = "https://api.cohere.com/v2/rerank"
	DefaultModel    = "rerank-english-v3.0"
)

// Document is one rankable item: the indexed text plus its category tag and
// the raw catalog row it came from.
type Document struct {
	ID   string
	Text string
	Type string
	Data string // raw catalog row JSON
}

// Result pairs a submitted document with its relevance score, ordered most
// relevant first.
type Result struct {
	Document Document
	Score    float64
}

// Config carries the credentials and endpoint for a Client.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// Client scores documents against a query. It is safe for concurrent use.
type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	model    string
}

// New constructs a Client, applying endpoint, model and timeout defaults.
func New(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		model:    model,
	}
}

// Rerank scores docs against query and returns every document ordered by
// descending relevance. An empty document set is the caller's error to
// catch; the provider rejects it.
func (c *Client) Rerank(ctx context.Context, query string, docs []Document) ([]Result, error) {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	payload, err := json.Marshal(map[string]any{
		"model":     c.model,
		"query":     query,
		"documents": texts,
		"top_n":     len(docs),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rerank request: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var out struct {
		Results []struct {
			Index          int     `json:"index"`
			RelevanceScore float64 `json:"relevance_score"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("rerank response: %w", err)
	}

	ranked := make([]Result, 0, len(out.Results))
	for _, r := range out.Results {
		if r.Index < 0 || r.Index >= len(docs) {
			return nil, fmt.Errorf("rerank response: index %d out of range", r.Index)
		}
		ranked = append(ranked, Result{Document: docs[r.Index], Score: r.RelevanceScore})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked, nil
}

// Package api implements the HTTP client for the remote brew service:
// single create and batch create, the two delivery operations the sync
// engine consumes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openbrew/brewlog/internal/models"
)

// TokenSource supplies the bearer token for outbound requests. A nil
// TokenSource sends unauthenticated requests.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// HTTPClient talks JSON to the brew backend. Server error bodies are
// surfaced verbatim in returned errors: the sync orchestrator classifies
// failures by the server's own words ("duplicate", "version conflict"),
// so flattening them here would break conflict detection.
type HTTPClient struct {
	baseURL   string
	http      *http.Client
	tokens    TokenSource
	validator *Validator
}

func NewHTTPClient(baseURL string, tokens TokenSource) (*HTTPClient, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	return &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		tokens:    tokens,
		validator: validator,
	}, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve access token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: %s: %s", http.MethodPost, path, resp.Status, strings.TrimSpace(string(b)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// CreateBrew submits one brew payload and returns the created record.
func (c *HTTPClient) CreateBrew(ctx context.Context, p models.BrewPayload) (*models.RemoteBrew, error) {
	if err := c.validator.Validate(p); err != nil {
		return nil, err
	}

	var created models.RemoteBrew
	if err := c.post(ctx, "/brews/", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateBrews submits payloads as one batch request. Batch failure is
// all-or-nothing at the transport level; the response carries no
// correlation back to the request entries.
func (c *HTTPClient) CreateBrews(ctx context.Context, ps []models.BrewPayload) ([]models.RemoteBrew, error) {
	for _, p := range ps {
		if err := c.validator.Validate(p); err != nil {
			return nil, err
		}
	}

	var created []models.RemoteBrew
	if err := c.post(ctx, "/brews/batch", ps, &created); err != nil {
		return nil, err
	}
	return created, nil
}

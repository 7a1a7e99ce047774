package connectivity

import (
	"context"
	"fmt"
	"net/http"
)

// Prober performs a minimal network round-trip. Any returned error is
// interpreted as offline.
type Prober interface {
	Probe(ctx context.Context) error
}

// HTTPProber issues a HEAD request against a lightweight, always-available
// resource. The response body is irrelevant; only reachability matters.
type HTTPProber struct {
	url    string
	client *http.Client
}

func NewHTTPProber(url string) *HTTPProber {
	return &HTTPProber{url: url, client: &http.Client{}}
}

func (p *HTTPProber) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("probe failed: %s", resp.Status)
	}
	return nil
}

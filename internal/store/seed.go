package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"storefront/internal/domain"
)

const DefaultSeedTimeout = 10 * time.Second

// SeedSource supplies the document used when durable storage is empty.
type SeedSource interface {
	Fetch(ctx context.Context) (*domain.Document, error)
}

type SeedFunc func(ctx context.Context) (*domain.Document, error)

func (f SeedFunc) Fetch(ctx context.Context) (*domain.Document, error) { return f(ctx) }

// HTTPSeed GETs a JSON document. Non-2xx status, undecodable body and
// exceeding Timeout all count as failure.
type HTTPSeed struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

func (h *HTTPSeed) Fetch(ctx context.Context) (*domain.Document, error) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultSeedTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch seed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch seed: %s", resp.Status)
	}
	var doc domain.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

type FileSeed struct{ Path string }

func (f FileSeed) Fetch(context.Context) (*domain.Document, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var doc domain.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", f.Path, err)
	}
	doc.Normalize()
	return &doc, nil
}

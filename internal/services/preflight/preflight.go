// Package preflight checks that the frontend under test answers before a
// browser is started. Its findings are advisory.
package preflight

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds the preflight request
const DefaultTimeout = 5 * time.Second

// Result describes the page served at the base URL
type Result struct {
	URL        string
	StatusCode int
	Title      string
	HasAppRoot bool // The single-page-app mount point (#root) is in the served HTML
}

// Check fetches baseURL and inspects the returned HTML. A nil client uses a
// client bounded by DefaultTimeout.
func Check(ctx context.Context, client *http.Client, baseURL string) (*Result, error) {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %s: %w", baseURL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("frontend not accessible at %s: %w", baseURL, err)
	}
	defer resp.Body.Close()

	result := &Result{URL: baseURL, StatusCode: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("frontend returned status %d (expected 200 OK)", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return result, fmt.Errorf("failed to parse frontend HTML: %w", err)
	}

	result.Title = strings.TrimSpace(doc.Find("title").First().Text())
	result.HasAppRoot = doc.Find("#root").Length() > 0
	return result, nil
}

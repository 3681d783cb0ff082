// Package callback delivers finished reports to the evaluation endpoint.
// Delivery is best-effort: a failure is logged and the report dropped, it
// never fails or delays the conversation that produced it.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/sushant-bot/HONEY-POT/pkg/httputil"
	"github.com/sushant-bot/HONEY-POT/pkg/report"
)

// Reporter delivers a final report somewhere.
type Reporter interface {
	Deliver(ctx context.Context, payload report.Payload) error
}

// HTTPReporter posts reports as JSON to a configured endpoint.
type HTTPReporter struct {
	client *http.Client
	url    string
	apiKey string
}

// LogReporter writes reports to the process log. Used when no callback
// URL is configured so reports are never silently lost.
type LogReporter struct{}

// New returns an HTTP reporter when a URL is configured, otherwise a log
// reporter.
func New(url, apiKey string) Reporter {
	if url == "" {
		return &LogReporter{}
	}
	return &HTTPReporter{
		client: httputil.Client(httputil.TierDeliver),
		url:    url,
		apiKey: apiKey,
	}
}

// Deliver posts the report. One attempt, no retry.
func (r *HTTPReporter) Deliver(ctx context.Context, payload report.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("callback: marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("callback: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("x-api-key", r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("callback: deliver report %s: %w", payload.ReportID, err)
	}
	defer httputil.DrainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := httputil.ReadErrorBody(resp.Body)
		return fmt.Errorf("callback: endpoint returned %d: %s", resp.StatusCode, string(errBody))
	}

	log.Printf("[CALLBACK] Report %s for session %s delivered (%d items, confidence %.2f)",
		payload.ReportID, payload.SessionID, payload.TotalItems, payload.AgentConfidence)
	return nil
}

// Deliver logs the report as JSON.
func (r *LogReporter) Deliver(_ context.Context, payload report.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("callback: marshal report: %w", err)
	}
	log.Printf("[CALLBACK] No callback URL configured, report %s: %s", payload.ReportID, string(body))
	return nil
}

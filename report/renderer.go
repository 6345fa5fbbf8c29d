// Package report integrates the external report-rendering collaborator
// that turns an analysis result into a downloadable PDF. Rendering is
// presentation only; core correctness never depends on it.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"
	"github.com/Trisha2910tinaaaaa/medsafe/interfaces"
)

// ServiceReportRenderer is the availability bookkeeping name of the
// rendering collaborator.
const ServiceReportRenderer = "report_renderer"

const renderTimeout = 30 * time.Second

// maxReportSize caps how much rendered output is read back (20MB).
const maxReportSize = 20 * 1024 * 1024

// RemoteRenderer posts the analysis result to the configured rendering
// service and returns the produced binary. It implements
// interfaces.ReportRenderer.
type RemoteRenderer struct {
	client *http.Client
	url    string
}

var _ interfaces.ReportRenderer = (*RemoteRenderer)(nil)

// NewRemoteRenderer creates a renderer client for the given service URL.
func NewRemoteRenderer(url string) *RemoteRenderer {
	return &RemoteRenderer{
		client: &http.Client{Timeout: renderTimeout},
		url:    url,
	}
}

// Configured reports whether a rendering service is set up.
func (r *RemoteRenderer) Configured() bool {
	return r.url != ""
}

// Render produces the report binary for an analysis result.
func (r *RemoteRenderer) Render(ctx context.Context, result entities.AnalysisResult) ([]byte, error) {
	if r.url == "" {
		return nil, fmt.Errorf("report rendering endpoint not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render call returned status %d", resp.StatusCode)
	}

	rendered, err := io.ReadAll(io.LimitReader(resp.Body, maxReportSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered report: %w", err)
	}
	if len(rendered) == 0 {
		return nil, fmt.Errorf("empty rendered report")
	}
	return rendered, nil
}

package report

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"
)

func TestRendererConfigured(t *testing.T) {
	if NewRemoteRenderer("").Configured() {
		t.Error("Empty URL must not count as configured")
	}
	if !NewRemoteRenderer("http://example.com/render").Configured() {
		t.Error("Non-empty URL must count as configured")
	}
}

func TestRenderSuccess(t *testing.T) {
	pdf := []byte("%PDF-1.4 rendered report")
	var gotResult entities.AnalysisResult

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON request, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotResult); err != nil {
			t.Errorf("Bad render payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	}))
	defer server.Close()

	renderer := NewRemoteRenderer(server.URL)
	rendered, err := renderer.Render(context.Background(), entities.AnalysisResult{ID: "abc-123"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.Equal(rendered, pdf) {
		t.Errorf("Rendered bytes differ from service response")
	}
	if gotResult.ID != "abc-123" {
		t.Errorf("Analysis ID not forwarded, got %q", gotResult.ID)
	}
}

func TestRenderNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	renderer := NewRemoteRenderer(server.URL)
	if _, err := renderer.Render(context.Background(), entities.AnalysisResult{}); err == nil {
		t.Error("Expected error on 502 response")
	}
}

func TestRenderEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	renderer := NewRemoteRenderer(server.URL)
	if _, err := renderer.Render(context.Background(), entities.AnalysisResult{}); err == nil {
		t.Error("Expected error on empty rendered body")
	}
}

func TestRenderUnconfigured(t *testing.T) {
	renderer := NewRemoteRenderer("")
	if _, err := renderer.Render(context.Background(), entities.AnalysisResult{}); err == nil {
		t.Error("Expected error for unconfigured endpoint")
	}
}

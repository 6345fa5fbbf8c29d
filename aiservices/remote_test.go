package aiservices

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Trisha2910tinaaaaa/medsafe/drugbank"
	"github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"
)

// stubStore is a minimal DrugStore carrying only probe state.
type stubStore struct {
	status map[string]bool
}

func (s *stubStore) GetRegistry() *drugbank.Registry    { return &drugbank.Registry{} }
func (s *stubStore) GetLoadedAt() time.Time             { return time.Time{} }
func (s *stubStore) GetServerStartTime() time.Time      { return time.Time{} }
func (s *stubStore) SetServerStartTime(time.Time)       {}
func (s *stubStore) GetServiceStatus() map[string]bool  { return s.status }
func (s *stubStore) SetServiceStatus(svc string, a bool) {
	if s.status == nil {
		s.status = map[string]bool{}
	}
	s.status[svc] = a
}

func TestSupportedTranslationLanguagesSorted(t *testing.T) {
	languages := SupportedTranslationLanguages()
	if len(languages) != 8 {
		t.Fatalf("Expected 8 supported languages, got %d", len(languages))
	}
	for i := 1; i < len(languages); i++ {
		if languages[i-1] >= languages[i] {
			t.Errorf("Languages not sorted: %v", languages)
		}
	}
	if languages[0] != "de" {
		t.Errorf("Expected de first, got %s", languages[0])
	}
}

func TestHFTranslatorSuccess(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]map[string]string{{"translation_text": "take aspirin twice daily"}})
	}))
	defer server.Close()

	translator := NewHFTranslator(server.URL, "test-key", nil)
	got, err := translator.Translate(context.Background(), "tomar aspirina dos veces al dia", "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "take aspirin twice daily" {
		t.Errorf("Unexpected translation: %q", got)
	}
	if !strings.HasSuffix(gotPath, "/Helsinki-NLP/opus-mt-es-en") {
		t.Errorf("Wrong model path: %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Wrong auth header: %s", gotAuth)
	}
}

func TestHFTranslatorUnsupportedLanguage(t *testing.T) {
	translator := NewHFTranslator("http://example.com", "", nil)
	got, err := translator.Translate(context.Background(), "some text", "sv")
	if err == nil {
		t.Fatal("Expected error for unsupported language")
	}
	if got != "some text" {
		t.Errorf("Expected original text back, got %q", got)
	}
}

func TestHFTranslatorRemoteFailureReturnsOriginal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	translator := NewHFTranslator(server.URL, "", nil)
	got, err := translator.Translate(context.Background(), "texto original", "es")
	if err == nil {
		t.Fatal("Expected error on 503 response")
	}
	if got != "texto original" {
		t.Errorf("Expected original text back, got %q", got)
	}
}

func TestHFTranslatorEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	translator := NewHFTranslator(server.URL, "", nil)
	got, err := translator.Translate(context.Background(), "texto", "es")
	if err == nil {
		t.Fatal("Expected error on empty response")
	}
	if got != "texto" {
		t.Errorf("Expected original text back, got %q", got)
	}
}

func TestHFTranslatorUnavailableService(t *testing.T) {
	store := &stubStore{status: map[string]bool{ServiceTranslation: false}}
	translator := NewHFTranslator("http://example.com", "", store)

	got, err := translator.Translate(context.Background(), "texto", "es")
	if err == nil {
		t.Fatal("Expected error when service marked unavailable")
	}
	if got != "texto" {
		t.Errorf("Expected original text back, got %q", got)
	}
}

func TestHFRecognizerSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"entity_group": "DRUG", "word": "aspirin", "score": 0.99},
			{"entity_group": "DRUG", "word": " warfarin ", "score": 0.97},
			{"entity_group": "DRUG", "word": "", "score": 0.5},
		})
	}))
	defer server.Close()

	recognizer := NewHFRecognizer(server.URL, "", nil)
	candidates, err := recognizer.Recognize(context.Background(), "aspirin and warfarin")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	want := []string{"aspirin", "warfarin"}
	if len(candidates) != len(want) {
		t.Fatalf("Expected %v, got %v", want, candidates)
	}
	for i := range want {
		if candidates[i] != want[i] {
			t.Errorf("Candidate %d: expected %q, got %q", i, want[i], candidates[i])
		}
	}
}

func TestHFRecognizerUnconfigured(t *testing.T) {
	recognizer := NewHFRecognizer("", "", nil)
	if _, err := recognizer.Recognize(context.Background(), "aspirin"); err == nil {
		t.Fatal("Expected error for unconfigured endpoint")
	}
}

func TestRemoteExplainerFallsBackWhenUnconfigured(t *testing.T) {
	explainer := NewRemoteExplainer("", "", nil)
	got := explainer.ExplainInteraction(context.Background(), sampleInteraction(entities.SeverityHigh))
	if !strings.HasPrefix(got, "HIGH RISK:") {
		t.Errorf("Expected template fallback, got %q", got)
	}
}

func TestRemoteExplainerFallsBackWhenUnavailable(t *testing.T) {
	store := &stubStore{status: map[string]bool{ServiceExplanation: false}}
	explainer := NewRemoteExplainer("http://example.com", "", store)

	got := explainer.ExplainInteraction(context.Background(), sampleInteraction(entities.SeverityLow))
	if !strings.HasPrefix(got, "LOW RISK:") {
		t.Errorf("Expected template fallback, got %q", got)
	}
}

func TestRemoteExplainerSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req inferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Bad request body: %v", err)
		}
		if !strings.Contains(req.Inputs, "Increased risk of bleeding") {
			t.Errorf("Prompt missing interaction description: %q", req.Inputs)
		}
		json.NewEncoder(w).Encode([]map[string]string{{"generated_text": "These two medicines can make you bleed more easily."}})
	}))
	defer server.Close()

	explainer := NewRemoteExplainer(server.URL, "", nil)
	got := explainer.ExplainInteraction(context.Background(), sampleInteraction(entities.SeverityHigh))
	if got != "These two medicines can make you bleed more easily." {
		t.Errorf("Unexpected explanation: %q", got)
	}
}

func TestRemoteExplainerFailureFallsBackToTemplate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	explainer := NewRemoteExplainer(server.URL, "", nil)
	got := explainer.ExplainInteraction(context.Background(), sampleInteraction(entities.SeverityMedium))
	if !strings.HasPrefix(got, "MEDIUM RISK:") {
		t.Errorf("Expected template fallback on 502, got %q", got)
	}
}

func TestRemoteExplainerDetailedSuccess(t *testing.T) {
	analysis := "Severity assessment provided.\nPatients should avoid combining these drugs.\nWe recommend INR monitoring."
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{{"generated_text": analysis}})
	}))
	defer server.Close()

	explainer := NewRemoteExplainer(server.URL, "", nil)
	detailed := explainer.ExplainDetailed(context.Background(), sampleInteraction(entities.SeverityHigh), &entities.PatientContext{Age: 40})

	if detailed.DetailedAnalysis != analysis {
		t.Errorf("Unexpected analysis: %q", detailed.DetailedAnalysis)
	}
	if detailed.Severity != entities.SeverityHigh {
		t.Errorf("Unexpected severity: %s", detailed.Severity)
	}
	if !strings.HasPrefix(detailed.PatientExplanation, "HIGH RISK:") {
		t.Errorf("Patient explanation should use the template: %q", detailed.PatientExplanation)
	}
	if len(detailed.Recommendations) != 2 {
		t.Errorf("Expected 2 extracted recommendations, got %v", detailed.Recommendations)
	}
}

func TestRemoteExplainerDetailedFailureFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"generated_text": ""}]`))
	}))
	defer server.Close()

	explainer := NewRemoteExplainer(server.URL, "", nil)
	detailed := explainer.ExplainDetailed(context.Background(), sampleInteraction(entities.SeverityMedium), nil)

	if !strings.Contains(detailed.DetailedAnalysis, "Severity assessment: MEDIUM RISK") {
		t.Errorf("Expected template detailed analysis, got %q", detailed.DetailedAnalysis)
	}
	if len(detailed.Recommendations) != 3 {
		t.Errorf("Expected default recommendations, got %v", detailed.Recommendations)
	}
}

func TestServiceAvailable(t *testing.T) {
	if !serviceAvailable(nil, ServiceNER) {
		t.Error("Nil store must count as available")
	}

	store := &stubStore{status: map[string]bool{}}
	if !serviceAvailable(store, ServiceNER) {
		t.Error("Unprobed service must count as available")
	}

	store.SetServiceStatus(ServiceNER, false)
	if serviceAvailable(store, ServiceNER) {
		t.Error("Probed-down service must count as unavailable")
	}

	store.SetServiceStatus(ServiceNER, true)
	if !serviceAvailable(store, ServiceNER) {
		t.Error("Probed-up service must count as available")
	}
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		want       bool
	}{
		{"ok", http.StatusOK, true},
		{"unauthorized still reachable", http.StatusUnauthorized, true},
		{"model loading still reachable", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, false},
		{"bad gateway", http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			if got := Probe(context.Background(), http.DefaultClient, server.URL); got != tt.want {
				t.Errorf("Probe(%d) = %v, want %v", tt.statusCode, got, tt.want)
			}
		})
	}
}

func TestProbeEmptyURL(t *testing.T) {
	if Probe(context.Background(), http.DefaultClient, "") {
		t.Error("Empty URL must not be reachable")
	}
}

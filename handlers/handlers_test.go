package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Trisha2910tinaaaaa/medsafe/aiservices"
	"github.com/Trisha2910tinaaaaa/medsafe/analyzer"
	"github.com/Trisha2910tinaaaaa/medsafe/data"
	"github.com/Trisha2910tinaaaaa/medsafe/document"
	"github.com/Trisha2910tinaaaaa/medsafe/drugbank"
	"github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"
	"github.com/Trisha2910tinaaaaa/medsafe/extraction"
	"github.com/Trisha2910tinaaaaa/medsafe/health"
	"github.com/Trisha2910tinaaaaa/medsafe/validation"
	"github.com/go-chi/chi/v5"
)

// stubRenderer satisfies interfaces.ReportRenderer for handler tests.
type stubRenderer struct {
	pdf []byte
	err error
}

func (s *stubRenderer) Render(context.Context, entities.AnalysisResult) ([]byte, error) {
	return s.pdf, s.err
}

func newTestHandler(renderer *stubRenderer) *Handler {
	store := data.NewDrugContainer()
	registry := drugbank.BuildRegistry()
	store.SetRegistry(registry)
	store.SetServerStartTime(time.Now().UTC())

	extractor := extraction.NewExtractor(registry, nil, nil)
	explainer := aiservices.NewTemplateExplainer()
	processor := document.NewProcessor(nil)
	a := analyzer.New(store, extractor, explainer, processor)

	if renderer == nil {
		renderer = &stubRenderer{pdf: []byte("%PDF-1.4")}
	}
	return NewHandler(store, a, renderer, validation.NewRequestValidator(), health.NewHealthChecker(store), 0)
}

func newTestRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/api/v1/analysis/interactions", h.CheckInteractions)
	r.Post("/api/v1/analysis/dosage", h.CheckDosage)
	r.Post("/api/v1/analysis/comprehensive", h.ComprehensiveAnalysis)
	r.Post("/api/v1/analysis/document", h.AnalyzeDocument)
	r.Post("/api/v1/reports", h.GenerateReport)
	r.Get("/api/v1/drugs", h.AvailableDrugs)
	r.Get("/api/v1/drugs/{drug}", h.DrugInformation)
	r.Get("/api/v1/languages", h.SupportedLanguages)
	r.Get("/health", h.HealthCheck)
	return r
}

func postJSON(t *testing.T, router chi.Router, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCheckInteractionsEndpoint(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	recorder := postJSON(t, router, "/api/v1/analysis/interactions",
		`{"text": "aspirin and warfarin daily"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response struct {
		Success      bool     `json:"success"`
		DrugsFound   []string `json:"drugs_found"`
		Interactions []struct {
			Severity   string `json:"severity"`
			AIAnalysis string `json:"ai_analysis"`
		} `json:"interactions"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !response.Success {
		t.Error("Expected success")
	}
	if len(response.DrugsFound) != 2 || len(response.Interactions) != 1 {
		t.Errorf("Unexpected result: drugs=%v interactions=%d", response.DrugsFound, len(response.Interactions))
	}
	if response.Interactions[0].Severity != "high" {
		t.Errorf("Expected high severity, got %s", response.Interactions[0].Severity)
	}
	if response.Interactions[0].AIAnalysis == "" {
		t.Error("Expected explanation attached")
	}
}

func TestCheckInteractionsEmptyText(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	recorder := postJSON(t, router, "/api/v1/analysis/interactions", `{"text": ""}`)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty text, got %d", recorder.Code)
	}
}

func TestCheckInteractionsInvalidJSON(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	recorder := postJSON(t, router, "/api/v1/analysis/interactions", `{"text": `)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid JSON, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("Errors must be JSON, got %s", ct)
	}
}

func TestCheckInteractionsUnknownField(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	recorder := postJSON(t, router, "/api/v1/analysis/interactions",
		`{"text": "aspirin", "prescripton": true}`)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown field, got %d", recorder.Code)
	}
}

func TestCheckDosageEndpoint(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	recorder := postJSON(t, router, "/api/v1/analysis/dosage",
		`{"text": "aspirin 325mg", "patient_age": 70, "renal_function": "moderate"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response struct {
		Success bool `json:"success"`
		Results []struct {
			Drug            string  `json:"drug"`
			AgeGroup        string  `json:"age_group"`
			RenalAdjustment float64 `json:"renal_adjustment"`
		} `json:"results"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(response.Results))
	}
	if response.Results[0].AgeGroup != "elderly" {
		t.Errorf("Expected elderly, got %s", response.Results[0].AgeGroup)
	}
	if response.Results[0].RenalAdjustment != 0.5 {
		t.Errorf("Expected renal adjustment 0.5, got %v", response.Results[0].RenalAdjustment)
	}
}

func TestCheckDosageDefaultsAge(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	recorder := postJSON(t, router, "/api/v1/analysis/dosage", `{"text": "aspirin"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var response struct {
		Results []struct {
			PatientAge int    `json:"patient_age"`
			AgeGroup   string `json:"age_group"`
		} `json:"results"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Results[0].PatientAge != 30 || response.Results[0].AgeGroup != "adult" {
		t.Errorf("Expected default adult age 30, got %+v", response.Results[0])
	}
}

func TestCheckDosageInvalidAge(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	recorder := postJSON(t, router, "/api/v1/analysis/dosage",
		`{"text": "aspirin", "patient_age": -1}`)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for negative age, got %d", recorder.Code)
	}
}

func TestComprehensiveEndpoint(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	recorder := postJSON(t, router, "/api/v1/analysis/comprehensive",
		`{"text": "aspirin and ibuprofen", "patient_age": 12}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response struct {
		Success  bool `json:"success"`
		Analysis struct {
			ID           string `json:"analysis_id"`
			DrugsFound   []string `json:"drugs_found"`
			Interactions []struct {
				PatientExplanation string `json:"patient_explanation"`
			} `json:"interactions"`
			Summary struct {
				TotalDrugs int `json:"total_drugs"`
				PatientAge int `json:"patient_age"`
			} `json:"summary"`
			DosageResults []struct {
				Drug              string   `json:"drug"`
				Contraindications []string `json:"contraindications"`
			} `json:"dosage_results"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !response.Success || response.Analysis.ID == "" {
		t.Error("Expected success with analysis ID")
	}
	if response.Analysis.Summary.TotalDrugs != 2 || response.Analysis.Summary.PatientAge != 12 {
		t.Errorf("Unexpected summary: %+v", response.Analysis.Summary)
	}
	for _, dosage := range response.Analysis.DosageResults {
		if dosage.Drug != "aspirin" {
			continue
		}
		found := false
		for _, c := range dosage.Contraindications {
			if c == "Reye syndrome risk" {
				found = true
			}
		}
		if !found {
			t.Errorf("Pediatric aspirin must warn about Reye syndrome: %v", dosage.Contraindications)
		}
	}
}

// multipartUpload builds a multipart body. CreateFormFile marks the part
// as application/octet-stream, so the MIME type is resolved from the
// file extension, same as a curl upload.
func multipartUpload(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		writer.WriteField(key, value)
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		part.Write(content)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestAnalyzeDocumentEndpoint(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	body, contentType := multipartUpload(t,
		map[string]string{"patient_age": "70", "renal_function": "severe"},
		"rx.txt",
		[]byte("Prescription: aspirin 325mg and warfarin 5mg"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/document", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response struct {
		Success  bool `json:"success"`
		Analysis struct {
			DrugsFound   []string `json:"drugs_found"`
			OriginalText string   `json:"original_text"`
			FileInfo     *struct {
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"file_info"`
			DosageResults []struct {
				RenalAdjustment float64 `json:"renal_adjustment"`
			} `json:"dosage_results"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Analysis.DrugsFound) != 2 {
		t.Errorf("Expected 2 drugs, got %v", response.Analysis.DrugsFound)
	}
	if response.Analysis.FileInfo == nil || response.Analysis.FileInfo.Name != "rx.txt" {
		t.Errorf("Missing file metadata: %+v", response.Analysis.FileInfo)
	}
	if response.Analysis.OriginalText == "" {
		t.Error("Expected extracted text echoed back")
	}
	for _, dosage := range response.Analysis.DosageResults {
		if dosage.RenalAdjustment != 0.25 {
			t.Errorf("Expected severe renal adjustment 0.25, got %v", dosage.RenalAdjustment)
		}
	}
}

func TestAnalyzeDocumentMissingFile(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	body, contentType := multipartUpload(t, map[string]string{"patient_age": "30"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/document", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing file, got %d", recorder.Code)
	}
}

func TestAnalyzeDocumentUnsupportedType(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	body, contentType := multipartUpload(t, nil, "archive.zip", []byte("PK"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/document", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unsupported type, got %d", recorder.Code)
	}
}

func TestGenerateReportEndpoint(t *testing.T) {
	pdf := []byte("%PDF-1.4 report")
	router := newTestRouter(newTestHandler(&stubRenderer{pdf: pdf}))

	recorder := postJSON(t, router, "/api/v1/reports",
		`{"analysis_id": "abc-123", "drugs_found": ["aspirin"]}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected PDF content type, got %s", ct)
	}
	if cd := recorder.Header().Get("Content-Disposition"); !strings.Contains(cd, "medsafe-report-abc-123.pdf") {
		t.Errorf("Unexpected disposition: %s", cd)
	}
	if !bytes.Equal(recorder.Body.Bytes(), pdf) {
		t.Error("Response body must be the rendered PDF")
	}
}

func TestGenerateReportMissingFields(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	recorder := postJSON(t, router, "/api/v1/reports", `{"analysis_id": "", "drugs_found": []}`)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for incomplete result, got %d", recorder.Code)
	}
}

func TestGenerateReportServiceDown(t *testing.T) {
	router := newTestRouter(newTestHandler(&stubRenderer{err: errors.New("render service down")}))

	recorder := postJSON(t, router, "/api/v1/reports",
		`{"analysis_id": "abc-123", "drugs_found": ["aspirin"]}`)
	if recorder.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 when rendering fails, got %d", recorder.Code)
	}
}

func TestDrugInformationEndpoint(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drugs/Aspirin", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var info entities.DrugInformation
	if err := json.Unmarshal(recorder.Body.Bytes(), &info); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if info.GenericName != "Acetylsalicylic Acid" {
		t.Errorf("Unexpected generic name: %s", info.GenericName)
	}
}

func TestDrugInformationNotFound(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drugs/warfarin", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for undocumented drug, got %d", recorder.Code)
	}
}

func TestAvailableDrugsEndpoint(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drugs", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var response struct {
		Drugs []string `json:"drugs"`
		Count int      `json:"count"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Count == 0 || response.Count != len(response.Drugs) {
		t.Errorf("Inconsistent drug list: count=%d len=%d", response.Count, len(response.Drugs))
	}
	for i := 1; i < len(response.Drugs); i++ {
		if response.Drugs[i-1] >= response.Drugs[i] {
			t.Errorf("Drug list must be sorted: %v", response.Drugs)
			break
		}
	}
}

func TestSupportedLanguagesEndpoint(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/languages", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var response struct {
		Languages []string `json:"languages"`
		Default   string   `json:"default"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Default != "en" {
		t.Errorf("Expected en default, got %s", response.Default)
	}
	if len(response.Languages) != 8 {
		t.Errorf("Expected 8 languages, got %v", response.Languages)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", response["status"])
	}
	if response["known_drugs"] == nil || response["interactions"] == nil {
		t.Errorf("Health payload missing registry counts: %v", response)
	}
}

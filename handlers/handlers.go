// Package handlers provides HTTP request handlers for the MedSafe API
// endpoints. It includes handlers for the analysis workflows, drug
// reference lookups, document upload, report generation and health
// checks with proper input validation and error handling.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Trisha2910tinaaaaa/medsafe/aiservices"
	"github.com/Trisha2910tinaaaaa/medsafe/analyzer"
	"github.com/Trisha2910tinaaaaa/medsafe/document"
	"github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"
	"github.com/Trisha2910tinaaaaa/medsafe/interfaces"
	"github.com/Trisha2910tinaaaaa/medsafe/logging"
	"github.com/go-chi/chi/v5"
)

// Default patient profile applied when a request omits the fields.
const (
	defaultPatientAge      = 30
	defaultPatientLanguage = "en"
)

// Handler implements the MedSafe HTTP surface with injected dependencies
type Handler struct {
	store     interfaces.DrugStore
	analyzer  *analyzer.Analyzer
	renderer  interfaces.ReportRenderer
	validator interfaces.RequestValidator
	health    interfaces.HealthChecker
	maxUpload int64
}

// NewHandler creates a new HTTP handler with injected dependencies
func NewHandler(store interfaces.DrugStore, a *analyzer.Analyzer, renderer interfaces.ReportRenderer, validator interfaces.RequestValidator, health interfaces.HealthChecker, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = document.MaxFileSize
	}
	return &Handler{
		store:     store,
		analyzer:  a,
		renderer:  renderer,
		validator: validator,
		health:    health,
		maxUpload: maxUpload,
	}
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	RespondWithJSON(w, code, errorResponse)
}

// analyzeRequest is the shared body of the text-analysis endpoints.
// Age and weight are pointers so an omitted field is distinguishable
// from a literal zero.
type analyzeRequest struct {
	Text           string                   `json:"text"`
	Language       string                   `json:"language"`
	Age            *int                     `json:"patient_age"`
	Weight         *float64                 `json:"patient_weight"`
	RenalFunction  string                   `json:"renal_function"`
	PatientContext *entities.PatientContext `json:"patient_context"`
}

// decodeAnalyzeRequest parses and validates the common analysis body.
func (h *Handler) decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (*analyzeRequest, bool) {
	var req analyzeRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return nil, false
	}

	if err := h.validator.ValidatePrescriptionText(req.Text); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	if req.Age == nil {
		age := defaultPatientAge
		req.Age = &age
	}
	if err := h.validator.ValidateAge(*req.Age); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	if req.Weight == nil {
		weight := 0.0
		req.Weight = &weight
	}
	if err := h.validator.ValidateWeight(*req.Weight); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	req.Language = h.validator.ValidateLanguage(req.Language)
	return &req, true
}

// patient builds the patient context for a request, deriving one from
// the flat fields when no explicit context was sent.
func (req *analyzeRequest) patient(renal entities.RenalFunction) *entities.PatientContext {
	if req.PatientContext != nil {
		return req.PatientContext
	}
	return &entities.PatientContext{
		Age:           *req.Age,
		Weight:        *req.Weight,
		RenalFunction: renal,
	}
}

// CheckInteractions handles POST /api/v1/analysis/interactions
func (h *Handler) CheckInteractions(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	renal := h.validator.ValidateRenalFunction(req.RenalFunction)
	result, err := h.analyzer.CheckInteractions(r.Context(), req.Text, req.Language, req.patient(renal))
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, result)
}

// CheckDosage handles POST /api/v1/analysis/dosage
func (h *Handler) CheckDosage(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	renal := h.validator.ValidateRenalFunction(req.RenalFunction)
	result, err := h.analyzer.CheckDosage(r.Context(), req.Text, req.Language, *req.Age, *req.Weight, renal)
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, result)
}

// ComprehensiveAnalysis handles POST /api/v1/analysis/comprehensive
func (h *Handler) ComprehensiveAnalysis(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	renal := h.validator.ValidateRenalFunction(req.RenalFunction)
	result, err := h.analyzer.Comprehensive(r.Context(), req.Text, req.Language, *req.Age, *req.Weight, renal, req.patient(renal))
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": result,
	})
}

// AnalyzeDocument handles POST /api/v1/analysis/document. It accepts a
// multipart upload with a "file" part plus optional patient form fields.
func (h *Handler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+4096)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		RespondWithError(w, http.StatusRequestEntityTooLarge, "Upload too large or malformed multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Missing file upload field 'file'")
		return
	}
	defer file.Close()

	mimeType := document.ResolveType(header)
	if err := document.Validate(mimeType, header.Size); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}
	if int64(len(content)) > h.maxUpload {
		RespondWithError(w, http.StatusRequestEntityTooLarge, "Uploaded file exceeds the size limit")
		return
	}

	age := parseFormInt(r.FormValue("patient_age"), defaultPatientAge)
	if err := h.validator.ValidateAge(age); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	weight := parseFormFloat(r.FormValue("patient_weight"), 0)
	if err := h.validator.ValidateWeight(weight); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	renal := h.validator.ValidateRenalFunction(r.FormValue("renal_function"))
	language := h.validator.ValidateLanguage(r.FormValue("language"))

	result, err := h.analyzer.AnalyzeDocument(r.Context(), content, header.Filename, mimeType, age, weight, renal, language)
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": result,
	})
}

// GenerateReport handles POST /api/v1/reports. It renders a previously
// obtained analysis result into a PDF document.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var result entities.AnalysisResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid analysis result body: "+err.Error())
		return
	}

	if result.ID == "" || len(result.DrugsFound) == 0 {
		RespondWithError(w, http.StatusBadRequest, "Analysis result must contain an analysis_id and drugs_found")
		return
	}

	pdf, err := h.renderer.Render(r.Context(), result)
	if err != nil {
		logging.Error("Report rendering failed", "analysis_id", result.ID, "error", err)
		RespondWithError(w, http.StatusServiceUnavailable, "Report service is unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="medsafe-report-`+result.ID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// DrugInformation handles GET /api/v1/drugs/{drug}
func (h *Handler) DrugInformation(w http.ResponseWriter, r *http.Request) {
	drug := chi.URLParam(r, "drug")
	if err := h.validator.ValidateDrugName(drug); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	info, found := h.store.GetRegistry().DrugInformation(strings.ToLower(drug))
	if !found {
		RespondWithError(w, http.StatusNotFound, "No information available for this drug")
		return
	}

	RespondWithJSON(w, http.StatusOK, info)
}

// AvailableDrugs handles GET /api/v1/drugs
func (h *Handler) AvailableDrugs(w http.ResponseWriter, r *http.Request) {
	drugs := h.store.GetRegistry().KnownDrugs()
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"drugs": drugs,
		"count": len(drugs),
	})
}

// SupportedLanguages handles GET /api/v1/languages
func (h *Handler) SupportedLanguages(w http.ResponseWriter, r *http.Request) {
	languages := aiservices.SupportedTranslationLanguages()
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"languages": languages,
		"default":   defaultPatientLanguage,
	})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.health.HealthCheck()

	data["status"] = status
	RespondWithJSON(w, httpStatus, data)
}

// respondAnalysisError maps pipeline errors to HTTP statuses.
func (h *Handler) respondAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analyzer.ErrEmptyText):
		RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, document.ErrUnsupportedType), errors.Is(err, document.ErrFileTooLarge):
		RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		logging.Error("Analysis failed", "error", err)
		RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	}
}

func parseFormInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseFormFloat(value string, fallback float64) float64 {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

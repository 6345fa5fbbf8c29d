// Package interfaces defines the core abstractions of the MedSafe API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/Trisha2910tinaaaaa/medsafe/drugbank"
	"github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"
)

// DrugStore defines the contract for drug reference data access.
// It provides thread-safe access to the immutable registry plus the
// mutable collaborator availability state maintained by the scheduler.
type DrugStore interface {
	// GetRegistry returns the loaded drug reference registry.
	GetRegistry() *drugbank.Registry

	// GetLoadedAt returns when the registry was built.
	GetLoadedAt() time.Time

	// GetServerStartTime returns the process start time.
	GetServerStartTime() time.Time
	SetServerStartTime(t time.Time)

	// Collaborator availability, updated by the scheduler probes.
	GetServiceStatus() map[string]bool
	SetServiceStatus(service string, available bool)
}

// Extractor defines the contract for drug entity extraction from
// free-text prescriptions.
type Extractor interface {
	// Extract returns one entity per canonical drug recognized in text.
	// It never fails: enrichment errors degrade to the lexicon path.
	Extract(ctx context.Context, text string, language string) []entities.ExtractedEntity
}

// Translator defines the contract for the best-effort translation
// collaborator. Implementations return the original text on any failure.
type Translator interface {
	Translate(ctx context.Context, text string, sourceLang string) (string, error)

	// SupportedLanguages lists the source languages translation covers.
	SupportedLanguages() []string
}

// Recognizer defines the contract for the optional remote medical-NER
// collaborator. It returns raw candidate surface strings from the text.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]string, error)
}

// Explainer defines the contract for natural-language interaction
// explanations. Both a remote implementation and a deterministic template
// implementation exist; callers must tolerate either.
type Explainer interface {
	// ExplainInteraction returns a one-sentence patient-friendly
	// explanation of an interaction.
	ExplainInteraction(ctx context.Context, interaction entities.InteractionRecord) string

	// ExplainDetailed returns the enriched analysis used by the
	// comprehensive workflow.
	ExplainDetailed(ctx context.Context, interaction entities.InteractionRecord, patient *entities.PatientContext) entities.DetailedExplanation
}

// DocumentExtractor defines the contract for the document-to-text
// collaborator. Failure here is fatal to the document workflow only.
type DocumentExtractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType string) (string, error)
}

// ReportRenderer defines the contract for the presentation collaborator
// that renders an analysis result into a binary report.
type ReportRenderer interface {
	Render(ctx context.Context, result entities.AnalysisResult) ([]byte, error)
}

// RequestValidator defines the contract for validating analysis request
// fields before they reach the pipeline.
type RequestValidator interface {
	// ValidatePrescriptionText checks free-text prescription input.
	ValidatePrescriptionText(text string) error

	// ValidateDrugName checks a drug name path parameter.
	ValidateDrugName(name string) error

	// ValidateAge checks a patient age in years.
	ValidateAge(age int) error

	// ValidateWeight checks a patient weight in kilograms. Zero means
	// not provided and is valid.
	ValidateWeight(weight float64) error

	// ValidateRenalFunction normalizes a renal function string. Empty
	// and unrecognized values map to normal clearance.
	ValidateRenalFunction(value string) entities.RenalFunction

	// ValidateLanguage normalizes a language code, defaulting to English.
	ValidateLanguage(lang string) string
}

// Scheduler defines the contract for background availability probing and
// health monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status.
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

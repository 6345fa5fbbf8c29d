// Package analyzer composes extraction, interaction resolution, dosage
// guidance and enrichment into the boundary workflows of the MedSafe
// API: interaction check, dosage check, comprehensive analysis and
// document analysis.
//
// Enrichment failures degrade to deterministic fallbacks and never abort
// a workflow. Input failures (empty text, invalid uploads) halt the
// workflow before partial output is produced.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Trisha2910tinaaaaa/medsafe/document"
	"github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"
	"github.com/Trisha2910tinaaaaa/medsafe/interfaces"
	"github.com/Trisha2910tinaaaaa/medsafe/logging"
	"github.com/Trisha2910tinaaaaa/medsafe/metrics"
	"github.com/google/uuid"
)

// ErrEmptyText rejects analysis requests with nothing to analyze.
var ErrEmptyText = errors.New("prescription text is empty")

// InteractionCheck is the result of the interaction-only workflow.
type InteractionCheck struct {
	Success             bool                         `json:"success"`
	DrugsFound          []string                     `json:"drugs_found"`
	Interactions        []entities.InteractionRecord `json:"interactions"`
	PatientExplanations []string                     `json:"patient_explanations"`
}

// DosageCheck is the result of the dosage-only workflow.
type DosageCheck struct {
	Success bool                            `json:"success"`
	Results []entities.DosageRecommendation `json:"results"`
}

// Analyzer orchestrates the analysis workflows over the immutable drug
// registry and the enrichment collaborators.
type Analyzer struct {
	store     interfaces.DrugStore
	extractor interfaces.Extractor
	explainer interfaces.Explainer
	processor *document.Processor
}

// New creates the orchestrator. explainer must not be nil; the template
// explainer satisfies it when no remote model is configured.
func New(store interfaces.DrugStore, extractor interfaces.Extractor, explainer interfaces.Explainer, processor *document.Processor) *Analyzer {
	return &Analyzer{
		store:     store,
		extractor: extractor,
		explainer: explainer,
		processor: processor,
	}
}

// extractDrugs runs entity extraction and returns both the entities and
// the canonical drug name sequence, in first-match order.
func (a *Analyzer) extractDrugs(ctx context.Context, text, language string) ([]entities.ExtractedEntity, []string) {
	extracted := a.extractor.Extract(ctx, text, language)
	metrics.DrugsExtractedTotal.Add(float64(len(extracted)))

	drugs := make([]string, 0, len(extracted))
	for _, entity := range extracted {
		drugs = append(drugs, entity.DrugName)
	}
	return extracted, drugs
}

// resolveInteractions looks up pairwise interactions and records the
// severity metrics.
func (a *Analyzer) resolveInteractions(drugs []string) []entities.InteractionRecord {
	interactions := a.store.GetRegistry().Interactions(drugs)
	for _, interaction := range interactions {
		metrics.InteractionsFoundTotal.WithLabelValues(string(interaction.Severity)).Inc()
	}
	return interactions
}

// CheckInteractions extracts drugs from text, resolves pairwise
// interactions and attaches a one-sentence patient explanation to each.
func (a *Analyzer) CheckInteractions(ctx context.Context, text, language string, patient *entities.PatientContext) (InteractionCheck, error) {
	if text == "" {
		metrics.AnalysesTotal.WithLabelValues("interactions", "rejected").Inc()
		return InteractionCheck{}, ErrEmptyText
	}

	_, drugs := a.extractDrugs(ctx, text, language)
	interactions := a.resolveInteractions(drugs)

	explanations := make([]string, 0, len(interactions))
	for i := range interactions {
		explanation := a.explainer.ExplainInteraction(ctx, interactions[i])
		interactions[i].AIAnalysis = explanation
		explanations = append(explanations, explanation)
	}

	metrics.AnalysesTotal.WithLabelValues("interactions", "success").Inc()
	return InteractionCheck{
		Success:             true,
		DrugsFound:          drugs,
		Interactions:        interactions,
		PatientExplanations: explanations,
	}, nil
}

// CheckDosage extracts drugs from text and produces a patient-adjusted
// dosage recommendation plus alternatives for each.
func (a *Analyzer) CheckDosage(ctx context.Context, text, language string, age int, weight float64, renal entities.RenalFunction) (DosageCheck, error) {
	if text == "" {
		metrics.AnalysesTotal.WithLabelValues("dosage", "rejected").Inc()
		return DosageCheck{}, ErrEmptyText
	}

	_, drugs := a.extractDrugs(ctx, text, language)

	results := make([]entities.DosageRecommendation, 0, len(drugs))
	for _, drug := range drugs {
		results = append(results, a.dosageFor(drug, age, weight, renal))
	}

	metrics.AnalysesTotal.WithLabelValues("dosage", "success").Inc()
	return DosageCheck{Success: true, Results: results}, nil
}

// dosageFor builds one recommendation with alternative names attached.
func (a *Analyzer) dosageFor(drug string, age int, weight float64, renal entities.RenalFunction) entities.DosageRecommendation {
	registry := a.store.GetRegistry()
	recommendation := registry.Dosage(drug, age, weight, renal)

	alternatives := registry.Alternatives(drug)
	names := make([]string, 0, len(alternatives))
	for _, alternative := range alternatives {
		names = append(names, alternative.Name)
	}
	recommendation.Alternatives = names
	return recommendation
}

// Comprehensive runs the full pipeline: extraction, interactions with
// detailed explanations, dosage guidance and a severity-count summary.
func (a *Analyzer) Comprehensive(ctx context.Context, text, language string, age int, weight float64, renal entities.RenalFunction, patient *entities.PatientContext) (entities.AnalysisResult, error) {
	if text == "" {
		metrics.AnalysesTotal.WithLabelValues("comprehensive", "rejected").Inc()
		return entities.AnalysisResult{}, ErrEmptyText
	}

	_, drugs := a.extractDrugs(ctx, text, language)
	interactions := a.resolveInteractions(drugs)

	explanations := make([]string, 0, len(interactions))
	for i := range interactions {
		detailed := a.explainer.ExplainDetailed(ctx, interactions[i], patient)
		interactions[i].AIAnalysis = detailed.DetailedAnalysis
		interactions[i].PatientExplanation = detailed.PatientExplanation
		explanations = append(explanations, detailed.PatientExplanation)
	}

	dosageResults := make([]entities.DosageRecommendation, 0, len(drugs))
	for _, drug := range drugs {
		dosageResults = append(dosageResults, a.dosageFor(drug, age, weight, renal))
	}

	metrics.AnalysesTotal.WithLabelValues("comprehensive", "success").Inc()
	return entities.AnalysisResult{
		ID:                  uuid.NewString(),
		DrugsFound:          drugs,
		Interactions:        interactions,
		DosageResults:       dosageResults,
		PatientExplanations: explanations,
		Summary:             summarize(drugs, interactions, age),
	}, nil
}

// AnalyzeDocument validates an uploaded document, extracts its text via
// the document collaborator and runs the comprehensive pipeline on it.
// Extraction failure is fatal to this call only.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, data []byte, fileName, mimeType string, age int, weight float64, renal entities.RenalFunction, language string) (entities.AnalysisResult, error) {
	if err := document.Validate(mimeType, int64(len(data))); err != nil {
		metrics.AnalysesTotal.WithLabelValues("document", "rejected").Inc()
		return entities.AnalysisResult{}, err
	}

	text, err := a.processor.ExtractText(ctx, data, mimeType)
	if err != nil {
		logging.Warn("Document text extraction failed", "file", fileName, "type", mimeType, "error", err)
		metrics.AnalysesTotal.WithLabelValues("document", "rejected").Inc()
		return entities.AnalysisResult{}, fmt.Errorf("text extraction failed: %w", err)
	}

	result, err := a.Comprehensive(ctx, text, language, age, weight, renal, nil)
	if err != nil {
		return entities.AnalysisResult{}, err
	}

	fileInfo := document.FileInfoFor(fileName, mimeType, int64(len(data)))
	result.OriginalText = text
	result.FileInfo = &fileInfo
	return result, nil
}

// summarize builds the severity-count summary of a comprehensive run.
func summarize(drugs []string, interactions []entities.InteractionRecord, age int) entities.AnalysisSummary {
	summary := entities.AnalysisSummary{
		TotalDrugs:        len(drugs),
		TotalInteractions: len(interactions),
		PatientAge:        age,
		AnalysisTimestamp: time.Now().UTC(),
	}

	for _, interaction := range interactions {
		switch interaction.Severity {
		case entities.SeverityHigh:
			summary.HighRiskInteractions++
		case entities.SeverityMedium:
			summary.MediumRiskInteractions++
		case entities.SeverityLow:
			summary.LowRiskInteractions++
		}
	}
	return summary
}

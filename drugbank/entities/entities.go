// Package entities defines the domain types shared across the MedSafe
// analysis pipeline: extracted drug entities, interaction records, dosage
// recommendations and the aggregated analysis result.
package entities

import "time"

// Severity is the ordinal risk classification of a drug interaction.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// RenalFunction describes the patient's kidney clearance tier.
type RenalFunction string

const (
	RenalNormal   RenalFunction = "normal"
	RenalMild     RenalFunction = "mild"
	RenalModerate RenalFunction = "moderate"
	RenalSevere   RenalFunction = "severe"
	RenalDialysis RenalFunction = "dialysis"
)

// AgeGroup is the dosage bucket derived from the patient's age.
type AgeGroup string

const (
	AgePediatric AgeGroup = "pediatric"
	AgeAdult     AgeGroup = "adult"
	AgeElderly   AgeGroup = "elderly"
	AgeUnknown   AgeGroup = "unknown"
)

// ExtractedEntity is one drug mention recognized in prescription text.
type ExtractedEntity struct {
	DrugName   string  `json:"drug_name"`
	Dosage     string  `json:"dosage"`
	Frequency  string  `json:"frequency"`
	Confidence float64 `json:"confidence"`
}

// InteractionRecord is a pairwise drug interaction. Drug1/Drug2 carry the
// caller-supplied order; the underlying table is queried in both directions.
type InteractionRecord struct {
	Drug1              string   `json:"drug1"`
	Drug2              string   `json:"drug2"`
	Description        string   `json:"description"`
	Severity           Severity `json:"severity"`
	AIAnalysis         string   `json:"ai_analysis,omitempty"`
	PatientExplanation string   `json:"patient_explanation,omitempty"`
}

// DosageProfile holds the static dosage row for one (drug, age group) pair.
type DosageProfile struct {
	StandardDosage    string   `json:"standard_dosage"`
	MaxDaily          string   `json:"max_daily"`
	Contraindications []string `json:"contraindications"`
}

// DosageRecommendation is the patient-adjusted dosage guidance for one drug.
// RenalAdjustment is advisory metadata only: the dosage text stays the
// table's fixed value and is never scaled arithmetically.
type DosageRecommendation struct {
	Drug                  string   `json:"drug"`
	RecommendedDosage     string   `json:"recommended_dosage"`
	AgeGroup              AgeGroup `json:"age_group"`
	PatientAge            int      `json:"patient_age"`
	RenalAdjustment       float64  `json:"renal_adjustment"`
	Contraindications     []string `json:"contraindications"`
	MaxDaily              string   `json:"max_daily"`
	SpecialConsiderations []string `json:"special_considerations"`
	Alternatives          []string `json:"alternatives"`
}

// AlternativeDrug is a candidate substitute medication.
type AlternativeDrug struct {
	Name       string `json:"name"`
	Brand      string `json:"brand"`
	Class      string `json:"class"`
	Indication string `json:"indication"`
}

// DrugInformation is the reference sheet served by the drug info endpoint.
type DrugInformation struct {
	GenericName       string   `json:"generic_name"`
	DrugClass         string   `json:"drug_class"`
	Mechanism         string   `json:"mechanism"`
	Indications       []string `json:"indications"`
	SideEffects       []string `json:"side_effects"`
	PregnancyCategory string   `json:"pregnancy_category"`
	HalfLife          string   `json:"half_life"`
	Metabolism        string   `json:"metabolism"`
	Excretion         string   `json:"excretion"`
}

// PatientContext carries per-request patient attributes. It is never
// persisted; every analysis call builds its own copy.
type PatientContext struct {
	Age           int           `json:"age"`
	Weight        float64       `json:"weight,omitempty"`
	RenalFunction RenalFunction `json:"renal_function,omitempty"`
	Pregnant      bool          `json:"pregnant,omitempty"`
	KidneyDisease bool          `json:"kidney_disease,omitempty"`
	LiverDisease  bool          `json:"liver_disease,omitempty"`
	HeartDisease  bool          `json:"heart_disease,omitempty"`
	Diabetes      bool          `json:"diabetes,omitempty"`
	Allergies     []string      `json:"allergies,omitempty"`
}

// AnalysisSummary aggregates counts for the comprehensive workflow.
type AnalysisSummary struct {
	TotalDrugs             int       `json:"total_drugs"`
	TotalInteractions      int       `json:"total_interactions"`
	HighRiskInteractions   int       `json:"high_risk_interactions"`
	MediumRiskInteractions int       `json:"medium_risk_interactions"`
	LowRiskInteractions    int       `json:"low_risk_interactions"`
	PatientAge             int       `json:"patient_age"`
	AnalysisTimestamp      time.Time `json:"analysis_timestamp"`
}

// DetailedExplanation is the enriched interaction analysis returned by the
// detailed explanation collaborator (or its template fallback).
type DetailedExplanation struct {
	DetailedAnalysis   string   `json:"detailed_analysis"`
	PatientExplanation string   `json:"patient_explanation"`
	Severity           Severity `json:"severity"`
	Recommendations    []string `json:"recommendations"`
}

// FileInfo describes an uploaded document.
type FileInfo struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Size   int64   `json:"size"`
	SizeMB float64 `json:"size_mb"`
}

// AnalysisResult is the aggregate returned by the comprehensive and
// document workflows. Slices are always non-nil so callers never have to
// distinguish "no interactions" from "missing field".
type AnalysisResult struct {
	ID                  string                 `json:"analysis_id"`
	DrugsFound          []string               `json:"drugs_found"`
	Interactions        []InteractionRecord    `json:"interactions"`
	DosageResults       []DosageRecommendation `json:"dosage_results"`
	PatientExplanations []string               `json:"patient_explanations"`
	Summary             AnalysisSummary        `json:"summary"`
	OriginalText        string                 `json:"original_text,omitempty"`
	FileInfo            *FileInfo              `json:"file_info,omitempty"`
}

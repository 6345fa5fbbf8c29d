// Package extraction turns free-text prescriptions into normalized drug
// entities. The deterministic path scans the drug lexicon over folded
// text with dosage and frequency sub-patterns; translation and remote NER
// are optional enrichment hooks that can never fail an extraction call.
package extraction

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/Trisha2910tinaaaaa/medsafe/drugbank"
	"github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"
	"github.com/Trisha2910tinaaaaa/medsafe/interfaces"
	"github.com/Trisha2910tinaaaaa/medsafe/logging"
	"github.com/Trisha2910tinaaaaa/medsafe/metrics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Confidence assigned to lexicon matches; remote NER confirmation raises
// it to remoteConfidence.
const (
	lexiconConfidence = 0.95
	remoteConfidence  = 0.98
)

// Pre-compiled sub-patterns, ordered: the first match wins.
var dosagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(mg|g|mcg|ml|units)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(milligram|gram|microgram|milliliter)`),
}

type frequencyPattern struct {
	re         *regexp.Regexp
	normalized string
	unit       string // set for "every N <unit>" patterns
}

var frequencyPatterns = []frequencyPattern{
	{re: regexp.MustCompile(`(?i)twice\s*daily|bid|b\.i\.d`), normalized: "twice daily"},
	{re: regexp.MustCompile(`(?i)three\s*times\s*daily|tid|t\.i\.d`), normalized: "three times daily"},
	{re: regexp.MustCompile(`(?i)four\s*times\s*daily|qid|q\.i\.d`), normalized: "four times daily"},
	{re: regexp.MustCompile(`(?i)once\s*daily|qd|q\.d`), normalized: "once daily"},
	{re: regexp.MustCompile(`(?i)every\s*(\d+)\s*hours?`), unit: "hours"},
	{re: regexp.MustCompile(`(?i)every\s*(\d+)\s*days?`), unit: "days"},
}

// foldTransformer strips combining diacritical marks so accented brand
// names still hit the ASCII lexicon patterns.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Extractor implements interfaces.Extractor on top of the drug lexicon.
// Translator and recognizer may be nil; extraction then runs the pure
// deterministic path.
type Extractor struct {
	registry   *drugbank.Registry
	translator interfaces.Translator
	recognizer interfaces.Recognizer
}

// Compile-time check to ensure Extractor implements Extractor
var _ interfaces.Extractor = (*Extractor)(nil)

// NewExtractor creates an extractor over the given registry. translator
// and recognizer are optional enrichment collaborators.
func NewExtractor(registry *drugbank.Registry, translator interfaces.Translator, recognizer interfaces.Recognizer) *Extractor {
	return &Extractor{
		registry:   registry,
		translator: translator,
		recognizer: recognizer,
	}
}

// Extract scans the prescription text and returns one entity per
// canonical drug found, in lexicon scan order. Identical input always
// yields an identical entity list.
func (e *Extractor) Extract(ctx context.Context, text string, language string) []entities.ExtractedEntity {
	text = e.maybeTranslate(ctx, text, language)

	normalized := normalizeText(text)
	confirmed := e.remoteCandidates(ctx, text)

	extracted := make([]entities.ExtractedEntity, 0)
	for _, pattern := range e.registry.Lexicon() {
		if !pattern.Pattern.MatchString(normalized) {
			continue
		}

		confidence := lexiconConfidence
		if confirmed[pattern.Name] {
			confidence = remoteConfidence
		}

		extracted = append(extracted, entities.ExtractedEntity{
			DrugName:   pattern.Name,
			Dosage:     extractDosage(normalized),
			Frequency:  extractFrequency(normalized),
			Confidence: confidence,
		})
	}

	return extracted
}

// maybeTranslate runs the translation collaborator for non-English text.
// Any failure is logged and the untranslated text is used instead.
func (e *Extractor) maybeTranslate(ctx context.Context, text string, language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" || language == "en" || language == "english" || e.translator == nil {
		return text
	}

	translated, err := e.translator.Translate(ctx, text, language)
	if err != nil {
		logging.Warn("Translation failed, using original text", "language", language, "error", err)
		metrics.EnrichmentFallbackTotal.WithLabelValues("translation").Inc()
		return text
	}
	return translated
}

// remoteCandidates asks the remote NER collaborator for candidate
// mentions and folds them through the lexicon. The remote call only
// confirms drugs the lexicon already recognizes; it can never add
// out-of-vocabulary entities nor fail the extraction.
func (e *Extractor) remoteCandidates(ctx context.Context, text string) map[string]bool {
	confirmed := make(map[string]bool)
	if e.recognizer == nil {
		return confirmed
	}

	candidates, err := e.recognizer.Recognize(ctx, text)
	if err != nil {
		logging.Warn("Remote entity recognition unavailable, using lexicon only", "error", err)
		metrics.EnrichmentFallbackTotal.WithLabelValues("medical_ner").Inc()
		return confirmed
	}

	for _, candidate := range candidates {
		folded := normalizeText(candidate)
		for _, pattern := range e.registry.Lexicon() {
			if pattern.Pattern.MatchString(folded) {
				confirmed[pattern.Name] = true
			}
		}
	}
	return confirmed
}

// normalizeText lowercases the text and strips diacritics.
func normalizeText(text string) string {
	folded, _, err := transform.String(foldTransformer, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(folded)
}

// extractDosage returns the first dosage mention in the text, e.g.
// "500mg", or "Standard dosage" when none is present.
func extractDosage(text string) string {
	for _, pattern := range dosagePatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			return match[1] + strings.ToLower(match[2])
		}
	}
	return "Standard dosage"
}

// extractFrequency returns the first normalized frequency mention, or
// "as needed" when none is present.
func extractFrequency(text string) string {
	for _, pattern := range frequencyPatterns {
		match := pattern.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if pattern.unit != "" {
			return "every " + match[1] + " " + pattern.unit
		}
		return pattern.normalized
	}
	return "as needed"
}

package aiservices

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"
	"github.com/Trisha2910tinaaaaa/medsafe/interfaces"
	"github.com/Trisha2910tinaaaaa/medsafe/logging"
	"github.com/Trisha2910tinaaaaa/medsafe/metrics"
)

// metricFallback records one degradation to the deterministic path.
func metricFallback(collaborator string) {
	metrics.EnrichmentFallbackTotal.WithLabelValues(collaborator).Inc()
}

// Service names used for availability bookkeeping in the data container.
const (
	ServiceNER         = "medical_ner"
	ServiceTranslation = "translation"
	ServiceExplanation = "explanation"
)

// Bounded timeouts per collaborator call. No retries: on timeout or
// non-success status the caller falls back immediately.
const (
	nerTimeout       = 30 * time.Second
	translateTimeout = 30 * time.Second
	explainTimeout   = 60 * time.Second
	detailedTimeout  = 90 * time.Second
)

// translationModels maps supported source language codes to their
// to-English translation models.
var translationModels = map[string]string{
	"es": "Helsinki-NLP/opus-mt-es-en",
	"fr": "Helsinki-NLP/opus-mt-fr-en",
	"de": "Helsinki-NLP/opus-mt-de-en",
	"it": "Helsinki-NLP/opus-mt-it-en",
	"pt": "Helsinki-NLP/opus-mt-pt-en",
	"hi": "Helsinki-NLP/opus-mt-hi-en",
	"zh": "Helsinki-NLP/opus-mt-zh-en",
	"ja": "Helsinki-NLP/opus-mt-ja-en",
}

// SupportedTranslationLanguages returns the sorted source languages the
// translation collaborator covers.
func SupportedTranslationLanguages() []string {
	languages := make([]string, 0, len(translationModels))
	for language := range translationModels {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages
}

// generatedResponse is the inference API shape for text generation.
type generatedResponse []struct {
	GeneratedText string `json:"generated_text"`
}

// translationResponse is the inference API shape for translation.
type translationResponse []struct {
	TranslationText string `json:"translation_text"`
}

// nerEntity is one token classification result from the NER model.
type nerEntity struct {
	EntityGroup string  `json:"entity_group"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
}

// inferenceRequest is the common request body for inference calls.
type inferenceRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// postInference issues one inference call and decodes the response into
// out. Non-200 statuses are returned as errors so callers can fall back.
func postInference(ctx context.Context, client *http.Client, url, apiKey string, body inferenceRequest, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("inference call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference call returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode inference response: %w", err)
	}
	return nil
}

// HFRecognizer calls a hosted medical-NER model for candidate drug
// mentions. It implements interfaces.Recognizer.
type HFRecognizer struct {
	client *http.Client
	url    string
	apiKey string
	store  interfaces.DrugStore
}

var _ interfaces.Recognizer = (*HFRecognizer)(nil)

// NewHFRecognizer creates a recognizer against the given model endpoint.
// store may be nil; when set, probe results gate the remote call.
func NewHFRecognizer(url, apiKey string, store interfaces.DrugStore) *HFRecognizer {
	return &HFRecognizer{
		client: &http.Client{Timeout: nerTimeout},
		url:    url,
		apiKey: apiKey,
		store:  store,
	}
}

// Recognize returns the candidate surface strings the NER model found.
func (r *HFRecognizer) Recognize(ctx context.Context, text string) ([]string, error) {
	if r.url == "" {
		return nil, fmt.Errorf("ner endpoint not configured")
	}
	if !serviceAvailable(r.store, ServiceNER) {
		return nil, fmt.Errorf("ner service marked unavailable")
	}

	var results []nerEntity
	err := postInference(ctx, r.client, r.url, r.apiKey, inferenceRequest{Inputs: text}, nerTimeout, &results)
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, len(results))
	for _, entity := range results {
		if word := strings.TrimSpace(entity.Word); word != "" {
			candidates = append(candidates, word)
		}
	}
	return candidates, nil
}

// HFTranslator translates prescriptions to English via hosted
// Helsinki-NLP models. It implements interfaces.Translator.
type HFTranslator struct {
	client  *http.Client
	baseURL string
	apiKey  string
	store   interfaces.DrugStore
}

var _ interfaces.Translator = (*HFTranslator)(nil)

// NewHFTranslator creates a translator. baseURL is the inference API
// models root; the per-language model name is appended to it.
func NewHFTranslator(baseURL, apiKey string, store interfaces.DrugStore) *HFTranslator {
	return &HFTranslator{
		client:  &http.Client{Timeout: translateTimeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		store:   store,
	}
}

// SupportedLanguages lists the source languages translation covers.
func (t *HFTranslator) SupportedLanguages() []string {
	return SupportedTranslationLanguages()
}

// Translate converts text from sourceLang to English. Unsupported
// languages and remote failures return the original text with an error
// the caller may log.
func (t *HFTranslator) Translate(ctx context.Context, text string, sourceLang string) (string, error) {
	model, supported := translationModels[strings.ToLower(sourceLang)]
	if !supported {
		return text, fmt.Errorf("unsupported translation language: %s", sourceLang)
	}
	if t.baseURL == "" {
		return text, fmt.Errorf("translation endpoint not configured")
	}
	if !serviceAvailable(t.store, ServiceTranslation) {
		return text, fmt.Errorf("translation service marked unavailable")
	}

	var results translationResponse
	url := t.baseURL + "/" + model
	err := postInference(ctx, t.client, url, t.apiKey, inferenceRequest{Inputs: text}, translateTimeout, &results)
	if err != nil {
		return text, err
	}
	if len(results) == 0 || results[0].TranslationText == "" {
		return text, fmt.Errorf("empty translation response")
	}
	return results[0].TranslationText, nil
}

// RemoteExplainer generates interaction explanations with a hosted
// instruction model, degrading to the template explainer on any failure.
type RemoteExplainer struct {
	client   *http.Client
	url      string
	apiKey   string
	store    interfaces.DrugStore
	fallback *TemplateExplainer
}

var _ interfaces.Explainer = (*RemoteExplainer)(nil)

// NewRemoteExplainer creates an explainer against the given model
// endpoint with the template explainer as its fallback.
func NewRemoteExplainer(url, apiKey string, store interfaces.DrugStore) *RemoteExplainer {
	return &RemoteExplainer{
		client:   &http.Client{Timeout: detailedTimeout},
		url:      url,
		apiKey:   apiKey,
		store:    store,
		fallback: NewTemplateExplainer(),
	}
}

// ExplainInteraction asks the model for a one-sentence patient
// explanation, falling back to the template on any failure.
func (e *RemoteExplainer) ExplainInteraction(ctx context.Context, interaction entities.InteractionRecord) string {
	if e.url == "" || !serviceAvailable(e.store, ServiceExplanation) {
		return e.fallback.ExplainInteraction(ctx, interaction)
	}

	prompt := fmt.Sprintf(
		"Explain this drug interaction like I'm a patient: '%s'. Keep it to one simple sentence and mention the main risk. Make it easy to understand without medical jargon.",
		interaction.Description)

	text, err := e.generate(ctx, prompt, 150, explainTimeout)
	if err != nil {
		logging.Warn("Remote explanation failed, using template", "error", err)
		metricFallback(ServiceExplanation)
		return e.fallback.ExplainInteraction(ctx, interaction)
	}
	return text
}

// ExplainDetailed asks the model for the comprehensive analysis with
// patient context, falling back to the template on any failure.
func (e *RemoteExplainer) ExplainDetailed(ctx context.Context, interaction entities.InteractionRecord, patient *entities.PatientContext) entities.DetailedExplanation {
	if e.url == "" || !serviceAvailable(e.store, ServiceExplanation) {
		return e.fallback.ExplainDetailed(ctx, interaction, patient)
	}

	var contextInfo strings.Builder
	if patient != nil {
		fmt.Fprintf(&contextInfo, "Patient context: age %d", patient.Age)
		if patient.Pregnant {
			contextInfo.WriteString(", pregnant")
		}
		if patient.KidneyDisease {
			contextInfo.WriteString(", kidney disease")
		}
		if patient.LiverDisease {
			contextInfo.WriteString(", liver disease")
		}
		if len(patient.Allergies) > 0 {
			fmt.Fprintf(&contextInfo, ", known allergies: %s", strings.Join(patient.Allergies, ", "))
		}
		contextInfo.WriteString(".\n")
	}

	prompt := fmt.Sprintf(
		"As a medical AI assistant, provide a comprehensive analysis of this drug interaction.\nDrug 1: %s\nDrug 2: %s\nInteraction: %s\nSeverity: %s\n%sProvide severity assessment, patient-friendly explanation, clinical implications, recommendations for healthcare providers, alternative medication suggestions and monitoring requirements.",
		interaction.Drug1, interaction.Drug2, interaction.Description, interaction.Severity, contextInfo.String())

	text, err := e.generate(ctx, prompt, 500, detailedTimeout)
	if err != nil {
		logging.Warn("Remote detailed analysis failed, using template", "error", err)
		metricFallback(ServiceExplanation)
		return e.fallback.ExplainDetailed(ctx, interaction, patient)
	}

	return entities.DetailedExplanation{
		DetailedAnalysis:   text,
		PatientExplanation: e.fallback.ExplainInteraction(ctx, interaction),
		Severity:           interaction.Severity,
		Recommendations:    extractRecommendations(text),
	}
}

// generate performs one text generation call and returns the generated
// text.
func (e *RemoteExplainer) generate(ctx context.Context, prompt string, maxTokens int, timeout time.Duration) (string, error) {
	body := inferenceRequest{
		Inputs: prompt,
		Parameters: map[string]any{
			"max_new_tokens": maxTokens,
			"temperature":    0.3,
			"top_p":          0.9,
			"do_sample":      true,
		},
	}

	var results generatedResponse
	if err := postInference(ctx, e.client, e.url, e.apiKey, body, timeout, &results); err != nil {
		return "", err
	}
	if len(results) == 0 || results[0].GeneratedText == "" {
		return "", fmt.Errorf("empty generation response")
	}
	return results[0].GeneratedText, nil
}

// serviceAvailable consults the container's probe state. A nil store or
// an unprobed service counts as available so the first real call decides.
func serviceAvailable(store interfaces.DrugStore, service string) bool {
	if store == nil {
		return true
	}
	status := store.GetServiceStatus()
	available, probed := status[service]
	return !probed || available
}

// Probe checks whether a collaborator endpoint answers at all. Inference
// hosts answer HEAD/GET with auth or model-loading statuses, so anything
// below 500 counts as reachable.
func Probe(ctx context.Context, client *http.Client, url string) bool {
	if url == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < http.StatusInternalServerError
}

// Package aiservices provides the natural-language enrichment
// collaborators of the analysis pipeline: patient-friendly interaction
// explanations, detailed analyses, translation and remote medical NER.
//
// Every remote call is best-effort with a bounded timeout and no retry;
// a deterministic template implementation always stands in when the
// remote service is unconfigured, unreachable, or returns a non-success
// status.
package aiservices

import (
	"context"
	"fmt"
	"strings"

	"github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"
	"github.com/Trisha2910tinaaaaa/medsafe/interfaces"
)

// TemplateExplainer is the deterministic explanation fallback. It is a
// pure function of the interaction record and patient context.
type TemplateExplainer struct{}

// Compile-time check to ensure TemplateExplainer implements Explainer
var _ interfaces.Explainer = (*TemplateExplainer)(nil)

// NewTemplateExplainer creates the template-based explainer.
func NewTemplateExplainer() *TemplateExplainer {
	return &TemplateExplainer{}
}

// ExplainInteraction renders a one-sentence severity-tiered explanation.
func (t *TemplateExplainer) ExplainInteraction(_ context.Context, interaction entities.InteractionRecord) string {
	description := strings.ToLower(interaction.Description)

	switch interaction.Severity {
	case entities.SeverityHigh:
		return fmt.Sprintf("HIGH RISK: Taking %s and %s together can cause %s. This is dangerous and you should talk to your doctor immediately.",
			interaction.Drug1, interaction.Drug2, description)
	case entities.SeverityLow:
		return fmt.Sprintf("LOW RISK: Taking %s and %s together might cause %s. This is usually safe but watch for any unusual symptoms.",
			interaction.Drug1, interaction.Drug2, description)
	default:
		return fmt.Sprintf("MEDIUM RISK: Taking %s and %s together may cause %s. You should check with your doctor before taking them together.",
			interaction.Drug1, interaction.Drug2, description)
	}
}

// ExplainDetailed renders the template detailed analysis used by the
// comprehensive workflow when the remote model is unavailable.
func (t *TemplateExplainer) ExplainDetailed(ctx context.Context, interaction entities.InteractionRecord, patient *entities.PatientContext) entities.DetailedExplanation {
	severity := interaction.Severity
	if severity == "" {
		severity = entities.SeverityMedium
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Severity assessment: %s RISK\n\n", strings.ToUpper(string(severity)))
	fmt.Fprintf(&b, "Taking %s and %s together may cause %s. This interaction is classified as %s risk.\n\n",
		interaction.Drug1, interaction.Drug2, strings.ToLower(interaction.Description), severity)
	b.WriteString("Clinical implications:\n")
	b.WriteString("- Increased risk of adverse effects\n")
	b.WriteString("- Potential for reduced therapeutic efficacy\n")
	b.WriteString("- Possible need for dosage adjustments\n")
	b.WriteString("- Enhanced monitoring requirements\n\n")
	b.WriteString("Recommendations:\n")
	b.WriteString("- Consult healthcare provider before combining these medications\n")
	b.WriteString("- Monitor for any unusual symptoms\n")
	b.WriteString("- Consider alternative medications if possible\n")
	b.WriteString("- Regular follow-up with healthcare provider\n")

	if patient != nil && patient.Age > 0 {
		fmt.Fprintf(&b, "\nPatient factors considered: age %d", patient.Age)
		if patient.KidneyDisease {
			b.WriteString(", kidney disease")
		}
		if patient.LiverDisease {
			b.WriteString(", liver disease")
		}
		if patient.Pregnant {
			b.WriteString(", pregnancy")
		}
	}

	return entities.DetailedExplanation{
		DetailedAnalysis:   b.String(),
		PatientExplanation: t.ExplainInteraction(ctx, interaction),
		Severity:           severity,
		Recommendations:    defaultRecommendations(),
	}
}

func defaultRecommendations() []string {
	return []string{"Consult healthcare provider", "Monitor symptoms", "Consider alternatives"}
}

// extractRecommendations pulls recommendation-looking lines out of a
// generated analysis, capped at five, defaulting to the standard triple.
func extractRecommendations(analysis string) []string {
	recommendations := make([]string, 0, 5)

	for _, line := range strings.Split(analysis, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "recommend") || strings.Contains(lower, "should") || strings.Contains(lower, "consult") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				recommendations = append(recommendations, trimmed)
			}
		}
		if len(recommendations) == 5 {
			break
		}
	}

	if len(recommendations) == 0 {
		return defaultRecommendations()
	}
	return recommendations
}

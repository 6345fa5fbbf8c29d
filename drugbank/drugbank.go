// Package drugbank holds the static pharmacological reference data for the
// MedSafe API and the lookup logic built on top of it: the drug lexicon,
// the pairwise interaction table, age-bucketed dosage profiles, alternative
// medications and drug information sheets.
//
// All tables are compiled into an immutable Registry at startup. Nothing
// here mutates after BuildRegistry returns, so a single Registry is safe to
// share across concurrent requests without coordination.
package drugbank

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"
)

// interactionKey is the directed key of the interaction table.
type interactionKey struct {
	drug1, drug2 string
}

// LexiconPattern is one compiled lexicon entry.
type LexiconPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// Registry is the immutable, fully indexed drug reference data set.
type Registry struct {
	lexicon      []LexiconPattern
	interactions map[interactionKey]interactionRow
	dosages      map[string]map[entities.AgeGroup]entities.DosageProfile
	alternatives map[string][]entities.AlternativeDrug
	drugInfo     map[string]entities.DrugInformation
	knownDrugs   []string
}

// BuildRegistry compiles the static tables into a Registry. It is called
// once from main; the result never changes afterwards.
func BuildRegistry() *Registry {
	r := &Registry{
		interactions: make(map[interactionKey]interactionRow, len(interactionRows)),
		dosages:      dosageRows,
		alternatives: alternativeRows,
		drugInfo:     drugInfoRows,
	}

	r.lexicon = make([]LexiconPattern, 0, len(lexiconEntries))
	for _, entry := range lexiconEntries {
		r.lexicon = append(r.lexicon, LexiconPattern{
			Name:    entry.Name,
			Pattern: regexp.MustCompile(entry.Pattern),
		})
	}

	seen := make(map[string]bool)
	for _, row := range interactionRows {
		key := interactionKey{row.Drug1, row.Drug2}
		if _, exists := r.interactions[key]; !exists {
			r.interactions[key] = row
		}
		for _, name := range []string{row.Drug1, row.Drug2} {
			if !seen[name] {
				seen[name] = true
				r.knownDrugs = append(r.knownDrugs, name)
			}
		}
	}
	sort.Strings(r.knownDrugs)

	return r
}

// Lexicon returns the compiled recognition patterns in scan order.
func (r *Registry) Lexicon() []LexiconPattern {
	return r.lexicon
}

// KnownDrugs returns the sorted unique drug names present in the
// interaction table.
func (r *Registry) KnownDrugs() []string {
	out := make([]string, len(r.knownDrugs))
	copy(out, r.knownDrugs)
	return out
}

// LexiconSize reports how many canonical drugs the lexicon recognizes.
func (r *Registry) LexiconSize() int {
	return len(r.lexicon)
}

// InteractionCount reports how many rows the interaction table holds.
func (r *Registry) InteractionCount() int {
	return len(r.interactions)
}

// Interactions resolves pairwise interactions for the given canonical
// drug names. Every unordered pair {i, j} with i < j is checked in both
// directions against the table; output order follows the pair generation
// order, so it is fully determined by the caller-supplied sequence.
func (r *Registry) Interactions(drugs []string) []entities.InteractionRecord {
	interactions := make([]entities.InteractionRecord, 0)

	for i := 0; i < len(drugs); i++ {
		for j := i + 1; j < len(drugs); j++ {
			drug1 := strings.ToLower(drugs[i])
			drug2 := strings.ToLower(drugs[j])

			row, found := r.interactions[interactionKey{drug1, drug2}]
			if !found {
				row, found = r.interactions[interactionKey{drug2, drug1}]
			}
			if !found {
				continue
			}

			interactions = append(interactions, entities.InteractionRecord{
				Drug1:       drug1,
				Drug2:       drug2,
				Description: row.Description,
				Severity:    row.Severity,
			})
		}
	}

	return interactions
}

// AgeGroupFor buckets a patient age into a dosage tier. Boundary ages 18
// and 65 both land in the adult tier.
func AgeGroupFor(age int) entities.AgeGroup {
	switch {
	case age < 18:
		return entities.AgePediatric
	case age > 65:
		return entities.AgeElderly
	default:
		return entities.AgeAdult
	}
}

// renalFactors maps impaired clearance tiers to an advisory scaling
// factor. Unrecognized tiers (including "normal") map to 1.0.
var renalFactors = map[entities.RenalFunction]float64{
	entities.RenalMild:     0.75,
	entities.RenalModerate: 0.5,
	entities.RenalSevere:   0.25,
	entities.RenalDialysis: 0.1,
}

// RenalAdjustmentFor returns the advisory renal scaling factor for a
// clearance tier. The factor is metadata only and is never applied to the
// dosage text.
func RenalAdjustmentFor(renal entities.RenalFunction) float64 {
	if factor, ok := renalFactors[entities.RenalFunction(strings.ToLower(string(renal)))]; ok {
		return factor
	}
	return 1.0
}

const consultProvider = "Consult healthcare provider"

// Dosage produces the patient-adjusted dosage recommendation for one drug.
// Unknown drugs yield a placeholder result rather than an error.
func (r *Registry) Dosage(drug string, age int, weight float64, renal entities.RenalFunction) entities.DosageRecommendation {
	name := strings.ToLower(drug)
	renalFactor := RenalAdjustmentFor(renal)

	profiles, known := r.dosages[name]
	if !known {
		return entities.DosageRecommendation{
			Drug:                  drug,
			RecommendedDosage:     consultProvider,
			AgeGroup:              entities.AgeUnknown,
			PatientAge:            age,
			RenalAdjustment:       renalFactor,
			Contraindications:     []string{},
			MaxDaily:              consultProvider,
			SpecialConsiderations: []string{},
		}
	}

	ageGroup := AgeGroupFor(age)
	profile := profiles[ageGroup]

	dosage := profile.StandardDosage
	if dosage == "" {
		dosage = consultProvider
	}
	maxDaily := profile.MaxDaily
	if maxDaily == "" {
		maxDaily = consultProvider
	}

	// Copy before appending age rules so the static table never grows.
	contraindications := make([]string, len(profile.Contraindications))
	copy(contraindications, profile.Contraindications)
	if age < 18 && name == "aspirin" {
		contraindications = append(contraindications, "Reye syndrome risk")
	}

	return entities.DosageRecommendation{
		Drug:                  drug,
		RecommendedDosage:     dosage,
		AgeGroup:              ageGroup,
		PatientAge:            age,
		RenalAdjustment:       renalFactor,
		Contraindications:     contraindications,
		MaxDaily:              maxDaily,
		SpecialConsiderations: r.specialConsiderations(name, age, weight),
	}
}

// specialConsiderations builds the advisory notes: age-tier strings first,
// then the weight note, then drug-specific strings.
func (r *Registry) specialConsiderations(name string, age int, weight float64) []string {
	considerations := make([]string, 0, 6)

	if age > 65 {
		considerations = append(considerations,
			"Increased risk of adverse effects",
			"May require lower dosages",
			"Monitor renal and hepatic function",
		)
	}
	if age < 18 {
		considerations = append(considerations,
			"Pediatric dosing based on weight/age",
			"Monitor for age-specific adverse effects",
		)
	}
	if weight > 100 {
		considerations = append(considerations, "May require weight-based dosing adjustments")
	}

	considerations = append(considerations, specialConsiderationRows[name]...)
	return considerations
}

// Alternatives returns candidate substitutes for a drug, empty when none
// are catalogued.
func (r *Registry) Alternatives(drug string) []entities.AlternativeDrug {
	alts, ok := r.alternatives[strings.ToLower(drug)]
	if !ok {
		return []entities.AlternativeDrug{}
	}
	out := make([]entities.AlternativeDrug, len(alts))
	copy(out, alts)
	return out
}

// DrugInformation returns the reference sheet for a drug. The second
// return reports whether the drug is documented.
func (r *Registry) DrugInformation(drug string) (entities.DrugInformation, bool) {
	info, ok := r.drugInfo[strings.ToLower(drug)]
	return info, ok
}

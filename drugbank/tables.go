package drugbank

import "github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"

// lexiconEntry binds a canonical drug name to its synonym pattern. The
// slice order is the scan order, which fixes the order drugs are reported
// in when several appear in the same prescription.
type lexiconEntry struct {
	Name    string
	Pattern string
}

var lexiconEntries = []lexiconEntry{
	{"aspirin", `aspirin|acetylsalicylic acid|asa`},
	{"ibuprofen", `ibuprofen|advil|motrin|brufen`},
	{"acetaminophen", `acetaminophen|paracetamol|tylenol|panadol`},
	{"amoxicillin", `amoxicillin|amoxil|trimox`},
	{"metformin", `metformin|glucophage`},
	{"lisinopril", `lisinopril|zestril|prinivil`},
	{"simvastatin", `simvastatin|zocor`},
	{"omeprazole", `omeprazole|prilosec|losec`},
	{"prednisone", `prednisone|deltasone`},
	{"albuterol", `albuterol|proventil|ventolin`},
	{"warfarin", `warfarin|coumadin`},
	{"clopidogrel", `clopidogrel|plavix`},
	{"insulin", `insulin|humulin|novolin`},
	{"allopurinol", `allopurinol|zyloprim`},
	{"probenecid", `probenecid|benemid`},
	{"amiodarone", `amiodarone|cordarone`},
	{"propranolol", `propranolol|inderal`},
	{"iron", `iron|ferrous|ferric`},
	{"grapefruit", `grapefruit|citrus`},
	{"alcohol", `alcohol|ethanol|drinking`},
}

// interactionRow is one directed row of the static interaction table.
// Lookups are symmetric: the resolver checks both orderings.
type interactionRow struct {
	Drug1       string
	Drug2       string
	Description string
	Severity    entities.Severity
}

var interactionRows = []interactionRow{
	{"aspirin", "ibuprofen", "May increase risk of gastrointestinal bleeding", entities.SeverityHigh},
	{"aspirin", "warfarin", "Increased risk of bleeding", entities.SeverityHigh},
	{"ibuprofen", "warfarin", "Increased risk of bleeding", entities.SeverityHigh},
	{"acetaminophen", "alcohol", "May cause liver damage", entities.SeverityMedium},
	{"amoxicillin", "allopurinol", "May increase risk of skin rash", entities.SeverityLow},
	{"metformin", "insulin", "May increase risk of hypoglycemia", entities.SeverityMedium},
	{"lisinopril", "ibuprofen", "May reduce blood pressure lowering effect", entities.SeverityMedium},
	{"simvastatin", "grapefruit", "May increase simvastatin levels", entities.SeverityHigh},
	{"omeprazole", "clopidogrel", "May reduce clopidogrel effectiveness", entities.SeverityMedium},
	{"prednisone", "ibuprofen", "May increase risk of stomach ulcers", entities.SeverityMedium},
	{"albuterol", "propranolol", "May reduce albuterol effectiveness", entities.SeverityMedium},
	{"warfarin", "aspirin", "Increased risk of bleeding", entities.SeverityHigh},
	{"clopidogrel", "aspirin", "Increased risk of bleeding", entities.SeverityHigh},
	{"insulin", "metformin", "May increase risk of hypoglycemia", entities.SeverityMedium},
	{"allopurinol", "amoxicillin", "May increase risk of skin rash", entities.SeverityLow},
	{"probenecid", "amoxicillin", "May increase amoxicillin levels", entities.SeverityLow},
	{"amiodarone", "simvastatin", "May increase risk of muscle damage", entities.SeverityHigh},
	{"propranolol", "albuterol", "May reduce albuterol effectiveness", entities.SeverityMedium},
	{"iron", "omeprazole", "May reduce iron absorption", entities.SeverityLow},
	{"grapefruit", "simvastatin", "May increase simvastatin levels", entities.SeverityHigh},
	{"alcohol", "acetaminophen", "May cause liver damage", entities.SeverityMedium},
}

var dosageRows = map[string]map[entities.AgeGroup]entities.DosageProfile{
	"aspirin": {
		entities.AgeAdult: {
			StandardDosage:    "325-650mg every 4-6 hours",
			MaxDaily:          "4000mg",
			Contraindications: []string{"Active bleeding", "Peptic ulcer disease", "Aspirin allergy"},
		},
		entities.AgeElderly: {
			StandardDosage:    "325mg every 4-6 hours",
			MaxDaily:          "2000mg",
			Contraindications: []string{"Active bleeding", "Peptic ulcer disease", "Aspirin allergy", "Renal impairment"},
		},
		entities.AgePediatric: {
			StandardDosage:    "10-15mg/kg every 4-6 hours",
			MaxDaily:          "60mg/kg",
			Contraindications: []string{"Viral infections"},
		},
	},
	"ibuprofen": {
		entities.AgeAdult: {
			StandardDosage:    "200-400mg every 4-6 hours",
			MaxDaily:          "3200mg",
			Contraindications: []string{"Active peptic ulcer", "Renal impairment", "Heart failure"},
		},
		entities.AgeElderly: {
			StandardDosage:    "200mg every 6-8 hours",
			MaxDaily:          "1600mg",
			Contraindications: []string{"Active peptic ulcer", "Renal impairment", "Heart failure", "Hypertension"},
		},
		entities.AgePediatric: {
			StandardDosage:    "5-10mg/kg every 6-8 hours",
			MaxDaily:          "40mg/kg",
			Contraindications: []string{"Dehydration", "Renal impairment"},
		},
	},
	"acetaminophen": {
		entities.AgeAdult: {
			StandardDosage:    "500-1000mg every 4-6 hours",
			MaxDaily:          "4000mg",
			Contraindications: []string{"Liver disease", "Alcohol abuse", "G6PD deficiency"},
		},
		entities.AgeElderly: {
			StandardDosage:    "500mg every 6 hours",
			MaxDaily:          "3000mg",
			Contraindications: []string{"Liver disease", "Alcohol abuse", "Renal impairment"},
		},
		entities.AgePediatric: {
			StandardDosage:    "10-15mg/kg every 4-6 hours",
			MaxDaily:          "75mg/kg",
			Contraindications: []string{"Liver disease", "Dehydration"},
		},
	},
	"amoxicillin": {
		entities.AgeAdult: {
			StandardDosage:    "500mg three times daily",
			MaxDaily:          "3000mg",
			Contraindications: []string{"Penicillin allergy", "Mononucleosis"},
		},
		entities.AgeElderly: {
			StandardDosage:    "500mg twice daily",
			MaxDaily:          "2000mg",
			Contraindications: []string{"Penicillin allergy", "Renal impairment"},
		},
		entities.AgePediatric: {
			StandardDosage:    "20-40mg/kg divided in 3 doses",
			MaxDaily:          "2000mg",
			Contraindications: []string{"Penicillin allergy", "Mononucleosis"},
		},
	},
	"metformin": {
		entities.AgeAdult: {
			StandardDosage:    "500mg twice daily",
			MaxDaily:          "2550mg",
			Contraindications: []string{"Severe renal impairment", "Metabolic acidosis", "Heart failure"},
		},
		entities.AgeElderly: {
			StandardDosage:    "500mg once daily",
			MaxDaily:          "2000mg",
			Contraindications: []string{"Severe renal impairment", "Metabolic acidosis", "Heart failure"},
		},
		entities.AgePediatric: {
			StandardDosage:    "500mg twice daily",
			MaxDaily:          "2000mg",
			Contraindications: []string{"Severe renal impairment", "Metabolic acidosis"},
		},
	},
}

var specialConsiderationRows = map[string][]string{
	"aspirin":       {"Monitor for bleeding", "Avoid in children with viral infections"},
	"ibuprofen":     {"Monitor renal function", "Take with food"},
	"acetaminophen": {"Monitor liver function", "Avoid alcohol"},
	"amoxicillin":   {"Take on empty stomach", "Complete full course"},
	"metformin":     {"Monitor blood glucose", "Take with meals"},
}

var alternativeRows = map[string][]entities.AlternativeDrug{
	"aspirin": {
		{Name: "Clopidogrel", Brand: "Plavix", Class: "Antiplatelet", Indication: "Cardiovascular protection"},
		{Name: "Acetaminophen", Brand: "Tylenol", Class: "Analgesic/Antipyretic", Indication: "Pain and fever"},
	},
	"ibuprofen": {
		{Name: "Acetaminophen", Brand: "Tylenol", Class: "Analgesic/Antipyretic", Indication: "Pain and fever"},
		{Name: "Naproxen", Brand: "Aleve", Class: "NSAID", Indication: "Pain and inflammation"},
	},
	"acetaminophen": {
		{Name: "Ibuprofen", Brand: "Advil", Class: "NSAID", Indication: "Pain and inflammation"},
		{Name: "Aspirin", Brand: "Bayer", Class: "NSAID/Antiplatelet", Indication: "Pain and cardiovascular protection"},
	},
	"amoxicillin": {
		{Name: "Azithromycin", Brand: "Zithromax", Class: "Macrolide", Indication: "Bacterial infections"},
		{Name: "Doxycycline", Brand: "Vibramycin", Class: "Tetracycline", Indication: "Bacterial infections"},
	},
}

var drugInfoRows = map[string]entities.DrugInformation{
	"aspirin": {
		GenericName:       "Acetylsalicylic Acid",
		DrugClass:         "Nonsteroidal Anti-inflammatory Drug (NSAID)",
		Mechanism:         "Inhibits cyclooxygenase enzymes, reducing prostaglandin synthesis",
		Indications:       []string{"Pain relief", "Fever reduction", "Cardiovascular protection"},
		SideEffects:       []string{"GI irritation", "Bleeding risk", "Reye syndrome in children"},
		PregnancyCategory: "C",
		HalfLife:          "2-3 hours",
		Metabolism:        "Hepatic",
		Excretion:         "Renal",
	},
	"ibuprofen": {
		GenericName:       "Ibuprofen",
		DrugClass:         "Nonsteroidal Anti-inflammatory Drug (NSAID)",
		Mechanism:         "Inhibits cyclooxygenase-1 and cyclooxygenase-2",
		Indications:       []string{"Pain relief", "Inflammation reduction", "Fever"},
		SideEffects:       []string{"GI irritation", "Renal impairment", "Cardiovascular risk"},
		PregnancyCategory: "C",
		HalfLife:          "2-4 hours",
		Metabolism:        "Hepatic",
		Excretion:         "Renal",
	},
}

// Package validation provides request validation for the MedSafe API.
package validation

import (
	"fmt"
	"strings"

	"github.com/Trisha2910tinaaaaa/medsafe/drugbank/entities"
	"github.com/Trisha2910tinaaaaa/medsafe/interfaces"
)

// Prescription text is free-form, so validation stays permissive: block
// only obvious injection payloads and abusive sizes, never legitimate
// medical wording.
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
	"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
	"eval(", "expression(", "@import", "binding(", "behavior(",
	// SQL injection patterns
	"union select", "drop table", "delete from", "insert into",
	"xp_", "sp_", "exec(", "execute(",
	// Path traversal patterns
	"../", "..\\", "%2e%2e", "file://",
	// NoSQL injection patterns
	"{$ne:", "{$gt:", "{$where:", "{$or:", "{$regex:", "{$expr:",
}

const (
	maxPrescriptionLength = 10000
	maxDrugNameLength     = 50
	maxPatientAge         = 150
	maxPatientWeight      = 500 // kilograms
)

// Compile-time check to ensure RequestValidatorImpl implements RequestValidator
var _ interfaces.RequestValidator = (*RequestValidatorImpl)(nil)

// RequestValidatorImpl implements the interfaces.RequestValidator interface
type RequestValidatorImpl struct{}

// NewRequestValidator creates a new request validator
func NewRequestValidator() interfaces.RequestValidator {
	return &RequestValidatorImpl{}
}

// ValidatePrescriptionText validates free-text prescription input
func (v *RequestValidatorImpl) ValidatePrescriptionText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("prescription text cannot be empty")
	}

	if len(text) > maxPrescriptionLength {
		return fmt.Errorf("prescription text too long: maximum %d characters", maxPrescriptionLength)
	}

	lowerText := strings.ToLower(text)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerText, pattern) {
			return fmt.Errorf("prescription text contains potentially dangerous content")
		}
	}

	return nil
}

// ValidateDrugName validates a drug name path parameter
func (v *RequestValidatorImpl) ValidateDrugName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("drug name cannot be empty")
	}

	if len(name) > maxDrugNameLength {
		return fmt.Errorf("drug name too long: maximum %d characters", maxDrugNameLength)
	}

	// Drug names are letters, digits, spaces and a few joiners. Anything
	// else never matches the lexicon anyway.
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == ' ', r == '-', r == '\'', r == '.':
		default:
			return fmt.Errorf("drug name contains invalid characters. Only letters, numbers, spaces, hyphens, apostrophes and periods are allowed")
		}
	}

	if v.hasExcessiveRepetition(name) {
		return fmt.Errorf("drug name contains excessive character repetition")
	}

	return nil
}

// ValidateAge validates a patient age in years
func (v *RequestValidatorImpl) ValidateAge(age int) error {
	if age < 0 {
		return fmt.Errorf("age cannot be negative, got: %d", age)
	}

	if age > maxPatientAge {
		return fmt.Errorf("age is too large (max %d), got: %d", maxPatientAge, age)
	}

	return nil
}

// ValidateWeight validates an optional patient weight in kilograms
func (v *RequestValidatorImpl) ValidateWeight(weight float64) error {
	if weight < 0 {
		return fmt.Errorf("weight cannot be negative, got: %.1f", weight)
	}

	if weight > maxPatientWeight {
		return fmt.Errorf("weight is too large (max %d kg), got: %.1f", maxPatientWeight, weight)
	}

	return nil
}

// ValidateRenalFunction normalizes the renal function field. Unrecognized
// values fall back to normal clearance rather than failing the request,
// matching the advisory nature of the renal adjustment.
func (v *RequestValidatorImpl) ValidateRenalFunction(value string) entities.RenalFunction {
	switch entities.RenalFunction(strings.ToLower(strings.TrimSpace(value))) {
	case entities.RenalMild:
		return entities.RenalMild
	case entities.RenalModerate:
		return entities.RenalModerate
	case entities.RenalSevere:
		return entities.RenalSevere
	case entities.RenalDialysis:
		return entities.RenalDialysis
	default:
		return entities.RenalNormal
	}
}

// ValidateLanguage normalizes a two-letter language code, defaulting
// to English for anything it does not recognize.
func (v *RequestValidatorImpl) ValidateLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if len(lang) != 2 {
		return "en"
	}

	for _, r := range lang {
		if r < 'a' || r > 'z' {
			return "en"
		}
	}
	return lang
}

// hasExcessiveRepetition checks for potential DoS patterns with excessive character repetition
func (v *RequestValidatorImpl) hasExcessiveRepetition(input string) bool {
	// Check for the same character repeated more than 10 times consecutively
	for i := 0; i < len(input)-10; i++ {
		allSame := true
		for j := 1; j <= 10; j++ {
			if input[i] != input[i+j] {
				allSame = false
				break
			}
		}
		if allSame {
			return true
		}
	}
	return false
}

package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/clinica-bage/app-rx/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		IsValid: true,
		Errors:  []ValidationError{},
	}
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.IsValid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// Merge appends the errors of other, prefixing their fields
func (vr *ValidationResult) Merge(prefix string, other *ValidationResult) {
	for _, e := range other.Errors {
		vr.AddError(prefix+e.Field, e.Message)
	}
}

// Error renders the result as a single message
func (vr *ValidationResult) Error() string {
	parts := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// ValidateAddress checks the optional address fields of a form. Every field
// may be empty; the ones that are set must be well formed.
func ValidateAddress(a models.Address) *ValidationResult {
	result := NewValidationResult()

	if a.PostalCode != "" && !IsCompleteCEP(a.PostalCode) {
		result.AddError("postalCode", "CEP must have 8 digits")
	}
	if a.StateCode != "" && len(strings.TrimSpace(a.StateCode)) != 2 {
		result.AddError("stateCode", "State code must be exactly 2 characters")
	}
	if len(a.Street) > 200 {
		result.AddError("street", "Street must not exceed 200 characters")
	}
	if len(a.Number) > 20 {
		result.AddError("number", "Number must not exceed 20 characters")
	}
	if len(a.Complement) > 100 {
		result.AddError("complement", "Complement must not exceed 100 characters")
	}
	if len(a.Neighborhood) > 100 {
		result.AddError("neighborhood", "Neighborhood must not exceed 100 characters")
	}
	if len(a.City) > 100 {
		result.AddError("city", "City must not exceed 100 characters")
	}

	return result
}

// ValidateIdentityForm checks the patient contact fields sent with a
// prescription. CPF and phone are taken as typed: a CPF that is not 11
// digits is replaced by a placeholder and any phone with digits counts.
func ValidateIdentityForm(form models.IdentityForm) *ValidationResult {
	result := NewValidationResult()

	if form.Email != "" && !emailRegex.MatchString(form.Email) {
		result.AddError("email", "Invalid email format")
	}
	if len(form.FullName) > 200 {
		result.AddError("fullName", "Name must not exceed 200 characters")
	}
	result.Merge("address.", ValidateAddress(form.Address))

	return result
}

// ValidateRegistration checks a self-registration form. Unlike the
// contact fields of a prescription, a CPF or phone typed by the account
// owner must be real.
func ValidateRegistration(req models.RegisterRequest) *ValidationResult {
	result := NewValidationResult()

	if strings.TrimSpace(req.Name) == "" {
		result.AddError("name", "Name is required")
	} else if len(req.Name) > 200 {
		result.AddError("name", "Name must not exceed 200 characters")
	}
	if !emailRegex.MatchString(req.Email) {
		result.AddError("email", "Invalid email format")
	}
	if len(req.Password) < 6 {
		result.AddError("password", "Password must have at least 6 characters")
	}
	validateOwnContact(result, req.CPF, req.Phone)
	if req.Address != nil {
		result.Merge("address.", ValidateAddress(*req.Address))
	}

	return result
}

// ValidateProfileUpdate checks the fields a user may change on their own record
func ValidateProfileUpdate(p models.IdentityPayload) *ValidationResult {
	result := NewValidationResult()

	if len(p.Name) > 200 {
		result.AddError("name", "Name must not exceed 200 characters")
	}
	if p.Email != "" && !emailRegex.MatchString(p.Email) {
		result.AddError("email", "Invalid email format")
	}
	validateOwnContact(result, p.CPF, p.Phone)
	if p.Address != nil {
		result.Merge("address.", ValidateAddress(*p.Address))
	}

	return result
}

func validateOwnContact(result *ValidationResult, cpf, phone string) {
	if cpf != "" && !ValidateCPF(cpf) {
		result.AddError("cpf", "Invalid CPF")
	}
	if phone != "" && !IsValidPhone(phone) {
		result.AddError("phone", "Phone number is not valid")
	}
}

// ValidatePrescription checks a renewal request before it is saved
func ValidatePrescription(p models.PrescriptionRequest) *ValidationResult {
	result := NewValidationResult()

	if strings.TrimSpace(p.MedicationName) == "" {
		result.AddError("medicationName", "Medication name is required")
	}
	if strings.TrimSpace(p.Dosage) == "" {
		result.AddError("dosage", "Dosage is required")
	}
	if p.NumberOfBoxes < 1 {
		result.AddError("numberOfBoxes", "Number of boxes must be at least 1")
	}
	if !p.DeliveryMethod.Valid() {
		result.AddError("deliveryMethod", "Delivery method must be clinic or email")
	}
	if p.Status != "" {
		validateStatusRule(result, p.Status, p.RejectionReason)
	}

	return result
}

// ValidateStatusUpdate checks a status transition payload
func ValidateStatusUpdate(u models.PrescriptionStatusUpdate) *ValidationResult {
	result := NewValidationResult()
	validateStatusRule(result, u.Status, u.RejectionReason)
	return result
}

// a rejection reason is required iff the status is rejected
func validateStatusRule(result *ValidationResult, status models.PrescriptionStatus, reason string) {
	if !status.Valid() {
		result.AddError("status", "Unknown status")
		return
	}
	hasReason := strings.TrimSpace(reason) != ""
	if status == models.PrescriptionRejected && !hasReason {
		result.AddError("rejectionReason", "Rejection reason is required when rejecting")
	}
	if status != models.PrescriptionRejected && hasReason {
		result.AddError("rejectionReason", "Rejection reason is only allowed when rejecting")
	}
}

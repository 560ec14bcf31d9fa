package usecase

import (
	"regexp"

	domainErrors "github.com/gildedline/atelier/internal/domain/errors"
	"github.com/gildedline/atelier/internal/domain/model"
	"github.com/gildedline/atelier/internal/domain/repository"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks address shape with the standard pattern.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validateCreate(in CreateDesignInput) error {
	var missing []domainErrors.FieldError
	if in.ProjectTitle == "" {
		missing = append(missing, domainErrors.FieldError{Field: "projectTitle", Message: "required"})
	}
	if in.ProjectDescription == "" {
		missing = append(missing, domainErrors.FieldError{Field: "projectDescription", Message: "required"})
	}
	if in.ProjectType == "" {
		missing = append(missing, domainErrors.FieldError{Field: "projectType", Message: "required"})
	}
	if len(missing) > 0 {
		return &domainErrors.ValidationError{Code: domainErrors.CodeMissingRequiredFields, Fields: missing}
	}

	if !in.ProjectType.Valid() {
		return domainErrors.NewValidation(domainErrors.CodeValidationError, "projectType", "unknown project type")
	}

	var contact []domainErrors.FieldError
	if in.Customer.FirstName == "" {
		contact = append(contact, domainErrors.FieldError{Field: "customerInfo.firstName", Message: "required"})
	}
	if in.Customer.LastName == "" {
		contact = append(contact, domainErrors.FieldError{Field: "customerInfo.lastName", Message: "required"})
	}
	if in.Customer.Email == "" {
		contact = append(contact, domainErrors.FieldError{Field: "customerInfo.email", Message: "required"})
	}
	if len(contact) > 0 {
		return &domainErrors.ValidationError{Code: domainErrors.CodeMissingCustomerInfo, Fields: contact}
	}

	if !ValidateEmail(in.Customer.Email) {
		return domainErrors.NewValidation(domainErrors.CodeInvalidEmailFormat, "customerInfo.email", "invalid email format")
	}

	if err := validateBudget(in.Budget); err != nil {
		return err
	}

	if in.Complexity != "" && !in.Complexity.Valid() {
		return domainErrors.NewValidation(domainErrors.CodeValidationError, "complexity", "unknown complexity")
	}

	return nil
}

func validateBudget(b model.BudgetRange) error {
	if b.Minimum != nil && *b.Minimum < 0 {
		return domainErrors.NewValidation(domainErrors.CodeInvalidBudgetRange, "budget.minimum", "must not be negative")
	}
	if b.Maximum != nil && *b.Maximum < 0 {
		return domainErrors.NewValidation(domainErrors.CodeInvalidBudgetRange, "budget.maximum", "must not be negative")
	}
	if b.Minimum != nil && b.Maximum != nil && *b.Minimum > *b.Maximum {
		return domainErrors.NewValidation(domainErrors.CodeInvalidBudgetRange, "budget", "minimum exceeds maximum")
	}
	return nil
}

func validateQuote(in QuoteInput) error {
	var missing []domainErrors.FieldError
	if in.Price.Amount <= 0 {
		missing = append(missing, domainErrors.FieldError{Field: "price.amount", Message: "required"})
	}
	if in.Description == "" {
		missing = append(missing, domainErrors.FieldError{Field: "description", Message: "required"})
	}
	if len(missing) > 0 {
		return &domainErrors.ValidationError{Code: domainErrors.CodeMissingQuoteInfo, Fields: missing}
	}
	return nil
}

func validatePatch(patch repository.UpdatePatch) error {
	var fields []domainErrors.FieldError
	if patch.Status != nil && !patch.Status.Valid() {
		fields = append(fields, domainErrors.FieldError{Field: "status", Message: "unknown status"})
	}
	if patch.ProjectType != nil && !patch.ProjectType.Valid() {
		fields = append(fields, domainErrors.FieldError{Field: "projectType", Message: "unknown project type"})
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		fields = append(fields, domainErrors.FieldError{Field: "priority", Message: "unknown priority"})
	}
	if patch.Complexity != nil && !patch.Complexity.Valid() {
		fields = append(fields, domainErrors.FieldError{Field: "complexity", Message: "unknown complexity"})
	}
	if patch.ProjectTitle != nil && *patch.ProjectTitle == "" {
		fields = append(fields, domainErrors.FieldError{Field: "projectTitle", Message: "must not be empty"})
	}
	for _, m := range patch.Milestones {
		if m.Name == "" {
			fields = append(fields, domainErrors.FieldError{Field: "milestones", Message: "milestone name required"})
			break
		}
		if m.Status != "" && !m.Status.Valid() {
			fields = append(fields, domainErrors.FieldError{Field: "milestones", Message: "unknown milestone status"})
			break
		}
	}
	if len(fields) > 0 {
		return &domainErrors.ValidationError{Code: domainErrors.CodeValidationError, Fields: fields}
	}
	return nil
}

// PriorityFromUrgency maps a requested urgency to the default priority.
func PriorityFromUrgency(urgency string) model.Priority {
	switch urgency {
	case "rush":
		return model.PriorityHigh
	case "flexible":
		return model.PriorityLow
	default:
		return model.PriorityMedium
	}
}

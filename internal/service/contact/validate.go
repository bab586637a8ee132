package contact

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Submission carries the fields of a public contact form submission.
// Email is deliberately a bounded opaque string, not a parsed address:
// depending on the configured contact method it may hold a phone number
// or a messenger handle.
type Submission struct {
	Name           string `validate:"required,max=255"`
	Email          string `validate:"required,max=255"`
	Message        string `validate:"required,min=10,max=5000"`
	SecurityAnswer string
	ConsentAgreed  bool
	IPAddress      string
	UserAgent      string
}

// FieldError describes a single violated validation rule.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationErrors reports every violated rule of a submission.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+" "+fe.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

// validateSubmission checks the field rules and returns every violation
// at once so the client can surface them together.
func (s *Service) validateSubmission(sub *Submission) ValidationErrors {
	err := s.validate.Struct(sub)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "submission", Reason: "is invalid"}}
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:  strings.ToLower(fe.Field()),
			Reason: reasonFor(fe),
		})
	}
	return out
}

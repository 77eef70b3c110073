package domain

import (
	"regexp"
	"strings"
)

const (
	maxPhoneLength   = 20
	minNameLength    = 2
	minProjectLength = 2
	minMessageLength = 10
)

// Validation messages, in the order the rules run.
const (
	ErrSpamDetected    = "Spam detected."
	ErrNameRequired    = "Name is required."
	ErrContactRequired = "Provide phone or email."
	ErrInvalidEmail    = "Invalid email."
	ErrProjectRequired = "Project type is required."
	ErrMessageTooShort = "Message should be at least 10 characters."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationResult is the outcome of Validate. Data is populated even when
// OK is false.
type ValidationResult struct {
	OK     bool
	Errors []string
	Data   Inquiry
}

// Validate normalizes a submission and collects every rule it breaks.
// Rules do not short-circuit: a honeypot hit is reported next to any other
// failures.
func Validate(sub Submission) ValidationResult {
	data := Inquiry{
		Name:        strings.TrimSpace(sub.Name),
		Email:       strings.TrimSpace(sub.Email),
		Phone:       NormalizePhone(sub.Phone),
		ProjectType: strings.TrimSpace(sub.ProjectType),
		Deadline:    strings.TrimSpace(sub.Deadline),
		Budget:      strings.TrimSpace(sub.Budget),
		Message:     strings.TrimSpace(sub.Message),
	}

	var errs []string
	if strings.TrimSpace(sub.Company) != "" {
		errs = append(errs, ErrSpamDetected)
	}
	if runeLen(data.Name) < minNameLength {
		errs = append(errs, ErrNameRequired)
	}
	if data.Phone == "" && data.Email == "" {
		errs = append(errs, ErrContactRequired)
	}
	if data.Email != "" && !IsValidEmail(data.Email) {
		errs = append(errs, ErrInvalidEmail)
	}
	if runeLen(data.ProjectType) < minProjectLength {
		errs = append(errs, ErrProjectRequired)
	}
	if runeLen(data.Message) < minMessageLength {
		errs = append(errs, ErrMessageTooShort)
	}

	return ValidationResult{
		OK:     len(errs) == 0,
		Errors: errs,
		Data:   data,
	}
}

// NormalizePhone keeps only digits and '+' and truncates to 20 characters.
// Applying it twice yields the same value as applying it once.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
			if b.Len() == maxPhoneLength {
				break
			}
		}
	}
	return b.String()
}

// IsValidEmail applies the loose local@domain.tld check.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func runeLen(s string) int {
	return len([]rune(s))
}

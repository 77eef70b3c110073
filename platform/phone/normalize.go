// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// TelURI returns a dialable tel: URI for input, or "" when the number
// cannot be parsed as a valid number. region (ISO 3166-1 alpha-2) resolves
// numbers entered without a country prefix; with an empty region only
// international "+" numbers resolve.
func TelURI(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return ""
	}

	return "tel:" + phonenumbers.Format(number, phonenumbers.E164)
}

package connector

import "regexp"

// Placeholder tokens substituted by ScrubPII.
const (
	EmailToken = "[EMAIL]"
	PhoneToken = "[PHONE]"
	CardToken  = "[CARD]"
)

var (
	cardPattern  = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
)

// ScrubPII replaces e-mail addresses, phone-like digit groups and 16-digit
// card-like sequences with fixed placeholder tokens. Cards are replaced
// first so their digits are never partially consumed as phone numbers.
func ScrubPII(text string) string {
	if text == "" {
		return text
	}
	text = cardPattern.ReplaceAllString(text, CardToken)
	text = emailPattern.ReplaceAllString(text, EmailToken)
	return phonePattern.ReplaceAllString(text, PhoneToken)
}

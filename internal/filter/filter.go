// Package filter decides whether a captured field value is safe to persist.
// Every function here is a pure predicate: no I/O, no mutable state, and the
// same inputs always yield the same verdict. This is a heuristic screen, not
// a security boundary.
package filter

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldKind identifies the element kind an input event came from.
type FieldKind string

const (
	KindInput    FieldKind = "input"    // single-line <input>
	KindTextArea FieldKind = "textarea" // multi-line text area
	KindEditable FieldKind = "editable" // contenteditable region
	KindOther    FieldKind = "other"    // anything else, never captured
)

// Field describes the metadata of a candidate input field.
type Field struct {
	Kind         FieldKind
	Type         string // declared input type; only meaningful for KindInput
	Name         string
	ID           string
	Placeholder  string
	Autocomplete string
}

// MinContentChars is the minimum trimmed content length worth recording.
const MinContentChars = 5

// sensitiveFieldKeywords are substrings that mark a field as sensitive when
// found in its name, id, placeholder, or autocomplete attributes.
var sensitiveFieldKeywords = []string{
	"password", "passwd", "pwd", "pass",
	"secret", "token", "apikey", "api_key", "api-key",
	"card", "credit", "debit", "cvv", "cvc", "ccv",
	"ssn", "social",
	"otp", "verification", "verify", "code",
	"pin", "security",
}

// sensitiveDomains are hostname substrings for banking, payment, health, and
// government sites. Matching is bidirectional: a hostname containing an entry
// or contained by one is excluded wholesale.
var sensitiveDomains = []string{
	// banking
	"bank", "banking", "chase", "wellsfargo", "citi", "bofa",
	"icbc", "ccb", "boc", "abc", "cmb", "spdb",
	// payment
	"paypal", "stripe", "alipay", "wechatpay", "venmo",
	// health
	"hospital", "medical", "health", "clinic",
	// government
	"gov", "irs", "ssa",
}

// cardNumberRegex matches card numbers: four groups of four digits,
// optionally separated by spaces or hyphens.
var cardNumberRegex = regexp.MustCompile(`\b(?:\d{4}[-\s]?){3}\d{4}\b`)

// nationalIDRegex matches 18-character national ID numbers: 17 digits
// followed by a digit or check letter.
var nationalIDRegex = regexp.MustCompile(`\b\d{17}[\dXx]\b`)

// otpRegex matches a 4-6 digit numeric string in its entirety.
var otpRegex = regexp.MustCompile(`^\d{4,6}$`)

// IsSensitiveDomain reports whether hostname belongs to a sensitive site.
// The comparison is case-insensitive and matches substrings in either
// direction.
func IsSensitiveDomain(hostname string) bool {
	lower := strings.ToLower(hostname)
	for _, d := range sensitiveDomains {
		if strings.Contains(lower, d) || strings.Contains(d, lower) {
			return true
		}
	}
	return false
}

// IsSensitiveField reports whether the field itself should never be recorded,
// based on its declared type and attribute text.
func IsSensitiveField(f Field) bool {
	if f.Kind == KindInput {
		switch strings.ToLower(f.Type) {
		case "password", "hidden":
			return true
		}
	}

	allText := strings.ToLower(f.Name + " " + f.ID + " " + f.Placeholder + " " + f.Autocomplete)
	for _, keyword := range sensitiveFieldKeywords {
		if strings.Contains(allText, keyword) {
			return true
		}
	}

	return false
}

// ContainsSensitiveContent reports whether content carries a sensitive
// pattern: a card number, a national ID, or (when the whole trimmed value is
// 4-6 digits) a one-time code.
func ContainsSensitiveContent(content string) bool {
	if cardNumberRegex.MatchString(content) {
		return true
	}
	if nationalIDRegex.MatchString(content) {
		return true
	}
	if otpRegex.MatchString(strings.TrimSpace(content)) {
		return true
	}
	return false
}

// ShouldRecord is the combined recording verdict for one field value.
// Checks short-circuit in a fixed order: domain first (an excluded page
// rejects every field on it), then field metadata, then content patterns,
// then minimum length.
func ShouldRecord(f Field, content, hostname string) bool {
	if IsSensitiveDomain(hostname) {
		return false
	}
	if IsSensitiveField(f) {
		return false
	}
	if ContainsSensitiveContent(content) {
		return false
	}
	if utf8.RuneCountInString(strings.TrimSpace(content)) < MinContentChars {
		return false
	}
	return true
}

// Package phone normalizes free-text Brazilian phone numbers typed into lead
// forms. Parsing is permissive and never fails; IsValid is the separate,
// stricter check used to flag incomplete numbers to the user.
package phone

import (
	"regexp"
	"strings"
)

const (
	CountryCode = "55"

	// maxLocalDigits is DDD (2) plus the longest subscriber number (9).
	maxLocalDigits = 11
)

var nonDigits = regexp.MustCompile(`\D+`)

// ninthDigitDDDs are the area codes whose mobile numbers carry the leading 9.
var ninthDigitDDDs = map[string]struct{}{
	"11": {}, "12": {}, "13": {}, "14": {}, "15": {}, "16": {}, "17": {}, "18": {}, "19": {},
	"21": {}, "22": {}, "24": {}, "27": {}, "28": {},
}

// RequiresNinthDigit reports whether subscribers under ddd use 9-digit numbers.
func RequiresNinthDigit(ddd string) bool {
	_, ok := ninthDigitDDDs[ddd]
	return ok
}

func digitsOnly(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}

// localDigits drops a leading country code, but only when enough digits
// remain for it to be a prefix rather than DDD 55.
func localDigits(digits string) string {
	if strings.HasPrefix(digits, CountryCode) && len(digits) >= 12 {
		return digits[len(CountryCode):]
	}
	return digits
}

// ExtractDigits reduces raw input to at most 11 local digits (DDD + subscriber).
func ExtractDigits(raw string) string {
	digits := localDigits(digitsOnly(raw))
	if len(digits) > maxLocalDigits {
		digits = digits[:maxLocalDigits]
	}
	return digits
}

// Format renders local digits for display: (DD) XXXX-XXXX or (DD) XXXXX-XXXX.
// Incomplete numbers are rendered as far as they go.
func Format(digits string) string {
	if digits == "" {
		return ""
	}
	if len(digits) < 3 {
		return "(" + digits + ")"
	}

	ddd, sub := digits[:2], digits[2:]
	var b strings.Builder
	b.WriteString("(" + ddd + ") ")

	switch {
	case len(sub) <= 4:
		b.WriteString(sub)
	case len(sub) <= 8:
		b.WriteString(sub[:4] + "-" + sub[4:])
	default:
		b.WriteString(sub[:5] + "-" + sub[5:])
	}
	return b.String()
}

// Normalize9thDigit enforces the per-DDD subscriber length: it adds the
// leading 9 where the area code requires it and strips it where the area code
// does not. Anything else is returned unchanged.
func Normalize9thDigit(digits string) string {
	if len(digits) < 10 {
		return digits
	}

	ddd, sub := digits[:2], digits[2:]
	if RequiresNinthDigit(ddd) {
		if len(sub) == 8 && sub[0] != '9' {
			return ddd + "9" + sub
		}
		return digits
	}

	if len(sub) == 9 && sub[0] == '9' {
		return ddd + sub[1:]
	}
	return digits
}

// IsValid reports whether value, with or without the 55 prefix, holds a
// complete local number of 10 or 11 digits.
func IsValid(value string) bool {
	n := len(localDigits(digitsOnly(value)))
	return n == 10 || n == 11
}

// Canonical is the form persisted with a lead: "55" followed by the
// normalized local digits. Input without digits yields "".
func Canonical(raw string) string {
	digits := Normalize9thDigit(ExtractDigits(raw))
	if digits == "" {
		return ""
	}
	return CountryCode + digits
}

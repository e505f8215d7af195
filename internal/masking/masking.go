// Package masking formats account numbers for display with the middle
// portion redacted. The function is total: any string in, a string out,
// never a panic.
package masking

import "strings"

const (
	visiblePrefix = 3
	visibleSuffix = 4
	maxMaskLen    = 4
)

// MaskAccountNumber redacts the middle of an account number.
//
// Numbers written as three hyphen-separated segments keep their segment
// boundaries and have the middle segment starred out at its original
// length ("110-123-456789" -> "110-***-456789"). Other strings longer
// than 8 characters keep the first 3 and last 4 characters with up to
// 4 stars in between. Everything else is returned unchanged; empty
// input yields an empty string.
func MaskAccountNumber(s string) string {
	if s == "" {
		return ""
	}

	if parts := strings.Split(s, "-"); len(parts) == 3 {
		parts[1] = strings.Repeat("*", len(parts[1]))
		return strings.Join(parts, "-")
	}

	if len(s) <= visiblePrefix+visibleSuffix+1 {
		return s
	}

	maskLen := len(s) - visiblePrefix - visibleSuffix
	if maskLen > maxMaskLen {
		maskLen = maxMaskLen
	}
	return s[:visiblePrefix] + strings.Repeat("*", maskLen) + s[len(s)-visibleSuffix:]
}

// Package cpf normalizes and formats Brazilian CPF tax IDs.
//
// The ledger keys customers by the bare 11-digit string; identity is
// digit equality and nothing more. There is no check-digit
// verification, matching the validation the checkout flow applies.
package cpf

import "strings"

// Normalize strips everything but digits from a CPF as typed by the
// user ("111.111.111-11" -> "11111111111").
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether s normalizes to exactly 11 digits.
func Valid(s string) bool {
	return len(Normalize(s)) == 11
}

// Format renders a normalized CPF as "111.111.111-11". Input that is
// not 11 digits is returned unchanged.
func Format(s string) string {
	digits := Normalize(s)
	if len(digits) != 11 {
		return s
	}
	return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:]
}

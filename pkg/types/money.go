package types

import "fmt"

// Cents is a monetary amount in integer cents of Brazilian real.
// Integer arithmetic keeps order totals exact; rounding, where a
// computation calls for it, is half-up on cents.
type Cents int64

// Real returns the amount in reais as a float. Display only; never
// feed the result back into arithmetic.
func (c Cents) Real() float64 {
	return float64(c) / 100
}

// String formats the amount as "R$ 12,34".
func (c Cents) String() string {
	sign := ""
	v := c
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%sR$ %d,%02d", sign, v/100, v%100)
}

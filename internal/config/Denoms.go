/*

This file maps denoms to the exponent of their display unit.

If a denom has no entry here a leading "u" is taken to mean micro units, anything else is shown as is.

*/

package config

import "strings"

var (
	DenomExponents = map[string]int{
		DefaultPrincipalDenom: 6,
		DefaultUsdDenom:       6,
		DefaultBaseDenom:      6,
		DefaultStakedDenom:    6,
		"aevmos":              18,
	}
)

// DisplayExponent returns the exponent of the display unit of denom.
func DisplayExponent(denom string) int {
	if exp, ok := DenomExponents[denom]; ok {
		return exp
	}
	if strings.HasPrefix(denom, "u") {
		return 6
	}
	return 0
}

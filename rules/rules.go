// Package rules holds the demographic legality predicates used by family
// formation. All functions are pure and total over their inputs.
package rules

import "github.com/katalvlaran/synthpop/demography"

// MaxParentChildGap is the largest legal gap, in years, between a parent's
// band minimum and a child's band maximum.
const MaxParentChildGap = 46

// ValidateParentChildAgeRule reports whether a person in parent may be the
// parent of a person in child.
//
// With gap = parent.Min - child.Max the pairing is legal iff 0 < gap <= 46:
// a child whose band reaches the parent's minimum age is never legal.
//
// Complexity: O(1).
func ValidateParentChildAgeRule(parent, child demography.AgeRange) bool {
	gap := parent.Min - child.Max
	return 0 < gap && gap <= MaxParentChildGap
}

// LegalParentRanges returns the bands of the catalogue that may parent a child in child.
func LegalParentRanges(bands demography.Bands, child demography.AgeRange) []demography.AgeRange {
	return bands.Filter(func(p demography.AgeRange) bool {
		return ValidateParentChildAgeRule(p, child)
	})
}

// LegalChildRanges returns the bands of the catalogue that a parent in parent may parent.
func LegalChildRanges(bands demography.Bands, parent demography.AgeRange) []demography.AgeRange {
	return bands.Filter(func(c demography.AgeRange) bool {
		return ValidateParentChildAgeRule(parent, c)
	})
}

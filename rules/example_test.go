package rules_test

import (
	"fmt"

	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/rules"
)

// ExampleValidateParentChildAgeRule shows the gap between the parent's lower
// bound and the child's upper bound.
//
//	[35,44] / [0,9]  gap 26 -> valid
//	[0,9]   / [0,9]  gap -9 -> invalid
//	[56,65] / [0,9]  gap 47 -> invalid
func ExampleValidateParentChildAgeRule() {
	child := demography.AgeRange{Min: 0, Max: 9}
	fmt.Println(rules.ValidateParentChildAgeRule(demography.AgeRange{Min: 35, Max: 44}, child))
	fmt.Println(rules.ValidateParentChildAgeRule(child, child))
	fmt.Println(rules.ValidateParentChildAgeRule(demography.AgeRange{Min: 56, Max: 65}, child))
	// Output:
	// true
	// false
	// false
}

// ExampleLegalChildRanges lists the default bands a 30-44 parent may parent.
func ExampleLegalChildRanges() {
	for _, r := range rules.LegalChildRanges(demography.DefaultBands(), demography.A30to44) {
		fmt.Println(r)
	}
	// Output:
	// 0-14
	// 15-29
}

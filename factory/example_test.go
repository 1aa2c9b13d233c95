package factory_test

import (
	"fmt"

	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/extras"
	"github.com/katalvlaran/synthpop/factory"
	"github.com/katalvlaran/synthpop/person"
	"github.com/katalvlaran/synthpop/rng"
)

// ExampleFactory_FormCoupleFamilyBasicUnits pairs males and females by age rank.
func ExampleFactory_FormCoupleFamilyBasicUnits() {
	reg := person.NewRegistry()
	create := func(sex demography.Sex, age int) *person.Person {
		p, _ := reg.Create(demography.Married, sex, age)
		return p
	}
	males := person.Pool{create(demography.Male, 28), create(demography.Male, 63)}
	females := person.Pool{create(demography.Female, 61), create(demography.Female, 24)}

	fams, err := factory.New(reg, extras.Empty{}).FormCoupleFamilyBasicUnits(rng.New(1), 2, &males, &females)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, f := range fams {
		m := f.Members()
		fmt.Printf("%d %s: %d + %d\n", f.ID, f.Type, m[0].Age, m[1].Age)
	}
	// Output:
	// 1 COUPLE_ONLY: 63 + 61
	// 2 COUPLE_ONLY: 28 + 24
}

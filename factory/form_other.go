package factory

import (
	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/extras"
	"github.com/katalvlaran/synthpop/family"
	"github.com/katalvlaran/synthpop/person"
	"github.com/katalvlaran/synthpop/rng"
)

// FormOtherFamilyBasicUnits forms count OTHER_FAMILY units of two RELATIVE
// persons each, linked to one another as relatives.
//
// The pool is topped up to 2*count and shuffled; members are taken in pairs
// from the front.
func (f *Factory) FormOtherFamilyBasicUnits(r *rng.Stream, count int, relatives *person.Pool) ([]*family.Family, error) {
	if err := checkCount(count); err != nil {
		return nil, err
	}

	filter := extras.Filter{Statuses: []demography.RelationshipStatus{demography.Relative}}
	err := f.topUp(OpOtherFamily, "relatives", relatives, 2*count, func(n int) ([]*person.Person, error) {
		return f.extras.PersonsFromExtras(r, filter, n)
	})
	if err != nil {
		return nil, f.shortfall(OpOtherFamily, count, nil, err)
	}

	rng.Shuffle(r, *relatives)

	fams := make([]*family.Family, 0, count)
	for i := 0; i < count; i++ {
		if relatives.Len() < 2 {
			return nil, f.shortfall(OpOtherFamily, count, fams, nil)
		}
		a, _ := relatives.PopFront()
		b, _ := relatives.PopFront()
		if err := f.reg.AddRelative(a.ID, b.ID); err != nil {
			return nil, errors.Wrapf(err, "factory: relate %s and %s", a.ID, b.ID)
		}
		fam := family.New(0, family.OtherFamily)
		fam.Add(a)
		fam.Add(b)
		if err := f.commit(fam); err != nil {
			return nil, err
		}
		fams = append(fams, fam)
	}
	return fams, nil
}

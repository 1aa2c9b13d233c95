package factory

import (
	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/extras"
	"github.com/katalvlaran/synthpop/family"
	"github.com/katalvlaran/synthpop/person"
	"github.com/katalvlaran/synthpop/rng"
	"github.com/katalvlaran/synthpop/rules"
)

// FormOneParentBasicUnits forms count ONE_PARENT families of one lone parent
// and one child.
//
// Implementation:
//   - Stage 1: If lone parents are short, draw LONE_PARENT persons whose range
//     is legal for the oldest child (any range when there are no children).
//   - Stage 2: If children are short, draw children whose range is legal for
//     the youngest lone parent (any range when there are no lone parents).
//   - Stage 3: Shuffle, then stable-sort both pools by age range and age,
//     oldest first. The shuffle only orders persons of equal age.
//   - Stage 4: count times, pop the oldest lone parent and try
//     AddChildToFamily. Success keeps the family; failure requeues the parent.
//
// Fails with NotEnoughPersons when children run out during the loop or when
// fewer than count families were formed once it ends.
func (f *Factory) FormOneParentBasicUnits(r *rng.Stream, count int, loneParents, children *person.Pool) ([]*family.Family, error) {
	if err := checkCount(count); err != nil {
		return nil, err
	}
	bands := f.reg.Bands()

	if count > loneParents.Len() {
		children.SortByAgeRange(true)
		var ranges []demography.AgeRange
		oldest, constrained := children.Front()
		if constrained {
			ranges = rules.LegalParentRanges(bands, oldest.AgeRange)
		}
		filter := extras.Filter{Statuses: []demography.RelationshipStatus{demography.LoneParent}, AgeRanges: ranges}
		err := f.topUp(OpOneParent, "lone_parents", loneParents, count, func(n int) ([]*person.Person, error) {
			if constrained && len(ranges) == 0 {
				return nil, nil
			}
			return f.extras.PersonsFromExtras(r, filter, n)
		})
		if err != nil {
			return nil, f.shortfall(OpOneParent, count, nil, err)
		}
	}

	if count > children.Len() {
		loneParents.SortByAgeRange(false)
		var ranges []demography.AgeRange
		youngest, constrained := loneParents.Front()
		if constrained {
			ranges = rules.LegalChildRanges(bands, youngest.AgeRange)
		}
		err := f.topUp(OpOneParent, "children", children, count, func(n int) ([]*person.Person, error) {
			if constrained && len(ranges) == 0 {
				return nil, nil
			}
			return f.extras.ChildrenFromExtras(r, demography.SexUnspecified, ranges, n)
		})
		if err != nil {
			return nil, f.shortfall(OpOneParent, count, nil, err)
		}
	}

	rng.Shuffle(r, *loneParents)
	loneParents.SortByAge(true)
	rng.Shuffle(r, *children)
	children.SortByAge(true)

	fams := make([]*family.Family, 0, count)
	for i := 0; i < count; i++ {
		if children.Len() == 0 {
			return nil, f.shortfall(OpOneParent, count, fams, nil)
		}
		lp, ok := loneParents.PopFront()
		if !ok {
			return nil, f.shortfall(OpOneParent, count, fams, nil)
		}

		fam := family.New(0, family.OneParent)
		fam.Add(lp)
		attached, err := f.AddChildToFamily(fam, children)
		if err != nil {
			return nil, err
		}
		if !attached {
			loneParents.PushBack(lp)
			continue
		}
		if err := f.commit(fam); err != nil {
			return nil, err
		}
		fams = append(fams, fam)
	}
	if len(fams) < count {
		return nil, f.shortfall(OpOneParent, count, fams, nil)
	}
	return fams, nil
}

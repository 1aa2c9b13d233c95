package factory

import (
	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/extras"
	"github.com/katalvlaran/synthpop/family"
	"github.com/katalvlaran/synthpop/person"
	"github.com/katalvlaran/synthpop/rng"
	"github.com/katalvlaran/synthpop/rules"
)

// FormCoupleFamilyBasicUnits pairs count MARRIED males with count MARRIED
// females into COUPLE_ONLY families.
//
// Implementation:
//   - Stage 1: Top up each pool independently to count (MARRIED, matching sex).
//   - Stage 2: Stable-sort both pools by age range and age, oldest first.
//   - Stage 3: Pair by rank: the i-th male with the i-th female. Partners are linked.
//
// Exactly count persons leave each pool on success.
//
// Complexity: O(n log n) for the sorts, O(count) for pairing.
func (f *Factory) FormCoupleFamilyBasicUnits(r *rng.Stream, count int, males, females *person.Pool) ([]*family.Family, error) {
	if err := checkCount(count); err != nil {
		return nil, err
	}

	for _, side := range []struct {
		name string
		pool *person.Pool
		sex  demography.Sex
	}{
		{"males", males, demography.Male},
		{"females", females, demography.Female},
	} {
		filter := extras.Filter{Statuses: []demography.RelationshipStatus{demography.Married}, Sex: side.sex}
		err := f.topUp(OpCouple, side.name, side.pool, count, func(n int) ([]*person.Person, error) {
			return f.extras.PersonsFromExtras(r, filter, n)
		})
		if err != nil {
			return nil, f.shortfall(OpCouple, count, nil, err)
		}
	}
	if males.Len() < count || females.Len() < count {
		return nil, f.shortfall(OpCouple, count, nil, nil)
	}

	males.SortByAge(true)
	females.SortByAge(true)

	fams := make([]*family.Family, 0, count)
	for i := 0; i < count; i++ {
		m, _ := males.PopFront()
		w, _ := females.PopFront()
		if err := f.reg.SetPartner(m.ID, w.ID); err != nil {
			return nil, errors.Wrapf(err, "factory: partner %s with %s", m.ID, w.ID)
		}
		fam := family.New(0, family.CoupleOnly)
		fam.Add(m)
		fam.Add(w)
		if err := f.commit(fam); err != nil {
			return nil, err
		}
		fams = append(fams, fam)
	}
	return fams, nil
}

// FormCoupleWithChildFamilyBasicUnits promotes count COUPLE_ONLY families to
// COUPLE_WITH_CHILDREN by attaching one child each.
//
// Implementation:
//   - Stage 1: Fail at once if fewer than count couples are queued.
//   - Stage 2: If children are short, draw the shortfall of children whose
//     range is legal for the youngest parent among the couples.
//   - Stage 3: Stable-sort couples by youngest parent and children by age
//     range and age, oldest first. The children order decides first fit.
//   - Stage 4: Pop the front couple and try AddChildToFamily. Success promotes
//     and keeps it out of the queue; failure requeues it at the back.
//
// The loop fails with NotEnoughPersons when the queue is empty or a full pass
// over the queue attached nobody.
//
// Promoted couples are removed from *couples; the rest stay queued.
func (f *Factory) FormCoupleWithChildFamilyBasicUnits(r *rng.Stream, count int, couples *[]*family.Family, children *person.Pool) ([]*family.Family, error) {
	if err := checkCount(count); err != nil {
		return nil, err
	}
	if count > len(*couples) {
		return nil, f.shortfall(OpCoupleWithChild, count, nil, nil)
	}

	if count > children.Len() {
		sortFamilies(*couples, false)
		var ranges []demography.AgeRange
		yp, constrained := (*couples)[0].YoungestParent()
		if constrained {
			ranges = rules.LegalChildRanges(f.reg.Bands(), yp.AgeRange)
		}
		err := f.topUp(OpCoupleWithChild, "children", children, count, func(n int) ([]*person.Person, error) {
			if constrained && len(ranges) == 0 {
				return nil, nil
			}
			return f.extras.ChildrenFromExtras(r, demography.SexUnspecified, ranges, n)
		})
		if err != nil {
			return nil, f.shortfall(OpCoupleWithChild, count, nil, err)
		}
	}

	sortFamilies(*couples, true)
	children.SortByAge(true)

	formed := make([]*family.Family, 0, count)
	misses := 0
	for len(formed) < count {
		if len(*couples) == 0 || misses >= len(*couples) {
			return nil, f.shortfall(OpCoupleWithChild, count, formed, nil)
		}
		fam := (*couples)[0]
		*couples = (*couples)[1:]

		ok, err := f.AddChildToFamily(fam, children)
		if err != nil {
			return nil, err
		}
		if !ok {
			*couples = append(*couples, fam)
			misses++
			continue
		}
		misses = 0
		fam.Promote(family.CoupleWithChildren)
		f.metrics.IncFamily(fam.Type.String())
		formed = append(formed, fam)
	}
	return formed, nil
}

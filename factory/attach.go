package factory

import (
	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/synthpop/family"
	"github.com/katalvlaran/synthpop/person"
	"github.com/katalvlaran/synthpop/rules"
)

// AddChildToFamily attaches the first child in pool order that is age
// compatible with the family's youngest parent.
//
// On success the child is removed from children, appended to fam, and linked
// to every parent-capable member (mother or father by the parent's sex).
// When fam already has an id the child is claimed for it.
//
// Returns false with fam and children unchanged when fam has no parent or no
// child qualifies. The error is non-nil only when the registry refuses a link
// or the child is already claimed; the registry is left untouched then.
//
// Complexity: O(len(children)).
func (f *Factory) AddChildToFamily(fam *family.Family, children *person.Pool) (bool, error) {
	youngest, ok := fam.YoungestParent()
	if !ok {
		f.metrics.IncAttachMiss()
		return false, nil
	}

	for i, c := range *children {
		if !rules.ValidateParentChildAgeRule(youngest.AgeRange, c.AgeRange) {
			continue
		}
		parents := fam.Parents()
		ids := make([]person.ID, len(parents))
		for j, p := range parents {
			ids[j] = p.ID
		}
		if fam.ID != 0 {
			if owner, owned := f.reg.Owner(c.ID); owned {
				return false, errors.WithDetailf(person.ErrInvariantViolation,
					"child %s already belongs to family %d", c.ID, owner)
			}
		}
		if err := f.reg.SetParents(c.ID, ids...); err != nil {
			return false, errors.Wrapf(err, "factory: link child %s to its parents", c.ID)
		}
		if fam.ID != 0 {
			if err := f.reg.Claim(c.ID, uint64(fam.ID)); err != nil {
				return false, errors.Wrapf(err, "factory: claim child %s for family %d", c.ID, fam.ID)
			}
		}
		children.RemoveAt(i)
		fam.Add(c)
		return true, nil
	}

	f.metrics.IncAttachMiss()
	return false, nil
}

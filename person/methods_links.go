// File: methods_links.go
// Role: Relationship table mutations and lookups.
//
// Invariants:
//   - partner, mother and father are set at most once; a second assignment
//     returns ErrInvariantViolation and changes nothing.
//   - partner, siblings, relatives and group members are symmetric.
//   - mother/father assignment also records the child under the parent.
//   - accumulating lists never hold duplicates or self links.
package person

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/synthpop/demography"
)

// lookup returns both records or ErrPersonNotFound. Caller holds mu.
func (r *Registry) lookup(a, b ID) (*Person, *Person, error) {
	pa, ok := r.persons[a]
	if !ok {
		return nil, nil, errors.Wrapf(ErrPersonNotFound, "id %s", a)
	}
	pb, ok := r.persons[b]
	if !ok {
		return nil, nil, errors.Wrapf(ErrPersonNotFound, "id %s", b)
	}
	if a == b {
		return nil, nil, errors.WithDetailf(ErrInvariantViolation, "person %s cannot be linked to itself", a)
	}
	return pa, pb, nil
}

// single returns the set-once link of id for rel. Caller holds mu.
func (r *Registry) single(id ID, rel Relation) (ID, bool) {
	ids := r.links[id][rel]
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// add appends other to id's rel list unless already present. Caller holds mu.
func (r *Registry) add(id ID, rel Relation, other ID) {
	m, ok := r.links[id]
	if !ok {
		m = make(map[Relation][]ID)
		r.links[id] = m
	}
	if slices.Contains(m[rel], other) {
		return
	}
	m[rel] = append(m[rel], other)
}

// list returns a copy of id's rel list.
func (r *Registry) list(id ID, rel Relation) []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.links[id][rel])
}

// SetPartner pairs two MARRIED persons symmetrically.
//
// Errors:
//   - ErrPersonNotFound: either id unknown.
//   - ErrInvariantViolation: self link, non-MARRIED status, or either side already partnered.
func (r *Registry) SetPartner(a, b ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pa, pb, err := r.lookup(a, b)
	if err != nil {
		return err
	}
	if pa.Status != demography.Married || pb.Status != demography.Married {
		return errors.WithDetailf(ErrInvariantViolation,
			"partners must be MARRIED, got %s and %s", pa.Status, pb.Status)
	}
	if cur, ok := r.single(a, RelPartner); ok {
		return errors.WithDetailf(ErrInvariantViolation, "person %s already has partner %s", a, cur)
	}
	if cur, ok := r.single(b, RelPartner); ok {
		return errors.WithDetailf(ErrInvariantViolation, "person %s already has partner %s", b, cur)
	}

	r.add(a, RelPartner, b)
	r.add(b, RelPartner, a)
	return nil
}

// setParentLink records child -> parent under rel (mother or father) and the
// back-reference parent -> child. Caller holds mu.
func (r *Registry) setParentLink(child, parent ID, rel Relation) error {
	if _, _, err := r.lookup(child, parent); err != nil {
		return err
	}
	if cur, ok := r.single(child, rel); ok {
		return errors.WithDetailf(ErrInvariantViolation, "person %s already has %s %s", child, rel, cur)
	}
	r.add(child, rel, parent)
	r.add(parent, RelChild, child)
	return nil
}

// SetMother records mother as the mother of child (set-once).
func (r *Registry) SetMother(child, mother ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setParentLink(child, mother, RelMother)
}

// SetFather records father as the father of child (set-once).
func (r *Registry) SetFather(child, father ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setParentLink(child, father, RelFather)
}

// parentSlot returns the slot (mother or father) parent would take for child
// and fails if it cannot. Caller holds mu.
func (r *Registry) parentSlot(child, parent ID) (Relation, error) {
	pp, ok := r.persons[parent]
	if !ok {
		return 0, errors.Wrapf(ErrPersonNotFound, "id %s", parent)
	}
	if !pp.CanParent() {
		return 0, errors.WithDetailf(ErrInvariantViolation, "person %s cannot be a parent: %s", parent, pp.Status)
	}
	var rel Relation
	switch pp.Sex {
	case demography.Male:
		rel = RelFather
	case demography.Female:
		rel = RelMother
	default:
		return 0, errors.WithDetailf(ErrInvariantViolation, "parent %s sex is not Male or Female: %s", parent, pp.Sex)
	}
	if _, _, err := r.lookup(child, parent); err != nil {
		return 0, err
	}
	if cur, ok := r.single(child, rel); ok {
		return 0, errors.WithDetailf(ErrInvariantViolation, "person %s already has %s %s", child, rel, cur)
	}
	return rel, nil
}

// SetParent records parent as mother or father of child depending on the
// parent's sex.
//
// Errors:
//   - ErrInvariantViolation: parent status is not MARRIED/LONE_PARENT, parent
//     sex is neither Male nor Female, or the slot is already taken.
func (r *Registry) SetParent(child, parent ID) error {
	return r.SetParents(child, parent)
}

// SetParents records every parent of child in one step. All slots are
// checked first; on error nothing is written.
func (r *Registry) SetParents(child ID, parents ...ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rels := make([]Relation, len(parents))
	for i, p := range parents {
		rel, err := r.parentSlot(child, p)
		if err != nil {
			return err
		}
		if j := slices.Index(rels[:i], rel); j >= 0 {
			return errors.WithDetailf(ErrInvariantViolation,
				"parents %s and %s both take the %s slot of %s", parents[j], p, rel, child)
		}
		rels[i] = rel
	}
	for i, p := range parents {
		r.add(child, rels[i], p)
		r.add(p, RelChild, child)
	}
	return nil
}

// AddChild appends child to parent's children without touching the child's
// mother/father slots.
func (r *Registry) AddChild(parent, child ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, _, err := r.lookup(parent, child); err != nil {
		return err
	}
	r.add(parent, RelChild, child)
	return nil
}

// addSymmetric links a and b both ways under rel.
func (r *Registry) addSymmetric(a, b ID, rel Relation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, _, err := r.lookup(a, b); err != nil {
		return err
	}
	r.add(a, rel, b)
	r.add(b, rel, a)
	return nil
}

// AddSibling links a and b as siblings.
func (r *Registry) AddSibling(a, b ID) error { return r.addSymmetric(a, b, RelSibling) }

// AddRelative links a and b as relatives.
func (r *Registry) AddRelative(a, b ID) error { return r.addSymmetric(a, b, RelRelative) }

// AddGroupHouseholdMember links a and b as members of the same group household.
func (r *Registry) AddGroupHouseholdMember(a, b ID) error {
	return r.addSymmetric(a, b, RelGroupMember)
}

// Partner returns the partner of id.
func (r *Registry) Partner(id ID) (ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.single(id, RelPartner)
}

// Mother returns the mother of id.
func (r *Registry) Mother(id ID) (ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.single(id, RelMother)
}

// Father returns the father of id.
func (r *Registry) Father(id ID) (ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.single(id, RelFather)
}

// Children returns the children of id in link order.
func (r *Registry) Children(id ID) []ID { return r.list(id, RelChild) }

// Siblings returns the siblings of id in link order.
func (r *Registry) Siblings(id ID) []ID { return r.list(id, RelSibling) }

// Relatives returns the relatives of id in link order.
func (r *Registry) Relatives(id ID) []ID { return r.list(id, RelRelative) }

// GroupHouseholdMembers returns the group-household members of id in link order.
func (r *Registry) GroupHouseholdMembers(id ID) []ID { return r.list(id, RelGroupMember) }

package person

import "slices"

// Pool is a caller-owned working set of persons, typically all persons of one
// relationship status (and sex). Formation operations mutate pools in place
// through a *Pool.
type Pool []*Person

// Len returns the number of persons in the pool.
func (p *Pool) Len() int { return len(*p) }

// Front returns the first person without removing it.
func (p *Pool) Front() (*Person, bool) {
	if len(*p) == 0 {
		return nil, false
	}
	return (*p)[0], true
}

// PopFront removes and returns the first person.
func (p *Pool) PopFront() (*Person, bool) {
	if len(*p) == 0 {
		return nil, false
	}
	x := (*p)[0]
	(*p)[0] = nil
	*p = (*p)[1:]
	return x, true
}

// RemoveAt removes and returns the person at index i, keeping the order of
// the others. It panics if i is out of range.
func (p *Pool) RemoveAt(i int) *Person {
	x := (*p)[i]
	*p = slices.Delete(*p, i, i+1)
	return x
}

// PushBack appends persons to the end of the pool.
func (p *Pool) PushBack(xs ...*Person) { *p = append(*p, xs...) }

// IDs returns the ids of the pool in pool order.
func (p Pool) IDs() []ID {
	out := make([]ID, len(p))
	for i, x := range p {
		out[i] = x.ID
	}
	return out
}

// SortByAgeRange stable-sorts the pool by AgeRange, descending when desc is
// true. Persons in the same band keep their relative order, so a preceding
// shuffle decides ties.
func (p Pool) SortByAgeRange(desc bool) {
	slices.SortStableFunc(p, func(a, b *Person) int {
		if desc {
			return b.AgeRange.Compare(a.AgeRange)
		}
		return a.AgeRange.Compare(b.AgeRange)
	})
}

// SortByAge stable-sorts the pool by AgeRange and then by exact age,
// descending when desc is true. Only persons of equal age keep their
// relative order.
func (p Pool) SortByAge(desc bool) {
	slices.SortStableFunc(p, func(a, b *Person) int {
		if desc {
			a, b = b, a
		}
		if c := a.AgeRange.Compare(b.AgeRange); c != 0 {
			return c
		}
		return a.Age - b.Age
	})
}

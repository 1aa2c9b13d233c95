// Package family defines the Family aggregate produced by formation.
//
// A Family is an ordered list of member persons (insertion order is formation
// order) tagged with a Type. It is created by a formation operation and only
// ever grows or gets promoted (COUPLE_ONLY -> COUPLE_WITH_CHILDREN).
package family

import (
	"strconv"

	"github.com/katalvlaran/synthpop/person"
)

// Type is the census family type of a unit.
type Type uint8

const (
	CoupleOnly Type = iota + 1
	CoupleWithChildren
	OneParent
	OtherFamily
)

var typeNames = [...]string{
	CoupleOnly:         "COUPLE_ONLY",
	CoupleWithChildren: "COUPLE_WITH_CHILDREN",
	OneParent:          "ONE_PARENT",
	OtherFamily:        "OTHER_FAMILY",
}

// String returns the census code of the type.
func (t Type) String() string {
	if t >= CoupleOnly && t <= OtherFamily {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Types returns all family types in declaration order.
func Types() []Type { return []Type{CoupleOnly, CoupleWithChildren, OneParent, OtherFamily} }

// ID identifies a family within a run.
type ID uint64

// Family is a mutable group of persons.
type Family struct {
	ID      ID
	Type    Type
	members []*person.Person
}

// New returns an empty family.
func New(id ID, t Type) *Family {
	return &Family{ID: id, Type: t}
}

// Add appends p to the members.
func (f *Family) Add(p *person.Person) { f.members = append(f.members, p) }

// Promote changes the family type.
func (f *Family) Promote(t Type) { f.Type = t }

// Size returns the number of members.
func (f *Family) Size() int { return len(f.members) }

// Members returns a copy of the member list in formation order.
func (f *Family) Members() []*person.Person {
	out := make([]*person.Person, len(f.members))
	copy(out, f.members)
	return out
}

// MemberIDs returns member ids in formation order.
func (f *Family) MemberIDs() []person.ID {
	return person.Pool(f.members).IDs()
}

// Contains reports whether a person with id is a member.
func (f *Family) Contains(id person.ID) bool {
	for _, m := range f.members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Parents returns the parent-capable members (MARRIED or LONE_PARENT) in formation order.
func (f *Family) Parents() []*person.Person {
	var out []*person.Person
	for _, m := range f.members {
		if m.CanParent() {
			out = append(out, m)
		}
	}
	return out
}

// YoungestParent returns the parent-capable member with the lowest AgeRange.
// On ties the earliest member wins. ok is false when no member can parent.
func (f *Family) YoungestParent() (p *person.Person, ok bool) {
	for _, m := range f.members {
		if !m.CanParent() {
			continue
		}
		if p == nil || m.AgeRange.Compare(p.AgeRange) < 0 {
			p = m
		}
	}
	return p, p != nil
}

// CompareYoungestParent orders families by the AgeRange of their youngest
// parent. Families without a parent sort first.
func CompareYoungestParent(a, b *Family) int {
	pa, okA := a.YoungestParent()
	pb, okB := b.YoungestParent()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	}
	return pa.AgeRange.Compare(pb.AgeRange)
}

// CountByType tallies families per type.
func CountByType(fams []*Family) map[Type]int {
	out := make(map[Type]int, len(typeNames))
	for _, f := range fams {
		out[f.Type]++
	}
	return out
}

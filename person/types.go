package person

import (
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/synthpop/demography"
)

// Sentinel errors for registry operations.
var (
	// ErrPersonNotFound indicates an operation referenced an unknown person.
	ErrPersonNotFound = errors.New("person: not found")

	// ErrInvalidPerson indicates Create received an unusable status, sex or age.
	ErrInvalidPerson = errors.New("person: invalid attributes")

	// ErrInvariantViolation indicates a relational invariant would be broken.
	ErrInvariantViolation = errors.New("person: invariant violation")

	// ErrStructureViolation indicates a person's links do not match its status.
	ErrStructureViolation = errors.New("person: structure violation")
)

// ID identifies a person within its Registry. IDs start at 1.
type ID uint64

// String renders the id in decimal.
func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Person is a synthetic individual. It holds attributes only; relationships
// live in the owning Registry.
type Person struct {
	ID       ID
	Status   demography.RelationshipStatus
	Age      int
	AgeRange demography.AgeRange
	Sex      demography.Sex
}

// IsChild reports whether the person has a child relationship status.
func (p *Person) IsChild() bool { return p.Status.IsChild() }

// CanParent reports whether the person may be recorded as a parent.
func (p *Person) CanParent() bool { return p.Status.CanParent() }

// String returns a compact description, e.g. "#12 LONE_PARENT Female 41 (30-44)".
func (p *Person) String() string {
	return "#" + p.ID.String() + " " + p.Status.String() + " " + p.Sex.String() + " " +
		strconv.Itoa(p.Age) + " (" + p.AgeRange.String() + ")"
}

// Relation names an entry of the relationship table.
type Relation uint8

const (
	RelPartner Relation = iota + 1
	RelMother
	RelFather
	RelChild
	RelSibling
	RelRelative
	RelGroupMember
)

var relationNames = [...]string{
	RelPartner:     "partner",
	RelMother:      "mother",
	RelFather:      "father",
	RelChild:       "children",
	RelSibling:     "siblings",
	RelRelative:    "relatives",
	RelGroupMember: "groupHouseholdMembers",
}

// String returns the field name of the relation.
func (r Relation) String() string {
	if r >= RelPartner && r <= RelGroupMember {
		return relationNames[r]
	}
	return "Relation(" + strconv.Itoa(int(r)) + ")"
}

// RegistryOption configures a Registry before first use.
type RegistryOption func(*Registry)

// WithBands sets the age band catalogue used to derive Person.AgeRange.
func WithBands(b demography.Bands) RegistryOption {
	return func(r *Registry) { r.bands = b }
}

// Registry is the arena owning all persons of a run and their relationships.
//
// mu guards every field below it.
type Registry struct {
	mu sync.RWMutex

	bands  demography.Bands
	nextID uint64

	persons map[ID]*Person
	// links[id][relation] = related ids, insertion ordered.
	links map[ID]map[Relation][]ID
	// owners[id] = family id that currently owns the person.
	owners map[ID]uint64
}

// NewRegistry returns an empty registry using DefaultBands unless overridden.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		bands:   demography.DefaultBands(),
		persons: make(map[ID]*Person),
		links:   make(map[ID]map[Relation][]ID),
		owners:  make(map[ID]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

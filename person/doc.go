// Package person implements the relational person model as an arena.
//
// A Registry owns every Person record of a synthesis run, indexed by a
// monotonic ID, and keeps all relationships in a separate table:
//
//	links[id][relation] = []ID
//
// Person values never point at each other; partner, parents, children,
// siblings, relatives and group-household members are lookups through the
// table. This keeps the (naturally cyclic) kinship graph free of ownership
// cycles and makes every mutation a single, checkable table update.
//
// Set-once links (partner, mother, father) return ErrInvariantViolation on a
// second assignment and leave the table untouched. Accumulating links
// (children, siblings, relatives, group members) ignore duplicates.
//
// Validate checks a person against the presence/absence pattern required by
// its RelationshipStatus:
//
//	LONE_PERSON      nothing
//	RELATIVE         relatives only
//	MARRIED          partner; no parents, siblings or group
//	U15/STUDENT/O15  at least one parent; no partner, children or group
//	LONE_PARENT      children only
//	GROUP_HOUSEHOLD  group members only
//
// Pools ([]*Person) are caller-owned working sets sliced from the registry;
// formation code pops from them and hands the records to families.
//
// Concurrency:
//   - Registry methods are guarded by a sync.RWMutex.
//   - Pools carry no locking; a pool has a single writer.
//
// Errors:
//
//	ErrPersonNotFound      - id not present in the registry.
//	ErrInvalidPerson       - Create called with an invalid status, sex or age.
//	ErrInvariantViolation  - set-once link reassigned, illegal parent, self link, double claim.
//	ErrStructureViolation  - Validate found a relation pattern illegal for the status.
package person

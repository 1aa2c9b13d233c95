// Package factory forms census family units from pools of persons.
//
// What:
//   - FormCoupleFamilyBasicUnits:          MARRIED male + MARRIED female  -> COUPLE_ONLY
//   - FormCoupleWithChildFamilyBasicUnits: COUPLE_ONLY + child            -> COUPLE_WITH_CHILDREN
//   - FormOneParentBasicUnits:             LONE_PARENT + child            -> ONE_PARENT
//   - FormOtherFamilyBasicUnits:           RELATIVE + RELATIVE            -> OTHER_FAMILY
//   - AddChildToFamily:                    first-fit attachment of one child to a family
//
// How:
//   - Pools are caller-owned and consumed in place. Persons placed in a family
//     leave their pool; persons not placed stay.
//   - A short pool is topped up once from the extras handler, with exactly the
//     shortfall, before any pairing.
//   - Parent/child compatibility is rules.ValidateParentChildAgeRule applied
//     to the youngest parent-capable member of the family.
//   - Every formed family records its relationships in the registry
//     (partners, parent links, relatives) and claims its members.
//
// Randomness:
//   - All ordering decisions come from the *rng.Stream argument: pools are
//     shuffled and then stable-sorted by age range, so ties are random but
//     reproducible for a fixed seed.
//
// Errors:
//   - ErrInvalidCount for count < 0.
//   - *NotEnoughPersonsError (matches ErrNotEnoughPersons) when fewer units
//     than requested can be formed. It carries the families that were formed
//     and, when the extras handler failed, the handler error as its cause.
//   - person.ErrInvariantViolation when the relationship table refuses a link.
//
// Concurrency:
//   - A Factory is single-threaded. Run independent attempts with separate
//     registries, pools and streams.
package factory

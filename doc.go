// Package synthpop groups the persons of a synthetic population into census
// family units.
//
// What is synthpop?
//
//	An in-memory formation engine that takes pools of persons, each tagged
//	with a relationship status, sex and age band, and forms:
//		• COUPLE_ONLY          - a MARRIED male and a MARRIED female
//		• COUPLE_WITH_CHILDREN - a couple plus one age-compatible child
//		• ONE_PARENT           - a LONE_PARENT plus one age-compatible child
//		• OTHER_FAMILY         - two RELATIVE persons
//
// Short pools are topped up from a secondary "extras" distribution. Every
// random decision is drawn from an explicit seeded stream, so a seed fully
// determines a run.
//
// Packages:
//
//	demography/  - sex, relationship status, age ranges and band catalogues
//	rules/       - the parent/child age-gap rule
//	rng/         - seeded random stream, shuffle, derived streams
//	person/      - person arena with a relationship table and structure validation
//	family/      - the Family aggregate
//	extras/      - extras Handler contract and a weighted YAML distribution
//	factory/     - the four formation operations and first-fit child attachment
//	feasibility/ - max-flow upper bound on parent/child attachments
//	synthesis/   - end-to-end runs, parallel re-seeded attempts, summaries
//	config/      - viper/TOML configuration
//	logger/      - zap logger construction
//	metrics/     - Prometheus counters
//	store/       - SQLite persistence of formed families
//	cmd/synthpop - the CLI
//
// Quick example:
//
//	reg := person.NewRegistry()
//	f := factory.New(reg, extras.Empty{})
//	fams, err := f.FormCoupleFamilyBasicUnits(rng.New(42), 10, &males, &females)
package synthpop

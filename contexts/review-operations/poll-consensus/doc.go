// Package pollconsensus implements internal moderator polls: bounded option
// lists, one immutable vote per moderator, roster-consensus auto-close, the
// expiry sweep, and outcome snapshots in a separate archive.
//
// Layering:
// - domain: poll and archive entities, option bounds, sentinel errors
// - application: poll lifecycle operations using explicit ports
// - ports: stable boundaries for persistence and the moderator roster
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - A vote never changes once cast; there is no retract or re-vote path.
// - Consensus is set equality between voters and the active roster, checked
//   after every vote.
// - Closing is a compare-and-flip; only the flip winner writes the archive
//   snapshot, so racing last voters produce exactly one.
package pollconsensus

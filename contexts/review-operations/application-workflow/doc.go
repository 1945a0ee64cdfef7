// Package applicationworkflow implements the moderator application review
// pipeline: public intake, the per-moderator vote ledger, the append-only
// comment ledger, status transitions with a surviving audit trail, and the
// two independent team approvals.
//
// Layering:
// - domain: application entity, status enum, audit entries, sentinel errors
// - application: workflow operations using explicit ports
// - ports: stable boundaries for persistence, identity lookups, notification
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Votes record opinion and never decide outcome; only an explicit status
//   change moves an application through the pipeline.
// - Team approval flags are independent of status.
// - Audit entries are written before destructive operations so the trail
//   outlives the record.
package applicationworkflow

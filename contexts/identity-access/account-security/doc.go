// Package accountsecurity implements moderator account lifecycle and
// credential security for the moderation panel.
//
// Layering:
// - domain: moderator entity, status enum, sentinel errors
// - application: registration, login with sticky lockout, password flows,
//   moderator management gated by the role authority
// - ports: stable boundaries for persistence, notification, clock, and IDs
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under the identity-access context.
// - Role comparison always goes through the role-authority table; no rank
//   arithmetic happens here.
// - Credential material (hashes, history, reset tokens) never crosses the
//   transport boundary.
package accountsecurity

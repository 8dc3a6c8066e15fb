// Package schema defines the wire-level payload types exchanged with the
// Jaramgle story platform API, together with the error taxonomy used by the
// client: application errors carrying the backend's error envelope,
// authentication/authorization failures, connectivity failures and refresh
// exchange failures.
//
// Domain payloads are deliberately thin: story content and generation
// parameters travel as opaque JSON the client passes through unchanged.
package schema

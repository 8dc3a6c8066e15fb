// Package auth manages the login lifecycle against the Jaramgle story
// platform: completing a browser login callback, restoring a session at
// startup through the refresh exchange, and best-effort logout revocation.
//
// The token itself lives in the `store` sub-package; the request gateway that
// transparently refreshes it lives in `transport`.
package auth

// Package mock provides a stub of the story platform backend that facilitates
// unit testing of the client-side authentication flow.
//
// The stub serves a working refresh exchange with refresh-token rotation and
// counts exchanges, so tests can assert the single-refresh invariant without
// real network round-trips.
package mock

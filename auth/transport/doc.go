// Package transport provides the authenticated request gateway: an
// http.RoundTripper that attaches the current access token, coordinates a
// single refresh exchange among all calls blocked on an expired credential,
// retries each rejected call exactly once against the refreshed token, and
// propagates terminal refresh failure to every waiter.
package transport

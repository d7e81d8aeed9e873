// Package whotapi provides a client for the Whot platform HTTP API.
//
// All authenticated calls carry a bearer token obtained from a TokenSource.
// When the backend answers 401 the client performs exactly one
// refresh-and-replay: the token source is asked for a fresh token (the
// refresh itself is deduplicated by the session layer) and the original
// request is retried once with the new token. A second 401 propagates.
package whotapi

// Package service executes structured query requests.
//
// A Service builds a plan with querybuild, hands it to a Storage, and shapes
// the rows into a model.Result: converted records for entity queries, a
// scalar or grouped aggregate otherwise. It holds no per-request state and
// is safe for concurrent use.
//
// Storage errors, including context cancellation, are returned unchanged.
// The service sets no timeouts and never retries.
//
// # Logging
//
// Each Execute call is assigned a request id (UUIDv7 by default). The plan
// is logged at Debug with its join paths and fingerprint; the outcome is
// logged at Info with the result shape, row count and duration.
package service

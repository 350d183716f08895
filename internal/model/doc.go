// Package model defines the caller-facing types of the structured query
// engine: entity kinds, filter and aggregation specifications, the request,
// the discriminated result, typed result records, and the error taxonomy.
//
// model contains type definitions and shape checks only. It imports ir and
// nothing else internal, so every other package can depend on it.
package model

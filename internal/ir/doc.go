// Package ir provides the tagged value types that flow through query plans.
//
// Filter values arrive from callers as loosely typed JSON, YAML, or CUE data.
// FromAny narrows them into the closed Value variant: a single Scalar or a
// List of scalars. Operators that need a list (in, not_in, has_any_tag) can
// then check the variant instead of probing an untyped value at runtime.
//
// The package also owns canonical JSON encoding and domain-separated hashes,
// used to fingerprint plans. ir imports nothing internal.
package ir

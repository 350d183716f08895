// Package convert turns raw storage rows into typed, discriminator-tagged
// records.
//
// There is one rule per entity kind. Every rule sets the kind
// discriminator, defaults missing tag lists to empty, and exposes storage
// columns under their external names (a note's body is "content", a
// client's type is "client_type"). Conversion never fails: a value of the
// wrong shape becomes the field's zero value.
package convert

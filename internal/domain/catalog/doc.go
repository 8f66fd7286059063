// Package catalog contains the canonical product model.
//
// Every connected e-commerce platform translates its native product schema
// to and from CanonicalProduct; the propagation engine only ever handles
// the canonical form. Price fields are kept as strings on purpose: native
// platforms disagree on numeric representation and round-tripping through
// floating point would lose precision.
package catalog

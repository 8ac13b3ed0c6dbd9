// Package checksum computes deterministic content hashes over named fields.
//
// A checksum is the only change signal used by the synchronizer: two
// representations of the same remote entity are considered equal when the
// checksums over their defining fields are equal.
//
// # Determinism
//
// Fields are sorted by name before hashing, so the order in which callers list
// them does not matter. Values are rendered with a fixed, type-aware encoding;
// nil and the empty string are encoded differently.
//
// # Usage
//
//	sum := checksum.Of(
//	    checksum.F("name", artist.Name),
//	)
package checksum

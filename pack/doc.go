// Package pack implements the tagged msgpack codec for frame domain
// objects.
//
// Encoding normalizes a domain object into a tree of tagged records
// (string-keyed maps carrying a typ discriminator), sequences and wire
// primitives, then serializes the tree as msgpack with sorted map keys.
// Array payloads travel as msgpack extension type 0, optionally compressed
// by a backend named in the sibling compress field.
//
// Decoding parses the wire bytes into primitive structures and applies the
// tag decoder to every mapping bottom-up, so nested domain objects are
// reconstructed before their containers. Mappings without a typ field, and
// mappings whose tag is unknown, pass through unchanged.
package pack

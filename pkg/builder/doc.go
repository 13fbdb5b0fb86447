// Package builder holds the mutable side of the RelicDB codec: an owned
// in-memory table set with no buffer dependency, and the encoder that
// freezes it into a byte-exact file the legacy client can load.
//
// A Database is built programmatically with AddTable and Insert, or from
// a decoded snapshot with FromView. Edits happen on the builder model;
// decoded views are never mutated in place. A Database is single-writer:
// callers must serialize concurrent mutation externally.
//
// Encode lays the file out in two passes. The first pass computes every
// region's size and final offset and registers all strings in the global
// pool; the second pass emits bytes with no forward-reference patching.
// Encoding aborts whole on the first schema mismatch or unencodable
// string; there is no partial output.
package builder

// Package fdb decodes RelicDB table files into zero-copy, read-only views.
//
// Decode validates every offset, row chain, string and field kind up
// front and returns a Database whose views borrow the input buffer; after
// a successful Decode no read can fail, so a Database is safe for any
// number of concurrent readers. Views never copy row or field data and
// stay valid exactly as long as the underlying buffer.
//
// Editing goes through the separate builder package: decode a snapshot,
// convert it to a mutable model, change values, and encode a new buffer.
// Nothing in this package mutates the bytes it was given.
//
// The on-disk layout and its encodings are documented in package codec.
package fdb

// Package header provides the tooling for writing the header of a new
// message: an ordered list of fields, the line break to terminate them with
// and the RFC 2047 and RFC 2231 encodings needed to carry non-ASCII text in
// field bodies.
package header

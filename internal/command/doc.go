// Package command runs the external programs a message is built with. Each
// program is configured as an argv slice and is never passed through a shell.
//
// The Sniffer and Encoder interfaces let the compiler ask for a MIME type or a
// base64 rendering of a file without caring whether a subprocess or native
// code provides it.
package command

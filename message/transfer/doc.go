// Package transfer picks and applies the Content-Transfer-Encoding of a text
// part. Only two encodings are produced: 8bit, which leaves the bytes as-is,
// and base64, which is wrapped at 76 columns. Base64 is chosen only when the
// content has a line too long to be sent as 8bit.
package transfer

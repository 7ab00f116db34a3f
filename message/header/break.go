package header

// Break represents the linebreak to use when writing a message.
type Break string

// Constants for use when selecting a line break to use with a new header.
// Local mail transfer agents like sendmail expect LF. Choose CRLF when the
// message goes straight onto the network.
const (
	CRLF Break = "\x0d\x0a" // \r\n - Network linebreak
	LF   Break = "\x0a"     // \n - Unix/Linux/BSD linebreak
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}

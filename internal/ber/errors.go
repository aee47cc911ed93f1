package ber

import "errors"

var (
	// ErrIndefiniteLength is returned when a length octet signals the
	// indefinite form (0x80). LDAP requires DER on the wire, which
	// forbids indefinite length.
	ErrIndefiniteLength = errors.New("ber: indefinite length not permitted")

	// ErrTruncated is returned when the stream closes in the middle of
	// a TLV, after at least one byte of the element has been read, but
	// before the element is complete. Distinct from a clean close at a
	// TLV boundary, which callers of ReadElement see as io.EOF.
	ErrTruncated = errors.New("ber: truncated element")

	// ErrPacketTooLarge guards against a declared length that could
	// exhaust memory before the truncation check below it ever fires.
	ErrPacketTooLarge = errors.New("ber: declared length exceeds maximum packet size")
)

// MaxPacketSize is the largest content length ReadElement will attempt
// to buffer for a single element. A well-formed LDAPMessage is small;
// this exists to bound a hostile or corrupt length field, not to model
// a real protocol limit.
const MaxPacketSize = 64 * 1024 * 1024

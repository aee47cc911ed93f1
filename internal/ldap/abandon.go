package ldap

import "github.com/kirinldap/kirin/internal/ber"

// ParseAbandonTarget extracts the target Message ID from an
// AbandonRequest (tag 16) protocolOp, whose value is a bare,
// implicitly-tagged INTEGER (the protocolOp IS the Message ID).
func ParseAbandonTarget(op *ber.Packet) (int64, error) {
	id, err := op.Int()
	if err != nil {
		return 0, ErrMalformedEnvelope
	}
	return id, nil
}

package ldap

import "github.com/kirinldap/kirin/internal/ber"

const (
	tagExtendedRequestName  = 0 // [0] LDAPOID
	tagExtendedRequestValue = 1 // [1] OCTET STRING OPTIONAL

	tagExtendedResponseName  = 10 // [10] LDAPOID OPTIONAL
	tagExtendedResponseValue = 11 // [11] OCTET STRING OPTIONAL
)

// ExtendedRequest is a parsed ExtendedRequest (tag 23) protocolOp, per
// RFC 4511 §4.12. StartTLS (see OIDStartTLS) is the one extended
// operation the engine names explicitly; any other OID is forwarded to
// the Handler's extended op callback uninterpreted.
type ExtendedRequest struct {
	Name  string
	Value []byte
}

// ParseExtendedRequest extracts the OID and optional value from an
// ExtendedRequest protocolOp packet.
func ParseExtendedRequest(op *ber.Packet) (*ExtendedRequest, error) {
	req := &ExtendedRequest{}
	for _, child := range op.Children {
		switch {
		case child.Class == ber.ClassContextSpecific && child.Tag == tagExtendedRequestName:
			req.Name = child.String()
		case child.Class == ber.ClassContextSpecific && child.Tag == tagExtendedRequestValue:
			req.Value = child.Value
		}
	}
	if req.Name == "" {
		return nil, ErrMalformedEnvelope
	}
	return req, nil
}

// NewExtendedResponse builds an ExtendedResponse (tag 24) carrying the
// common LDAPResult fields plus an optional responseName/response pair.
func NewExtendedResponse(code ResultCode, matchedDN, diagnostic, responseName string, response []byte) *ber.Packet {
	p := NewLDAPResult(TagExtendedResponse, code, matchedDN, diagnostic)
	if responseName != "" {
		p.AppendChild(ber.NewContextString(tagExtendedResponseName, responseName, "responseName"))
	}
	if response != nil {
		p.AppendChild(&ber.Packet{Class: ber.ClassContextSpecific, Tag: tagExtendedResponseValue, Value: response})
	}
	return p
}

// NewNoticeOfDisconnection builds the unsolicited ExtendedResponse the
// engine sends, at messageID 0, whenever it terminates a connection
// because of a protocol error. RFC 4511 §4.4.1.
func NewNoticeOfDisconnection(code ResultCode, diagnostic string) *Message {
	return &Message{
		ID:         0,
		ProtocolOp: NewExtendedResponse(code, "", diagnostic, OIDNoticeOfDisconnection, nil),
	}
}

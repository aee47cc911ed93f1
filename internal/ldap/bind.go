package ldap

import "github.com/kirinldap/kirin/internal/ber"

// AuthMethod distinguishes simple-password authentication from SASL in
// a BindRequest.
type AuthMethod int

const (
	AuthSimple AuthMethod = 0
	AuthSASL   AuthMethod = 3
)

func (a AuthMethod) String() string {
	if a == AuthSASL {
		return "SASL"
	}
	return "simple"
}

// SASLCredentials carries a SASL mechanism name and opaque credentials.
type SASLCredentials struct {
	Mechanism   string
	Credentials []byte
}

// BindRequest is a parsed BindRequest (tag 0) protocolOp.
type BindRequest struct {
	Version         int
	Name            string
	AuthMethod      AuthMethod
	SimplePassword  []byte
	SASLCredentials *SASLCredentials
}

// IsAnonymous reports whether this is an RFC 4511 §5.1.2 anonymous bind:
// simple authentication with an empty password.
func (r *BindRequest) IsAnonymous() bool {
	return r.AuthMethod == AuthSimple && len(r.SimplePassword) == 0
}

// ParseBindRequest extracts version, name, and authentication from a
// BindRequest protocolOp packet: SEQUENCE { version INTEGER, name OCTET
// STRING, authentication CHOICE { simple [0], sasl [3] } }.
func ParseBindRequest(op *ber.Packet) (*BindRequest, error) {
	if len(op.Children) < 3 {
		return nil, ErrMalformedEnvelope
	}
	version, err := op.Children[0].Int()
	if err != nil {
		return nil, ErrMalformedEnvelope
	}

	req := &BindRequest{
		Version: int(version),
		Name:    op.Children[1].String(),
	}

	auth := op.Children[2]
	switch AuthMethod(auth.Tag) {
	case AuthSimple:
		req.AuthMethod = AuthSimple
		req.SimplePassword = auth.Value
	case AuthSASL:
		req.AuthMethod = AuthSASL
		if len(auth.Children) == 0 {
			return nil, ErrMalformedEnvelope
		}
		creds := &SASLCredentials{Mechanism: auth.Children[0].String()}
		if len(auth.Children) > 1 {
			creds.Credentials = auth.Children[1].Value
		}
		req.SASLCredentials = creds
	default:
		return nil, ErrMalformedEnvelope
	}

	return req, nil
}

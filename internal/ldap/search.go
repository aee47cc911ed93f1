package ldap

import "github.com/kirinldap/kirin/internal/ber"

// SearchScope is the scope field of a SearchRequest (RFC 4511 §4.5.1.2).
type SearchScope int

const (
	ScopeBaseObject   SearchScope = 0
	ScopeSingleLevel  SearchScope = 1
	ScopeWholeSubtree SearchScope = 2
)

// DerefAliases is the derefAliases field of a SearchRequest.
type DerefAliases int

const (
	NeverDerefAliases   DerefAliases = 0
	DerefInSearching    DerefAliases = 1
	DerefFindingBaseObj DerefAliases = 2
	DerefAlways         DerefAliases = 3
)

// SearchRequest is a parsed SearchRequest (tag 3) protocolOp. The filter
// is kept as its raw packet rather than parsed into an AST: filter
// evaluation belongs to the Handler (the DIT backend), which is outside
// this engine's scope, so there is nothing here for a filter grammar to
// serve.
type SearchRequest struct {
	BaseObject   string
	Scope        SearchScope
	DerefAliases DerefAliases
	SizeLimit    int64
	TimeLimit    int64
	TypesOnly    bool
	Filter       *ber.Packet
	Attributes   []string
}

// ParseSearchRequest extracts the fixed-position fields of a
// SearchRequest: SEQUENCE { baseObject OCTET STRING, scope ENUMERATED,
// derefAliases ENUMERATED, sizeLimit INTEGER, timeLimit INTEGER,
// typesOnly BOOLEAN, filter Filter, attributes SEQUENCE OF OCTET STRING }.
func ParseSearchRequest(op *ber.Packet) (*SearchRequest, error) {
	if len(op.Children) < 8 {
		return nil, ErrMalformedEnvelope
	}

	scope, err := op.Children[1].Int()
	if err != nil {
		return nil, ErrMalformedEnvelope
	}
	deref, err := op.Children[2].Int()
	if err != nil {
		return nil, ErrMalformedEnvelope
	}
	sizeLimit, err := op.Children[3].Int()
	if err != nil {
		return nil, ErrMalformedEnvelope
	}
	timeLimit, err := op.Children[4].Int()
	if err != nil {
		return nil, ErrMalformedEnvelope
	}
	typesOnly, err := op.Children[5].Bool()
	if err != nil {
		return nil, ErrMalformedEnvelope
	}

	req := &SearchRequest{
		BaseObject:   op.Children[0].String(),
		Scope:        SearchScope(scope),
		DerefAliases: DerefAliases(deref),
		SizeLimit:    sizeLimit,
		TimeLimit:    timeLimit,
		TypesOnly:    typesOnly,
		Filter:       op.Children[6],
	}

	for _, a := range op.Children[7].Children {
		req.Attributes = append(req.Attributes, a.String())
	}

	return req, nil
}

// Package ldap implements the LDAPv3 wire types the engine needs: the
// message envelope, the APPLICATION op tags, the result-code taxonomy,
// and thin per-operation request/response helpers built on top of
// internal/ber's Packet tree.
package ldap

import "fmt"

// Application tag numbers for the protocolOp CHOICE (RFC 4511 §4.1.1).
const (
	TagBindRequest           = 0
	TagBindResponse          = 1
	TagUnbindRequest         = 2
	TagSearchRequest         = 3
	TagSearchResultEntry     = 4
	TagSearchResultDone      = 5
	TagModifyRequest         = 6
	TagModifyResponse        = 7
	TagAddRequest            = 8
	TagAddResponse           = 9
	TagDelRequest            = 10
	TagDelResponse           = 11
	TagModifyDNRequest       = 12
	TagModifyDNResponse      = 13
	TagCompareRequest        = 14
	TagCompareResponse       = 15
	TagAbandonRequest        = 16
	TagSearchResultReference = 19
	TagExtendedRequest       = 23
	TagExtendedResponse      = 24
)

// OIDNoticeOfDisconnection is the responseName RFC 4511 §4.4.1 mandates
// for the server's unsolicited Notice of Disconnection.
const OIDNoticeOfDisconnection = "1.3.6.1.4.1.1466.20036"

// OIDStartTLS is the ExtendedRequest OID for RFC 4511 §4.14's StartTLS
// operation, handled as an ordinary extended op by the engine.
const OIDStartTLS = "1.3.6.1.4.1.1466.20037"

// ResultCode is the LDAP result code taxonomy (RFC 4511 §4.1.9); the
// engine treats its textual rendering as an external concern (the
// Handler or a caller of String supplies human-readable messages), but
// carries the numeric codes itself since dispatch and error handling
// depend on specific values.
type ResultCode int

const (
	ResultSuccess                ResultCode = 0
	ResultOperationsError        ResultCode = 1
	ResultProtocolError          ResultCode = 2
	ResultTimeLimitExceeded      ResultCode = 3
	ResultSizeLimitExceeded      ResultCode = 4
	ResultCompareFalse           ResultCode = 5
	ResultCompareTrue            ResultCode = 6
	ResultAuthMethodNotSupported ResultCode = 7
	ResultStrongerAuthRequired   ResultCode = 8
	ResultReferral               ResultCode = 10
	ResultAdminLimitExceeded     ResultCode = 11
	ResultUnavailableCritExt     ResultCode = 12
	ResultConfidentialityReq     ResultCode = 13
	ResultSASLBindInProgress     ResultCode = 14
	ResultNoSuchAttribute        ResultCode = 16
	ResultUndefinedAttrType      ResultCode = 17
	ResultInappropriateMatching  ResultCode = 18
	ResultConstraintViolation    ResultCode = 19
	ResultAttributeOrValueExists ResultCode = 20
	ResultInvalidAttrSyntax      ResultCode = 21
	ResultNoSuchObject           ResultCode = 32
	ResultAliasProblem           ResultCode = 33
	ResultInvalidDNSyntax        ResultCode = 34
	ResultAliasDerefProblem      ResultCode = 36
	ResultInappropriateAuth      ResultCode = 48
	ResultInvalidCredentials     ResultCode = 49
	ResultInsufficientAccess     ResultCode = 50
	ResultBusy                   ResultCode = 51
	ResultUnavailable            ResultCode = 52
	ResultUnwillingToPerform     ResultCode = 53
	ResultLoopDetect             ResultCode = 54
	ResultNamingViolation        ResultCode = 64
	ResultObjectClassViolation   ResultCode = 65
	ResultNotAllowedOnNonLeaf    ResultCode = 66
	ResultNotAllowedOnRDN        ResultCode = 67
	ResultEntryAlreadyExists     ResultCode = 68
	ResultObjectClassModsProhib  ResultCode = 69
	ResultAffectsMultipleDSAs    ResultCode = 71
	ResultOther                  ResultCode = 80
)

func (c ResultCode) String() string {
	return fmt.Sprintf("resultCode(%d)", int(c))
}

// Control is an envelope-level LDAPv3 control (RFC 4511 §4.1.11). The
// engine forwards controls to the Handler uninterpreted.
type Control struct {
	OID         string
	Criticality bool
	Value       []byte
}

// OperationType names the request tags the engine dispatches.
type OperationType int

const (
	OpBind OperationType = iota
	OpUnbind
	OpSearch
	OpModify
	OpAdd
	OpDel
	OpModifyDN
	OpCompare
	OpAbandon
	OpExtended
	OpUnknown
)

// OperationForTag maps a protocolOp APPLICATION tag number to the
// dispatch discipline in SPEC_FULL's §4.5 table. Response tags (odd
// numbers in the request/response pairs, plus SearchResultEntry/Done)
// never arrive as a protocolOp tag on a well-formed client PDU, so they
// fall through to OpUnknown like any other unrecognized tag.
func OperationForTag(tag int) OperationType {
	switch tag {
	case TagBindRequest:
		return OpBind
	case TagUnbindRequest:
		return OpUnbind
	case TagSearchRequest:
		return OpSearch
	case TagModifyRequest:
		return OpModify
	case TagAddRequest:
		return OpAdd
	case TagDelRequest:
		return OpDel
	case TagModifyDNRequest:
		return OpModifyDN
	case TagCompareRequest:
		return OpCompare
	case TagAbandonRequest:
		return OpAbandon
	case TagExtendedRequest:
		return OpExtended
	default:
		return OpUnknown
	}
}

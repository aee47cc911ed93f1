package ldap

import "github.com/kirinldap/kirin/internal/ber"

// NewLDAPResult builds the common LDAPResult SEQUENCE shared by every
// response op (BindResponse, SearchResultDone, ModifyResponse, ...):
// { resultCode ENUMERATED, matchedDN OCTET STRING, diagnosticMessage
// OCTET STRING, referral [3] OPTIONAL (omitted here, no referral
// support in the core) }, wrapped in an APPLICATION tag.
func NewLDAPResult(appTag int, code ResultCode, matchedDN, diagnostic string) *ber.Packet {
	p := ber.NewApplication(appTag, true, "")
	p.AppendChild(ber.NewEnumerated(int64(code), "resultCode"))
	p.AppendChild(ber.NewString(matchedDN, "matchedDN"))
	p.AppendChild(ber.NewString(diagnostic, "diagnosticMessage"))
	return p
}

// NewBindResponse builds a BindResponse (tag 1). Unlike the other result
// PDUs it may carry serverSaslCreds (tag 7 context-specific); this
// builder never includes it, since the core does not implement SASL
// itself.
func NewBindResponse(code ResultCode, matchedDN, diagnostic string) *ber.Packet {
	return NewLDAPResult(TagBindResponse, code, matchedDN, diagnostic)
}

// NewModifyResponse builds a ModifyResponse (tag 7).
func NewModifyResponse(code ResultCode, matchedDN, diagnostic string) *ber.Packet {
	return NewLDAPResult(TagModifyResponse, code, matchedDN, diagnostic)
}

// NewAddResponse builds an AddResponse (tag 9).
func NewAddResponse(code ResultCode, matchedDN, diagnostic string) *ber.Packet {
	return NewLDAPResult(TagAddResponse, code, matchedDN, diagnostic)
}

// NewDelResponse builds a DelResponse (tag 11).
func NewDelResponse(code ResultCode, matchedDN, diagnostic string) *ber.Packet {
	return NewLDAPResult(TagDelResponse, code, matchedDN, diagnostic)
}

// NewModifyDNResponse builds a ModifyDNResponse (tag 13).
func NewModifyDNResponse(code ResultCode, matchedDN, diagnostic string) *ber.Packet {
	return NewLDAPResult(TagModifyDNResponse, code, matchedDN, diagnostic)
}

// NewCompareResponse builds a CompareResponse (tag 15); its resultCode is
// conventionally compareTrue (6) or compareFalse (5) rather than success.
func NewCompareResponse(code ResultCode, matchedDN, diagnostic string) *ber.Packet {
	return NewLDAPResult(TagCompareResponse, code, matchedDN, diagnostic)
}

// NewSearchResultDone builds a SearchResultDone (tag 5), the terminal PDU
// for a Search operation.
func NewSearchResultDone(code ResultCode, matchedDN, diagnostic string) *ber.Packet {
	return NewLDAPResult(TagSearchResultDone, code, matchedDN, diagnostic)
}

// SearchEntry is the abstract "row" a Handler's do_search emits before
// its terminal SearchResultDone; the core treats it as opaque data to
// serialize, never interprets the attribute values.
type SearchEntry struct {
	DN         string
	Attributes map[string][]string
}

// NewSearchResultEntry builds a SearchResultEntry (tag 4): { objectName
// OCTET STRING, attributes SEQUENCE OF PartialAttribute }.
func NewSearchResultEntry(entry SearchEntry) *ber.Packet {
	p := ber.NewApplication(TagSearchResultEntry, true, "")
	p.AppendChild(ber.NewString(entry.DN, "objectName"))

	attrs := ber.NewSequence("attributes")
	for name, values := range entry.Attributes {
		attr := ber.NewSequence("partialAttribute")
		attr.AppendChild(ber.NewString(name, "type"))
		valueSet := ber.NewSet("vals")
		for _, v := range values {
			valueSet.AppendChild(ber.NewString(v, "value"))
		}
		attr.AppendChild(valueSet)
		attrs.AppendChild(attr)
	}
	p.AppendChild(attrs)
	return p
}

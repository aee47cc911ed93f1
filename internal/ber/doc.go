// Package ber provides the stream framing and structured-value layer the
// LDAP engine builds on: ReadElement pulls one TLV off a blocking
// connection without knowing what it means, and Packet gives the rest of
// the engine a tree it can inspect (messageID, protocolOp tag, controls)
// and build (responses) without hand-rolling tag arithmetic at every call
// site.
//
// This is the narrow LDAP subset of BER/DER (X.690), not a general ASN.1
// library: booleans, integers, enumerated values, octet strings, null,
// sequences, sets, and arbitrary APPLICATION/CONTEXT-tagged elements.
// Indefinite-length encoding is rejected outright, matching LDAP's DER
// requirement on the wire.
package ber

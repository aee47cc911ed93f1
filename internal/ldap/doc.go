// Package ldap holds the LDAPv3 wire shapes the engine cares about: the
// LDAPMessage envelope, the request op tags, the result-code taxonomy,
// and per-operation parse/encode helpers built on internal/ber's Packet
// tree. The envelope layer (Message, FromPacket, Encode) is what the
// engine's dispatch loop touches directly; the per-operation helpers
// (BindRequest, SearchRequest, ...) exist for Handler implementations
// that want typed access to a protocolOp instead of raw ber.Packet
// children.
package ldap

// Package engine implements the per-connection LDAPv3 protocol loop:
// reading BER-framed messages off a transport (internal/ber), demuxing
// them by Message ID into an active-request table, dispatching to a
// pluggable Handler either synchronously (Bind, Unbind, Abandon) or as
// a cancellable worker goroutine (Search, Modify, Add, Del, ModifyDN,
// Compare, Extended), and serializing responses back through a
// mutex-guarded Writer.
//
// A Connection is created from an already-accepted Transport (TLS or
// plain, the engine doesn't care which) and driven with Serve, which
// returns when the connection closes. Everything above accepting a
// Transport (the TCP listener, TLS negotiation) is the Acceptor's job,
// not this package's; see acceptor.go for a reference implementation.
package engine

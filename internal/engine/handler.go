package engine

import (
	"context"

	"github.com/kirinldap/kirin/internal/ber"
	"github.com/kirinldap/kirin/internal/ldap"
)

// OperationResult is the terminal status of a status-only operation
// (Modify, Add, Del, ModifyDN, Compare) or the tail status of a Search.
// The core treats it as opaque data to serialize, never interprets it.
type OperationResult struct {
	Code       ldap.ResultCode
	MatchedDN  string
	Diagnostic string
}

// Success is the zero-diagnostic, resultCode=success OperationResult
// most handlers return on the golden path.
func Success() OperationResult {
	return OperationResult{Code: ldap.ResultSuccess}
}

// BindResult is what do_bind returns: either a new bound identity, or a
// failure status that leaves the connection's prior state untouched.
type BindResult struct {
	DN      string
	Version int
	Result  OperationResult
}

// ExtendedResult is what do_extended returns: the common status plus an
// optional responseName/response pair (RFC 4511 §4.12.2).
type ExtendedResult struct {
	Result       OperationResult
	ResponseName string
	Response     []byte
}

// EntryEmitter is what do_search uses to stream rows before returning
// its terminal status. Emit checks for cancellation before every write,
// satisfying the "cooperatively-checked at the start of each
// search-entry production" requirement; once it returns an error the
// handler must stop calling it and return.
type EntryEmitter interface {
	Emit(entry ldap.SearchEntry) error
}

// Handler is Component G: the pluggable behavior object a worker calls.
// A Handler is produced per operation by a HandlerFactory, matching the
// factory contract in SPEC_FULL §6 ("new(connection, messageID,
// ...handler_args) -> Handler"); implementations are free to share
// state across the operations they serve (a DIT backend, typically)
// since the factory receives whatever operation_args the configuration
// bag was built with.
type Handler interface {
	DoBind(op *ber.Packet, controls []ldap.Control) BindResult
	DoSearch(ctx context.Context, op *ber.Packet, controls []ldap.Control, emit EntryEmitter) OperationResult
	DoModify(op *ber.Packet, controls []ldap.Control) OperationResult
	DoAdd(op *ber.Packet, controls []ldap.Control) OperationResult
	DoDel(op *ber.Packet, controls []ldap.Control) OperationResult
	DoModifyDN(op *ber.Packet, controls []ldap.Control) OperationResult
	DoCompare(op *ber.Packet, controls []ldap.Control) OperationResult
	DoExtended(op *ber.Packet, controls []ldap.Control) ExtendedResult
}

// HandlerFactory builds a Handler for one operation. args is whatever
// the configuration bag's operation_args holds (§6); the core never
// inspects it.
type HandlerFactory func(conn *Connection, messageID int64, args interface{}) Handler

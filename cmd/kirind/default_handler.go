package main

import (
	"context"

	"github.com/kirinldap/kirin/internal/ber"
	"github.com/kirinldap/kirin/internal/engine"
	"github.com/kirinldap/kirin/internal/ldap"
)

// defaultHandler is kirind's built-in Handler: it allows anonymous
// binds, answers every search with an empty successful result, answers
// StartTLS with unavailable, and refuses every other operation with
// unwillingToPerform. It
// exists so kirind is runnable out of the box; a real deployment links
// its own Handler against internal/engine instead. Grounded on oba's
// NewHandler defaults (anonymous bind allowed, everything else
// unwillingToPerform).
type defaultHandler struct{}

func newDefaultHandlerFactory() engine.HandlerFactory {
	h := &defaultHandler{}
	return func(conn *engine.Connection, messageID int64, args interface{}) engine.Handler {
		return h
	}
}

func (h *defaultHandler) DoBind(op *ber.Packet, controls []ldap.Control) engine.BindResult {
	req, err := ldap.ParseBindRequest(op)
	if err != nil {
		return engine.BindResult{Result: engine.OperationResult{Code: ldap.ResultProtocolError, Diagnostic: err.Error()}}
	}
	if !req.IsAnonymous() {
		return engine.BindResult{Result: engine.OperationResult{
			Code:       ldap.ResultInvalidCredentials,
			Diagnostic: "only anonymous bind is supported by the default handler",
		}}
	}
	return engine.BindResult{DN: "", Version: req.Version, Result: engine.Success()}
}

func (h *defaultHandler) DoSearch(ctx context.Context, op *ber.Packet, controls []ldap.Control, emit engine.EntryEmitter) engine.OperationResult {
	return engine.Success()
}

func (h *defaultHandler) unwilling() engine.OperationResult {
	return engine.OperationResult{Code: ldap.ResultUnwillingToPerform, Diagnostic: "not implemented by the default handler"}
}

func (h *defaultHandler) DoModify(op *ber.Packet, controls []ldap.Control) engine.OperationResult    { return h.unwilling() }
func (h *defaultHandler) DoAdd(op *ber.Packet, controls []ldap.Control) engine.OperationResult       { return h.unwilling() }
func (h *defaultHandler) DoDel(op *ber.Packet, controls []ldap.Control) engine.OperationResult       { return h.unwilling() }
func (h *defaultHandler) DoModifyDN(op *ber.Packet, controls []ldap.Control) engine.OperationResult  { return h.unwilling() }
func (h *defaultHandler) DoCompare(op *ber.Packet, controls []ldap.Control) engine.OperationResult   { return h.unwilling() }

func (h *defaultHandler) DoExtended(op *ber.Packet, controls []ldap.Control) engine.ExtendedResult {
	req, err := ldap.ParseExtendedRequest(op)
	if err != nil {
		return engine.ExtendedResult{Result: engine.OperationResult{Code: ldap.ResultProtocolError}}
	}
	if req.Name == ldap.OIDStartTLS {
		return engine.ExtendedResult{
			Result:       engine.OperationResult{Code: ldap.ResultUnavailable, Diagnostic: "StartTLS requires a Handler with transport access"},
			ResponseName: ldap.OIDStartTLS,
		}
	}
	return engine.ExtendedResult{Result: h.unwilling()}
}

package engine

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/kirinldap/kirin/internal/ber"
	"github.com/kirinldap/kirin/internal/ldap"
)

// spawnWorker is Component D's entry point: it registers a cancellable
// context in the active-request table and starts the worker goroutine.
// msg must already be an independent object (ber.Decode allocates a
// fresh Packet tree per read, so no aliasing back into a shared decode
// buffer survives past this call: the "pass by value before reading
// the next envelope" requirement SPEC_FULL §4.5 names is satisfied by
// that allocation shape without an extra copy step here).
func (c *Connection) spawnWorker(parent context.Context, msg *ldap.Message) {
	ctx, cancel := context.WithCancel(parent)
	c.activeReqs.Insert(msg.ID, cancel)
	go c.runWorker(ctx, msg)
}

func (c *Connection) runWorker(ctx context.Context, msg *ldap.Message) {
	defer c.activeReqs.Remove(msg.ID)

	handler := c.config.HandlerFactory(c, msg.ID, c.config.OperationArgs)
	opType := ldap.OperationForTag(msg.ProtocolOp.Tag)

	if opType == ldap.OpSearch {
		c.runSearchWorker(ctx, msg, handler)
		return
	}

	response := c.invokeStatusOp(ctx, opType, handler, msg)
	if ctx.Err() != nil {
		return // cancelled before a response could be produced: emit nothing
	}
	c.writeMessage(msg.ID, response)
}

// invokeStatusOp calls the single Handler method for a status-only
// operation (Modify/Add/Del/ModifyDN/Compare/Extended) and builds its
// response PDU with the matching per-operation constructor, recovering
// a panic into a HandlerError-equivalent operationsError result per
// SPEC_FULL §4.4/§7.
func (c *Connection) invokeStatusOp(ctx context.Context, opType ldap.OperationType, handler Handler, msg *ldap.Message) (response *ber.Packet) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("handler panic: %v", r)
			c.logger.Error("handler panic", "op", opType, "error", err, "stack", fmt.Sprintf("%+v", err))
			response = ldap.NewExtendedResponse(ldap.ResultOperationsError, "", err.Error(), "", nil)
		}
	}()

	switch opType {
	case ldap.OpModify:
		result := handler.DoModify(msg.ProtocolOp, msg.Controls)
		return ldap.NewModifyResponse(result.Code, result.MatchedDN, result.Diagnostic)
	case ldap.OpAdd:
		result := handler.DoAdd(msg.ProtocolOp, msg.Controls)
		return ldap.NewAddResponse(result.Code, result.MatchedDN, result.Diagnostic)
	case ldap.OpDel:
		result := handler.DoDel(msg.ProtocolOp, msg.Controls)
		return ldap.NewDelResponse(result.Code, result.MatchedDN, result.Diagnostic)
	case ldap.OpModifyDN:
		result := handler.DoModifyDN(msg.ProtocolOp, msg.Controls)
		return ldap.NewModifyDNResponse(result.Code, result.MatchedDN, result.Diagnostic)
	case ldap.OpCompare:
		result := handler.DoCompare(msg.ProtocolOp, msg.Controls)
		return ldap.NewCompareResponse(result.Code, result.MatchedDN, result.Diagnostic)
	case ldap.OpExtended:
		ext := handler.DoExtended(msg.ProtocolOp, msg.Controls)
		return ldap.NewExtendedResponse(ext.Result.Code, ext.Result.MatchedDN, ext.Result.Diagnostic, ext.ResponseName, ext.Response)
	default:
		return ldap.NewExtendedResponse(ldap.ResultOperationsError, "", "unsupported async operation", "", nil)
	}
}

// runSearchWorker drives do_search: it streams entries through an
// EntryEmitter that checks ctx before each write, then, unless
// cancellation was observed, emits the terminal SearchResultDone.
func (c *Connection) runSearchWorker(ctx context.Context, msg *ldap.Message, handler Handler) {
	if c.config.Stats != nil {
		c.config.Stats.Searches.Inc()
	}

	emitter := &entryEmitter{ctx: ctx, conn: c, messageID: msg.ID}

	result := func() (res OperationResult) {
		defer func() {
			if r := recover(); r != nil {
				err := errors.Errorf("search handler panic: %v", r)
				c.logger.Error("handler panic", "op", "search", "error", err, "stack", fmt.Sprintf("%+v", err))
				res = OperationResult{Code: ldap.ResultOperationsError, Diagnostic: err.Error()}
			}
		}()
		return handler.DoSearch(ctx, msg.ProtocolOp, msg.Controls, emitter)
	}()

	if ctx.Err() != nil || emitter.cancelled {
		return // abandoned or superseded by Bind/Unbind: no SearchResultDone
	}
	c.writeMessage(msg.ID, ldap.NewSearchResultDone(result.Code, result.MatchedDN, result.Diagnostic))
}

type entryEmitter struct {
	ctx       context.Context
	conn      *Connection
	messageID int64
	cancelled bool
}

// Emit checks for cancellation before every entry (the "cooperatively
// checked... at the start of each search-entry production" point), then
// writes the entry through the connection's write mutex.
func (e *entryEmitter) Emit(entry ldap.SearchEntry) error {
	select {
	case <-e.ctx.Done():
		e.cancelled = true
		return e.ctx.Err()
	default:
	}
	return e.conn.writeMessage(e.messageID, ldap.NewSearchResultEntry(entry))
}

// writeMessage wraps op in an envelope and writes it through the
// connection's write mutex (Component B).
func (c *Connection) writeMessage(id int64, op *ber.Packet) error {
	msg := &ldap.Message{ID: id, ProtocolOp: op}
	return c.writer.WriteFrame(msg.Encode())
}

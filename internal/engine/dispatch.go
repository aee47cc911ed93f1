package engine

import (
	"context"
	"io"

	"github.com/kirinldap/kirin/internal/ber"
	"github.com/kirinldap/kirin/internal/ldap"
)

// Serve is Component E: the dispatch loop. It reads one envelope at a
// time via the BER codec, validates its shape, and either handles it
// synchronously (Bind, Unbind, Abandon) or spawns an async worker
// (Search, Modify, Add, Del, ModifyDN, Compare, Extended). It returns
// when the connection closes, cleanly or otherwise; callers are
// responsible for closing the transport once Serve returns (Serve
// itself never closes it, so an Acceptor can log the outcome first).
func (c *Connection) Serve(ctx context.Context) {
	defer c.activeReqs.CancelAll()
	defer c.setClosed()

	if c.config.Stats != nil {
		c.config.Stats.Connections.Inc()
		defer c.config.Stats.Connections.Dec()
	}

	for {
		raw, err := ber.ReadElement(c.reader)
		switch {
		case err == io.EOF:
			// Clean close at a TLV boundary: no PDU pending, nothing to say.
			return
		case err == ber.ErrTruncated:
			// Stream died mid-element. Per §4.1 this is explicitly a
			// no-notice close, distinct from the other protocol errors
			// below: the connection can't be trusted to receive anything.
			c.logger.Warn("connection closed mid-element")
			return
		case err == ber.ErrIndefiniteLength:
			c.logger.Warn("indefinite length received")
			c.sendNoticeOfDisconnection(ldap.ResultProtocolError, "indefinite length not permitted")
			return
		case err != nil:
			c.logger.Warn("transport read failed", "error", err)
			return
		}

		msg, err := ldap.ParseMessage(raw)
		if err != nil {
			c.logger.Warn("malformed envelope", "error", err)
			c.sendNoticeOfDisconnection(ldap.ResultProtocolError, "malformed envelope")
			return
		}

		if msg.ID == 0 {
			// Reserved for server-initiated unsolicited notifications;
			// RFC 4511 leaves client use undefined, SPEC_FULL's design
			// notes resolve it as a protocol error.
			c.logger.Warn("client used reserved message ID 0")
			c.sendNoticeOfDisconnection(ldap.ResultProtocolError, "message ID 0 is reserved")
			return
		}

		switch ldap.OperationForTag(msg.ProtocolOp.Tag) {
		case ldap.OpBind:
			c.activeReqs.CancelAll()
			c.handleBind(msg)
		case ldap.OpUnbind:
			c.activeReqs.CancelAll()
			if c.config.Stats != nil {
				c.config.Stats.Unbinds.Inc()
			}
			return
		case ldap.OpAbandon:
			if target, err := ldap.ParseAbandonTarget(msg.ProtocolOp); err == nil {
				c.activeReqs.Cancel(target)
			}
			// A malformed Abandon value has no response to send either
			// way; silently ignoring it is indistinguishable on the wire
			// from abandoning an already-completed request.
		case ldap.OpSearch, ldap.OpModify, ldap.OpAdd, ldap.OpDel, ldap.OpModifyDN, ldap.OpCompare, ldap.OpExtended:
			c.spawnWorker(ctx, msg)
		default:
			c.logger.Warn("unsupported operation tag", "tag", msg.ProtocolOp.Tag)
			c.sendNoticeOfDisconnection(ldap.ResultProtocolError, "unsupported operation")
			return
		}
	}
}

// handleBind runs Bind synchronously and totally ordered: the active
// request table was already cleared by the caller before this runs, and
// no other request starts until BindResponse has been written.
func (c *Connection) handleBind(msg *ldap.Message) {
	if c.config.Stats != nil {
		c.config.Stats.Binds.Inc()
	}

	handler := c.config.HandlerFactory(c, msg.ID, c.config.OperationArgs)

	result := func() (res BindResult) {
		defer func() {
			if r := recover(); r != nil {
				// A Bind panic leaves the connection in its prior bound
				// state: we simply never call setBound below.
				res = BindResult{Result: OperationResult{Code: ldap.ResultOperationsError, Diagnostic: "bind handler panic"}}
			}
		}()
		return handler.DoBind(msg.ProtocolOp, msg.Controls)
	}()

	if result.Result.Code == ldap.ResultSuccess {
		c.setBound(result.DN, result.Version)
	}

	c.writeMessage(msg.ID, ldap.NewBindResponse(result.Result.Code, result.Result.MatchedDN, result.Result.Diagnostic))
}

// sendNoticeOfDisconnection writes the unsolicited ExtendedResponse RFC
// 4511 §4.4.1 defines. Best-effort: SPEC_FULL §7 says a failed send is
// silently dropped, the connection is going away regardless.
func (c *Connection) sendNoticeOfDisconnection(code ldap.ResultCode, diagnostic string) {
	notice := ldap.NewNoticeOfDisconnection(code, diagnostic)
	_ = c.writer.WriteFrame(notice.Encode())
}

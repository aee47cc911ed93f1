package engine

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/kirinldap/kirin/internal/ber"
	"github.com/kirinldap/kirin/internal/ldap"
	"github.com/kirinldap/kirin/internal/logging"
)

// testHandler is a single Handler shared across every operation on a
// test connection, so tests can coordinate timing across messages.
type testHandler struct {
	onBind   func() BindResult
	onSearch func(ctx context.Context, emit EntryEmitter) OperationResult
}

func (h *testHandler) DoBind(op *ber.Packet, controls []ldap.Control) BindResult {
	if h.onBind != nil {
		return h.onBind()
	}
	return BindResult{Version: 3, Result: Success()}
}

func (h *testHandler) DoSearch(ctx context.Context, op *ber.Packet, controls []ldap.Control, emit EntryEmitter) OperationResult {
	if h.onSearch != nil {
		return h.onSearch(ctx, emit)
	}
	return Success()
}

func (h *testHandler) DoModify(op *ber.Packet, controls []ldap.Control) OperationResult  { return Success() }
func (h *testHandler) DoAdd(op *ber.Packet, controls []ldap.Control) OperationResult     { return Success() }
func (h *testHandler) DoDel(op *ber.Packet, controls []ldap.Control) OperationResult     { return Success() }
func (h *testHandler) DoModifyDN(op *ber.Packet, controls []ldap.Control) OperationResult { return Success() }
func (h *testHandler) DoCompare(op *ber.Packet, controls []ldap.Control) OperationResult { return Success() }
func (h *testHandler) DoExtended(op *ber.Packet, controls []ldap.Control) ExtendedResult {
	return ExtendedResult{Result: Success()}
}

func factoryFor(h *testHandler) HandlerFactory {
	return func(conn *Connection, messageID int64, args interface{}) Handler { return h }
}

func newTestConnection(t *testing.T, h *testHandler) (server *Connection, client net.Conn) {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	cfg := &Config{HandlerFactory: factoryFor(h), Logger: logging.NewNop()}
	conn := NewConnection(serverSide, "test-peer", cfg)
	return conn, clientSide
}

func bindRequestBytes(id int64, name string) []byte {
	seq := ber.NewSequence("")
	seq.AppendChild(ber.NewInteger(id, ""))
	op := ber.NewApplication(ldap.TagBindRequest, true, "")
	op.AppendChild(ber.NewInteger(3, ""))
	op.AppendChild(ber.NewString(name, ""))
	op.AppendChild(ber.NewContextString(0, "", ""))
	seq.AppendChild(op)
	return seq.Encode()
}

func unbindRequestBytes(id int64) []byte {
	seq := ber.NewSequence("")
	seq.AppendChild(ber.NewInteger(id, ""))
	seq.AppendChild(ber.NewApplication(ldap.TagUnbindRequest, false, ""))
	return seq.Encode()
}

func searchRequestBytes(id int64) []byte {
	seq := ber.NewSequence("")
	seq.AppendChild(ber.NewInteger(id, ""))
	op := ber.NewApplication(ldap.TagSearchRequest, true, "")
	op.AppendChild(ber.NewString("dc=x", ""))
	op.AppendChild(ber.NewEnumerated(int64(ldap.ScopeWholeSubtree), ""))
	op.AppendChild(ber.NewEnumerated(0, ""))
	op.AppendChild(ber.NewInteger(0, ""))
	op.AppendChild(ber.NewInteger(0, ""))
	op.AppendChild(ber.NewBoolean(false, ""))
	op.AppendChild(&ber.Packet{Class: ber.ClassContextSpecific, Tag: 7, Value: []byte("objectClass")}) // present filter, opaque to the core
	op.AppendChild(ber.NewSequence(""))
	seq.AppendChild(op)
	return seq.Encode()
}

func abandonRequestBytes(id int64, target int64) []byte {
	seq := ber.NewSequence("")
	seq.AppendChild(ber.NewInteger(id, ""))
	seq.AppendChild(&ber.Packet{Class: ber.ClassApplication, Tag: ldap.TagAbandonRequest, Value: ber.NewInteger(target, "").Value})
	return seq.Encode()
}

func malformedEnvelopeBytes(id int64) []byte {
	seq := ber.NewSequence("")
	seq.AppendChild(ber.NewInteger(id, ""))
	seq.AppendChild(ber.NewSequence("")) // UNIVERSAL, not APPLICATION-tagged
	return seq.Encode()
}

func readResponse(t *testing.T, r io.Reader) *ldap.Message {
	t.Helper()
	raw, err := ber.ReadElement(r)
	if err != nil {
		t.Fatalf("ReadElement: %v", err)
	}
	msg, err := ldap.ParseMessage(raw)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	return msg
}

func TestSimpleAnonymousBind(t *testing.T) {
	h := &testHandler{}
	conn, client := newTestConnection(t, h)
	defer client.Close()

	done := make(chan struct{})
	go func() { conn.Serve(context.Background()); close(done) }()

	if _, err := client.Write(bindRequestBytes(1, "")); err != nil {
		t.Fatalf("write: %v", err)
	}

	resp := readResponse(t, client)
	if resp.ID != 1 {
		t.Fatalf("expected response for messageID 1, got %d", resp.ID)
	}
	if resp.ProtocolOp.Tag != ldap.TagBindResponse {
		t.Fatalf("expected BindResponse tag, got %d", resp.ProtocolOp.Tag)
	}
	code, _ := resp.ProtocolOp.Children[0].Int()
	if ldap.ResultCode(code) != ldap.ResultSuccess {
		t.Fatalf("expected success, got code %d", code)
	}

	if conn.BindDN() != "" || conn.Version() != 3 {
		t.Fatalf("expected Bound(\"\", 3), got (%q, %d)", conn.BindDN(), conn.Version())
	}
	if conn.State() != StateBound {
		t.Fatalf("expected StateBound, got %v", conn.State())
	}

	client.Close()
	<-done
}

func TestAbandonMidSearch(t *testing.T) {
	started := make(chan struct{})
	blocked := make(chan struct{})
	h := &testHandler{
		onSearch: func(ctx context.Context, emit EntryEmitter) OperationResult {
			close(started)
			<-ctx.Done()
			close(blocked)
			return Success()
		},
	}
	conn, client := newTestConnection(t, h)
	defer client.Close()

	go conn.Serve(context.Background())

	client.Write(searchRequestBytes(2))
	<-started
	client.Write(abandonRequestBytes(3, 2))

	select {
	case <-blocked:
	case <-time.After(2 * time.Second):
		t.Fatalf("search worker was not cancelled by Abandon")
	}

	client.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, err := ber.ReadElement(client)
	if err == nil {
		t.Fatalf("expected no SearchResultDone for an abandoned search")
	}
}

func TestBindCancelsOutstandingSearch(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	h := &testHandler{
		onSearch: func(ctx context.Context, emit EntryEmitter) OperationResult {
			close(started)
			<-ctx.Done()
			close(cancelled)
			return Success()
		},
	}
	conn, client := newTestConnection(t, h)
	defer client.Close()

	go conn.Serve(context.Background())

	client.Write(searchRequestBytes(4))
	<-started
	client.Write(bindRequestBytes(5, ""))

	resp := readResponse(t, client)
	if resp.ID != 5 || resp.ProtocolOp.Tag != ldap.TagBindResponse {
		t.Fatalf("expected BindResponse for messageID 5, got id=%d tag=%d", resp.ID, resp.ProtocolOp.Tag)
	}

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatalf("search worker was not cancelled by Bind")
	}

	if conn.activeReqs.Len() != 0 {
		t.Fatalf("expected empty active-request table after bind response, got %d entries", conn.activeReqs.Len())
	}
}

func TestMalformedEnvelopeSendsNoticeAndCloses(t *testing.T) {
	h := &testHandler{}
	conn, client := newTestConnection(t, h)
	defer client.Close()

	done := make(chan struct{})
	go func() { conn.Serve(context.Background()); close(done) }()

	client.Write(malformedEnvelopeBytes(1))

	resp := readResponse(t, client)
	if resp.ID != 0 {
		t.Fatalf("expected unsolicited notification at messageID 0, got %d", resp.ID)
	}
	if resp.ProtocolOp.Tag != ldap.TagExtendedResponse {
		t.Fatalf("expected ExtendedResponse tag, got %d", resp.ProtocolOp.Tag)
	}
	code, _ := resp.ProtocolOp.Children[0].Int()
	if ldap.ResultCode(code) != ldap.ResultProtocolError {
		t.Fatalf("expected protocolError, got %d", code)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Serve did not return after malformed envelope")
	}
}

func TestUnbindClosesWithoutResponse(t *testing.T) {
	h := &testHandler{}
	conn, client := newTestConnection(t, h)
	defer client.Close()

	done := make(chan struct{})
	go func() { conn.Serve(context.Background()); close(done) }()

	client.Write(unbindRequestBytes(6))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Serve did not return after Unbind")
	}

	client.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, err := ber.ReadElement(client)
	if err == nil {
		t.Fatalf("expected no response PDU after Unbind")
	}
	var netErr net.Error
	if !errors.As(err, &netErr) && !errors.Is(err, io.EOF) {
		t.Fatalf("expected a read timeout or EOF, got %v", err)
	}
}

func TestPipelinedSearchesRespondForEachMessageID(t *testing.T) {
	h := &testHandler{}
	conn, client := newTestConnection(t, h)
	defer client.Close()

	go conn.Serve(context.Background())

	client.Write(searchRequestBytes(7))
	client.Write(searchRequestBytes(8))
	client.Write(searchRequestBytes(9))

	seen := map[int64]bool{}
	for i := 0; i < 3; i++ {
		resp := readResponse(t, client)
		if resp.ProtocolOp.Tag != ldap.TagSearchResultDone {
			t.Fatalf("expected SearchResultDone, got tag %d", resp.ProtocolOp.Tag)
		}
		seen[resp.ID] = true
	}

	for _, id := range []int64{7, 8, 9} {
		if !seen[id] {
			t.Fatalf("missing SearchResultDone for messageID %d", id)
		}
	}
}

package ldap

import (
	"fmt"

	"github.com/kirinldap/kirin/internal/ber"
)

// Message is the parsed LDAPMessage envelope: a Message ID, the opaque
// protocolOp value (still encoded as a ber.Packet so the engine can hand
// it to a worker untouched), and any controls. ProtocolOp.Tag is the
// APPLICATION tag number the dispatch table switches on.
type Message struct {
	ID         int64
	ProtocolOp *ber.Packet
	Controls   []Control
}

// ErrMalformedEnvelope is returned for any envelope that does not match
// SEQUENCE { INTEGER, APPLICATION-tagged choice, controls [0] OPTIONAL }.
// The engine maps this, uniformly, to Notice-of-Disconnection(protocolError).
var ErrMalformedEnvelope = fmt.Errorf("ldap: malformed envelope")

// ParseMessage decodes one already-framed element (the raw bytes
// ber.ReadElement returned) into a Message.
func ParseMessage(raw []byte) (*Message, error) {
	root, err := ber.DecodeOne(raw)
	if err != nil {
		return nil, ErrMalformedEnvelope
	}
	return FromPacket(root)
}

// FromPacket validates and extracts a Message from an already-decoded
// envelope packet.
func FromPacket(root *ber.Packet) (*Message, error) {
	if !root.Constructed || root.Class != ber.ClassUniversal || root.Tag != ber.TagSequence {
		return nil, ErrMalformedEnvelope
	}
	if len(root.Children) < 2 || len(root.Children) > 3 {
		return nil, ErrMalformedEnvelope
	}

	idPacket := root.Children[0]
	if idPacket.Constructed || idPacket.Class != ber.ClassUniversal || idPacket.Tag != ber.TagInteger {
		return nil, ErrMalformedEnvelope
	}
	id, err := idPacket.Int()
	if err != nil {
		return nil, ErrMalformedEnvelope
	}

	op := root.Children[1]
	if op.Class != ber.ClassApplication {
		return nil, ErrMalformedEnvelope
	}

	msg := &Message{ID: id, ProtocolOp: op}

	if len(root.Children) == 3 {
		controls, err := parseControls(root.Children[2])
		if err != nil {
			return nil, ErrMalformedEnvelope
		}
		msg.Controls = controls
	}

	return msg, nil
}

// parseControls unwraps the [0] SEQUENCE OF Control envelope element.
func parseControls(wrapper *ber.Packet) ([]Control, error) {
	if wrapper.Class != ber.ClassContextSpecific || wrapper.Tag != 0 || !wrapper.Constructed {
		return nil, ErrMalformedEnvelope
	}
	controls := make([]Control, 0, len(wrapper.Children))
	for _, c := range wrapper.Children {
		if !c.Constructed || len(c.Children) < 1 {
			return nil, ErrMalformedEnvelope
		}
		ctl := Control{OID: c.Children[0].String()}

		rest := c.Children[1:]
		if len(rest) > 0 && !rest[0].Constructed && rest[0].Tag == ber.TagBoolean {
			critVal, err := rest[0].Bool()
			if err != nil {
				return nil, ErrMalformedEnvelope
			}
			ctl.Criticality = critVal
			rest = rest[1:]
		}
		if len(rest) > 0 {
			ctl.Value = rest[0].Value
		}
		controls = append(controls, ctl)
	}
	return controls, nil
}

// Encode renders the message back into a SEQUENCE envelope. Used for
// responses and notifications built by the engine, not for round
// tripping a request (the engine never re-serializes a request it read).
func (m *Message) Encode() []byte {
	seq := ber.NewSequence("LDAPMessage")
	seq.AppendChild(ber.NewInteger(m.ID, "messageID"))
	seq.AppendChild(m.ProtocolOp)
	if len(m.Controls) > 0 {
		seq.AppendChild(encodeControls(m.Controls))
	}
	return seq.Encode()
}

func encodeControls(controls []Control) *ber.Packet {
	wrapper := ber.NewContext(0, true, "controls")
	for _, c := range controls {
		ctl := ber.NewSequence("control")
		ctl.AppendChild(ber.NewString(c.OID, "controlType"))
		ctl.AppendChild(ber.NewBoolean(c.Criticality, "criticality"))
		if c.Value != nil {
			ctl.AppendChild(ber.NewOctetString(c.Value, "controlValue"))
		}
		wrapper.AppendChild(ctl)
	}
	return wrapper
}

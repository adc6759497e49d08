package wire

import (
	"fmt"
)

// Header flag bit positions within the 16-bit flags field, per RFC 1035
// §4.1.1. mDNS (RFC 6762 §18) redefines or ignores several of these, but
// this package still decodes the full field so that unicast DNS messages
// remain representable.
const (
	flagQR     = uint16(1) << 15
	flagOpcode = uint16(0xF) << 11
	flagAA     = uint16(1) << 10
	flagTC     = uint16(1) << 9
	flagRD     = uint16(1) << 8
	flagRA     = uint16(1) << 7
	flagZ      = uint16(1) << 6
	flagAD     = uint16(1) << 5
	flagCD     = uint16(1) << 4
	flagRcode  = uint16(0xF)
)

// Header is the fixed 12-octet message header.
type Header struct {
	ID                 uint16
	Response           bool
	Opcode             uint8
	Authoritative      bool
	Truncated          bool
	RecursionDesired   bool
	RecursionAvailable bool
	Rcode              uint8
}

// Message is a complete DNS/mDNS message: a header plus its four sections.
type Message struct {
	Header     Header
	Questions  []Question
	Answers    []ResourceRecord
	Authority  []ResourceRecord
	Additional []ResourceRecord
}

// IsMDNS reports whether m is an mDNS message rather than a unicast DNS
// message, per RFC 6762 §18.1: mDNS messages always carry a query ID of
// zero.
func (m Message) IsMDNS() bool {
	return m.Header.ID == 0
}

// Encode serializes m into its wire representation.
func (m Message) Encode() ([]byte, error) {
	buf := newWriteBuffer()
	if err := m.encode(buf); err != nil {
		return nil, err
	}
	out := make([]byte, buf.len())
	copy(out, buf.bytes())
	return out, nil
}

func (m Message) encode(buf *writeBuffer) error {
	flags := uint16(0)
	if m.Header.Response {
		flags |= flagQR
	}
	flags |= uint16(m.Header.Opcode) << 11 & flagOpcode
	if m.Header.Authoritative {
		flags |= flagAA
	}
	if m.Header.Truncated {
		flags |= flagTC
	}
	if m.Header.RecursionDesired {
		flags |= flagRD
	}
	if m.Header.RecursionAvailable {
		flags |= flagRA
	}
	flags |= uint16(m.Header.Rcode) & flagRcode

	buf.writeUint16(m.Header.ID)
	buf.writeUint16(flags)
	buf.writeUint16(uint16(len(m.Questions)))
	buf.writeUint16(uint16(len(m.Answers)))
	buf.writeUint16(uint16(len(m.Authority)))
	buf.writeUint16(uint16(len(m.Additional)))

	for _, q := range m.Questions {
		if err := encodeQuestion(buf, q); err != nil {
			return err
		}
	}
	for _, rr := range m.Answers {
		if err := encodeResourceRecord(buf, rr); err != nil {
			return err
		}
	}
	for _, rr := range m.Authority {
		if err := encodeResourceRecord(buf, rr); err != nil {
			return err
		}
	}
	for _, rr := range m.Additional {
		if err := encodeResourceRecord(buf, rr); err != nil {
			return err
		}
	}

	return nil
}

// Decode parses a complete Message from its wire representation.
func Decode(msg []byte) (Message, error) {
	if len(msg) < 12 {
		return Message{}, fmt.Errorf("%w: message of %d octets shorter than 12-octet header", ErrInvalidMessage, len(msg))
	}

	flags := beUint16(msg[2:])

	m := Message{
		Header: Header{
			ID:                 beUint16(msg[0:]),
			Response:           flags&flagQR != 0,
			Opcode:             uint8((flags & flagOpcode) >> 11),
			Authoritative:      flags&flagAA != 0,
			Truncated:          flags&flagTC != 0,
			RecursionDesired:   flags&flagRD != 0,
			RecursionAvailable: flags&flagRA != 0,
			Rcode:              uint8(flags & flagRcode),
		},
	}

	qdCount := int(beUint16(msg[4:]))
	anCount := int(beUint16(msg[6:]))
	nsCount := int(beUint16(msg[8:]))
	arCount := int(beUint16(msg[10:]))

	pos := 12

	for i := 0; i < qdCount; i++ {
		q, n, err := decodeQuestion(msg, pos)
		if err != nil {
			return Message{}, err
		}
		m.Questions = append(m.Questions, q)
		pos += n
	}

	for i := 0; i < anCount; i++ {
		rr, n, err := decodeResourceRecord(msg, pos)
		if err != nil {
			return Message{}, err
		}
		m.Answers = append(m.Answers, rr)
		pos += n
	}

	for i := 0; i < nsCount; i++ {
		rr, n, err := decodeResourceRecord(msg, pos)
		if err != nil {
			return Message{}, err
		}
		m.Authority = append(m.Authority, rr)
		pos += n
	}

	for i := 0; i < arCount; i++ {
		rr, n, err := decodeResourceRecord(msg, pos)
		if err != nil {
			return Message{}, err
		}
		m.Additional = append(m.Additional, rr)
		pos += n
	}

	return m, nil
}

// NewQuery builds a standard mDNS query message (ID zero, QR and AA clear)
// asking a single question.
//
// See https://tools.ietf.org/html/rfc6762#section-5.
func NewQuery(q Question) Message {
	return Message{
		Questions: []Question{q},
	}
}

// NewMultiQuery builds an mDNS query message carrying several questions in
// a single packet, per RFC 6762 §5.3's allowance for combining queries that
// share a single transmission.
func NewMultiQuery(qs ...Question) Message {
	return Message{
		Questions: append([]Question(nil), qs...),
	}
}

// NewGoodbye builds an mDNS "goodbye" announcement: a response whose
// records all carry a TTL of GoodbyeTTL (zero), which instructs receivers
// to immediately purge them from their caches.
//
// See https://tools.ietf.org/html/rfc6762#section-10.1.
func NewGoodbye(records ...ResourceRecord) Message {
	for i := range records {
		records[i].TTL = GoodbyeTTL
	}

	return Message{
		Header:  Header{Response: true, Authoritative: true},
		Answers: records,
	}
}

// NewResponse builds an mDNS response message carrying the given answer
// and additional records. The header's AA bit is set per RFC 6762 §18.4,
// which requires all mDNS responses to be marked authoritative.
func NewResponse(answers, additional []ResourceRecord) Message {
	return Message{
		Header:     Header{Response: true, Authoritative: true},
		Answers:    answers,
		Additional: additional,
	}
}

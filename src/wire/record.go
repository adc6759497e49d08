package wire

import (
	"fmt"
	"unicode/utf8"
)

// RData is the tagged-variant resource record payload. Each concrete type
// below implements it; type-switch on the concrete type to inspect a
// decoded record.
type RData interface {
	isRData()
}

// ARecord is the RDATA of a type A record: an IPv4 host address.
type ARecord struct {
	Address IPv4
}

func (ARecord) isRData() {}

// AAAARecord is the RDATA of a type AAAA record: an IPv6 host address.
type AAAARecord struct {
	Address IPv6
}

func (AAAARecord) isRData() {}

// PTRRecord is the RDATA of a type PTR record: a pointer to another name.
type PTRRecord struct {
	Name Name
}

func (PTRRecord) isRData() {}

// SRVRecord is the RDATA of a type SRV record.
//
// See https://tools.ietf.org/html/rfc2782.
type SRVRecord struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   Name
}

func (SRVRecord) isRData() {}

// TXTRecord is the RDATA of a type TXT record: an ordered sequence of
// strings. See the txt package for the higher-level DNS-SD/libp2p view of
// this sequence.
type TXTRecord struct {
	Strings []string
}

func (TXTRecord) isRData() {}

// HINFORecord is the RDATA of a type HINFO record.
type HINFORecord struct {
	CPU string
	OS  string
}

func (HINFORecord) isRData() {}

// NSECRecord is the RDATA of a type NSEC record. The type bitmap is kept
// opaque; this library has no need to interpret it.
type NSECRecord struct {
	NextDomain Name
	Bitmap     []byte
}

func (NSECRecord) isRData() {}

// UnknownRecord preserves the RDATA of a record whose type code this
// package does not otherwise model, so that messages containing
// experimental or unrecognized record types still round-trip exactly.
type UnknownRecord struct {
	TypeCode uint16
	Raw      []byte
}

func (UnknownRecord) isRData() {}

// Question is a single entry in a message's question section.
type Question struct {
	Name Name
	Type uint16
	// Class is the 15-bit record class (e.g. ClassIN), excluding the QU bit.
	Class uint16
	// Unicast requests a unicast response to an mDNS query ("QU bit").
	//
	// See https://tools.ietf.org/html/rfc6762#section-18.12.
	Unicast bool
}

// ResourceRecord is a single entry in a message's answer, authority, or
// additional section.
type ResourceRecord struct {
	Name Name
	Type uint16
	// Class is the 15-bit record class (e.g. ClassIN), excluding the
	// cache-flush bit.
	Class uint16
	// CacheFlush marks the record as belonging to a unique RRSet that has
	// been sent in full, per RFC 6762 §10.2.
	CacheFlush bool
	TTL        uint32
	RData      RData
}

// isRecognizedQuestionType reports whether t is a type code this package
// will decode in a question. Resource records are never rejected this way
// — only questions are, per spec; an unrecognized record type simply
// becomes an UnknownRecord.
func isRecognizedQuestionType(t uint16) bool {
	switch t {
	case TypeA, TypeNS, TypeCNAME, TypeSOA, TypePTR, TypeHINFO, TypeMX,
		TypeTXT, TypeAAAA, TypeSRV, TypeNSEC, TypeANY:
		return true
	default:
		return false
	}
}

func encodeQuestion(buf *writeBuffer, q Question) error {
	if err := q.Name.encode(buf); err != nil {
		return err
	}

	buf.writeUint16(q.Type)

	class := q.Class & 0x7FFF
	if q.Unicast {
		class |= unicastResponseBit
	}
	buf.writeUint16(class)

	return nil
}

func decodeQuestion(msg []byte, offset int) (Question, int, error) {
	name, n, err := decodeName(msg, offset)
	if err != nil {
		return Question{}, 0, err
	}

	pos := offset + n
	if pos+4 > len(msg) {
		return Question{}, 0, fmt.Errorf("%w: truncated question", ErrInvalidMessage)
	}

	typ := beUint16(msg[pos:])
	classRaw := beUint16(msg[pos+2:])

	if !isRecognizedQuestionType(typ) {
		return Question{}, 0, fmt.Errorf("%w: type %d", ErrUnsupportedType, typ)
	}

	q := Question{
		Name:    name,
		Type:    typ,
		Class:   classRaw &^ unicastResponseBit,
		Unicast: classRaw&unicastResponseBit != 0,
	}

	return q, n + 4, nil
}

func encodeResourceRecord(buf *writeBuffer, rr ResourceRecord) error {
	if err := rr.Name.encode(buf); err != nil {
		return err
	}

	buf.writeUint16(rr.Type)

	class := rr.Class & 0x7FFF
	if rr.CacheFlush {
		class |= cacheFlushBit
	}
	buf.writeUint16(class)

	buf.writeUint32(rr.TTL)

	// Back-patch the rdlength field once the rdata has been written,
	// rather than encoding rdata into a scratch buffer first: rdata such
	// as a PTR's target name must be able to emit compression pointers
	// that reference names earlier in the *whole* message, which only
	// works if it is written directly into buf using buf's own
	// compression table.
	rdlenOffset := buf.len()
	buf.writeUint16(0)

	rdataStart := buf.len()
	if err := encodeRData(buf, rr.Type, rr.RData); err != nil {
		return err
	}

	buf.patchUint16(rdlenOffset, uint16(buf.len()-rdataStart))
	return nil
}

func encodeRData(buf *writeBuffer, typ uint16, rdata RData) error {
	switch v := rdata.(type) {
	case ARecord:
		buf.writeBytes(v.Address[:])
	case AAAARecord:
		buf.writeBytes(v.Address[:])
	case PTRRecord:
		return v.Name.encode(buf)
	case SRVRecord:
		buf.writeUint16(v.Priority)
		buf.writeUint16(v.Weight)
		buf.writeUint16(v.Port)
		// RFC 2782 / RFC 6762 §18.14: the SRV target is not compressed.
		buf.writeNameRaw(v.Target)
	case TXTRecord:
		if len(v.Strings) == 0 {
			buf.writeUint8(0)
			return nil
		}
		for _, s := range v.Strings {
			if len(s) > 255 {
				return fmt.Errorf("%w: TXT string of %d octets exceeds 255", ErrInvalidMessage, len(s))
			}
			buf.writeUint8(uint8(len(s)))
			buf.writeBytes([]byte(s))
		}
	case HINFORecord:
		if len(v.CPU) > 255 || len(v.OS) > 255 {
			return fmt.Errorf("%w: HINFO string exceeds 255 octets", ErrInvalidMessage)
		}
		buf.writeUint8(uint8(len(v.CPU)))
		buf.writeBytes([]byte(v.CPU))
		buf.writeUint8(uint8(len(v.OS)))
		buf.writeBytes([]byte(v.OS))
	case NSECRecord:
		if err := v.NextDomain.encode(buf); err != nil {
			return err
		}
		buf.writeBytes(v.Bitmap)
	case UnknownRecord:
		buf.writeBytes(v.Raw)
	default:
		return fmt.Errorf("%w: no encoder for rdata of type %d", ErrInvalidMessage, typ)
	}

	return nil
}

func decodeResourceRecord(msg []byte, offset int) (ResourceRecord, int, error) {
	name, n, err := decodeName(msg, offset)
	if err != nil {
		return ResourceRecord{}, 0, err
	}

	pos := offset + n
	if pos+10 > len(msg) {
		return ResourceRecord{}, 0, fmt.Errorf("%w: truncated resource record", ErrInvalidMessage)
	}

	typ := beUint16(msg[pos:])
	classRaw := beUint16(msg[pos+2:])
	ttl := beUint32(msg[pos+4:])
	rdlength := int(beUint16(msg[pos+8:]))

	rdataStart := pos + 10
	if rdataStart+rdlength > len(msg) {
		return ResourceRecord{}, 0, fmt.Errorf("%w: rdlength %d exceeds remaining buffer", ErrInvalidMessage, rdlength)
	}

	rdata, err := decodeRData(msg, rdataStart, rdlength, typ)
	if err != nil {
		return ResourceRecord{}, 0, err
	}

	rr := ResourceRecord{
		Name:       name,
		Type:       typ,
		Class:      classRaw &^ cacheFlushBit,
		CacheFlush: classRaw&cacheFlushBit != 0,
		TTL:        ttl,
		RData:      rdata,
	}

	return rr, rdataStart + rdlength - offset, nil
}

func decodeRData(msg []byte, start, rdlength int, typ uint16) (RData, error) {
	end := start + rdlength

	switch typ {
	case TypeA:
		if rdlength != 4 {
			return nil, fmt.Errorf("%w: A record rdlength %d, expected 4", ErrInvalidMessage, rdlength)
		}
		var addr IPv4
		copy(addr[:], msg[start:end])
		return ARecord{addr}, nil

	case TypeAAAA:
		if rdlength != 16 {
			return nil, fmt.Errorf("%w: AAAA record rdlength %d, expected 16", ErrInvalidMessage, rdlength)
		}
		var addr IPv6
		copy(addr[:], msg[start:end])
		return AAAARecord{addr}, nil

	case TypePTR:
		name, n, err := decodeName(msg, start)
		if err != nil {
			return nil, err
		}
		if n != rdlength {
			return nil, fmt.Errorf("%w: PTR rdata consumed %d octets, rdlength was %d", ErrInvalidMessage, n, rdlength)
		}
		return PTRRecord{name}, nil

	case TypeSRV:
		if rdlength < 6 {
			return nil, fmt.Errorf("%w: SRV rdlength %d too short", ErrInvalidMessage, rdlength)
		}
		target, n, err := decodeName(msg, start+6)
		if err != nil {
			return nil, err
		}
		if 6+n != rdlength {
			return nil, fmt.Errorf("%w: SRV rdata consumed %d octets, rdlength was %d", ErrInvalidMessage, 6+n, rdlength)
		}
		return SRVRecord{
			Priority: beUint16(msg[start:]),
			Weight:   beUint16(msg[start+2:]),
			Port:     beUint16(msg[start+4:]),
			Target:   target,
		}, nil

	case TypeTXT:
		if rdlength == 0 {
			return TXTRecord{Strings: []string{""}}, nil
		}

		var strs []string
		pos := start
		for pos < end {
			l := int(msg[pos])
			if pos+1+l > end {
				return nil, fmt.Errorf("%w: TXT string extends past rdlength", ErrInvalidMessage)
			}
			s := msg[pos+1 : pos+1+l]
			if !utf8.Valid(s) {
				return nil, fmt.Errorf("%w: TXT string is not valid UTF-8", ErrInvalidMessage)
			}
			strs = append(strs, string(s))
			pos += 1 + l
		}
		return TXTRecord{Strings: strs}, nil

	case TypeHINFO:
		pos := start
		if pos >= end {
			return nil, fmt.Errorf("%w: HINFO rdata truncated", ErrInvalidMessage)
		}
		cpuLen := int(msg[pos])
		if pos+1+cpuLen > end {
			return nil, fmt.Errorf("%w: HINFO cpu string extends past rdlength", ErrInvalidMessage)
		}
		cpu := msg[pos+1 : pos+1+cpuLen]
		if !utf8.Valid(cpu) {
			return nil, fmt.Errorf("%w: HINFO cpu string is not valid UTF-8", ErrInvalidMessage)
		}
		pos += 1 + cpuLen

		if pos >= end {
			return nil, fmt.Errorf("%w: HINFO rdata truncated", ErrInvalidMessage)
		}
		osLen := int(msg[pos])
		if pos+1+osLen > end {
			return nil, fmt.Errorf("%w: HINFO os string extends past rdlength", ErrInvalidMessage)
		}
		os := msg[pos+1 : pos+1+osLen]
		if !utf8.Valid(os) {
			return nil, fmt.Errorf("%w: HINFO os string is not valid UTF-8", ErrInvalidMessage)
		}
		pos += 1 + osLen

		if pos != end {
			return nil, fmt.Errorf("%w: HINFO rdata has %d trailing octets", ErrInvalidMessage, end-pos)
		}

		return HINFORecord{CPU: string(cpu), OS: string(os)}, nil

	case TypeNSEC:
		next, n, err := decodeName(msg, start)
		if err != nil {
			return nil, err
		}
		if n > rdlength {
			return nil, fmt.Errorf("%w: NSEC next-domain consumed %d octets, rdlength was %d", ErrInvalidMessage, n, rdlength)
		}
		bitmap := append([]byte(nil), msg[start+n:end]...)
		return NSECRecord{NextDomain: next, Bitmap: bitmap}, nil

	default:
		raw := append([]byte(nil), msg[start:end]...)
		return UnknownRecord{TypeCode: typ, Raw: raw}, nil
	}
}

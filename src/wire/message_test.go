package wire

import (
	"bytes"
	"net"
	"testing"
)

// TestDecodePTRQuery covers scenario S1: decoding a plain PTR query off the
// wire byte-for-byte.
func TestDecodePTRQuery(t *testing.T) {
	msg := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x05, 0x5f, 0x68, 0x74, 0x74, 0x70,
		0x04, 0x5f, 0x74, 0x63, 0x70,
		0x05, 0x6c, 0x6f, 0x63, 0x61, 0x6c,
		0x00,
		0x00, 0x0c,
		0x00, 0x01,
	}

	m, err := Decode(msg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if m.Header.ID != 0 {
		t.Errorf("ID = %d, want 0", m.Header.ID)
	}
	if m.Header.Response {
		t.Errorf("Response = true, want false")
	}
	if len(m.Questions) != 1 {
		t.Fatalf("len(Questions) = %d, want 1", len(m.Questions))
	}

	q := m.Questions[0]
	want := MustParseName("_http._tcp.local")
	if !q.Name.Equal(want) {
		t.Errorf("Name = %q, want %q", q.Name, want)
	}
	if q.Type != TypePTR {
		t.Errorf("Type = %d, want TypePTR", q.Type)
	}
	if q.Class != ClassIN {
		t.Errorf("Class = %d, want ClassIN", q.Class)
	}
	if q.Unicast {
		t.Errorf("Unicast = true, want false")
	}
}

// TestDecodeCompressedPTRAnswer covers scenario S2: a PTR response whose
// RDATA name ends in a pointer to offset 12, the question name that
// immediately follows the header.
func TestDecodeCompressedPTRAnswer(t *testing.T) {
	buf := newWriteBuffer()

	service := MustParseName("_http._tcp.local")
	if err := service.encode(buf); err != nil {
		t.Fatalf("encode question name: %v", err)
	}
	buf.writeUint16(TypePTR)
	buf.writeUint16(ClassIN)

	rrStart := buf.len()
	if err := service.encode(buf); err != nil {
		t.Fatalf("encode rr name: %v", err)
	}
	buf.writeUint16(TypePTR)
	buf.writeUint16(ClassIN)
	buf.writeUint32(120)

	rdlenOffset := buf.len()
	buf.writeUint16(0)
	rdataStart := buf.len()
	buf.writeUint8(9)
	buf.writeBytes([]byte("My Server"))
	buf.writeUint16(0xC000 | 12)
	buf.patchUint16(rdlenOffset, uint16(buf.len()-rdataStart))

	full := []byte{
		0x00, 0x00, 0x84, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
	}
	full = append(full, buf.bytes()[:rrStart]...)
	full = append(full, buf.bytes()[rrStart:]...)

	m, err := Decode(full)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(m.Answers) != 1 {
		t.Fatalf("len(Answers) = %d, want 1", len(m.Answers))
	}

	ptr, ok := m.Answers[0].RData.(PTRRecord)
	if !ok {
		t.Fatalf("RData type = %T, want PTRRecord", m.Answers[0].RData)
	}

	want := []string{"My Server", "_http", "_tcp", "local"}
	got := ptr.Name.Labels()
	if len(got) != len(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestGoodbyeZeroesTTL covers scenario S3.
func TestGoodbyeZeroesTTL(t *testing.T) {
	addr, err := IPv4FromNetIP(bytesToIP(192, 168, 1, 1))
	if err != nil {
		t.Fatalf("IPv4FromNetIP: %v", err)
	}

	rr := ResourceRecord{
		Name:       MustParseName("host.local"),
		Type:       TypeA,
		Class:      ClassIN,
		CacheFlush: true,
		TTL:        120,
		RData:      ARecord{Address: addr},
	}

	m := NewGoodbye(rr)

	if m.Header.ID != 0 {
		t.Errorf("ID = %d, want 0", m.Header.ID)
	}
	if !m.Header.Response || !m.Header.Authoritative {
		t.Errorf("Response/Authoritative not set")
	}
	if len(m.Answers) != 1 {
		t.Fatalf("len(Answers) = %d, want 1", len(m.Answers))
	}
	if m.Answers[0].TTL != GoodbyeTTL {
		t.Errorf("TTL = %d, want %d", m.Answers[0].TTL, GoodbyeTTL)
	}
	if !m.Answers[0].CacheFlush {
		t.Errorf("CacheFlush not preserved")
	}
	got, ok := m.Answers[0].RData.(ARecord)
	if !ok || got.Address != addr {
		t.Errorf("RData = %#v, want A(%v)", m.Answers[0].RData, addr)
	}
}

// TestFullDNSSDResponseRoundTrip covers scenario S4.
func TestFullDNSSDResponseRoundTrip(t *testing.T) {
	serviceType := MustParseName("_http._tcp.local")
	instance := MustParseName("My Service._http._tcp.local")
	host := MustParseName("myhost.local")
	addr, err := IPv4FromNetIP(bytesToIP(192, 168, 1, 100))
	if err != nil {
		t.Fatalf("IPv4FromNetIP: %v", err)
	}

	answers := []ResourceRecord{
		{Name: serviceType, Type: TypePTR, Class: ClassIN, TTL: 120, RData: PTRRecord{Name: instance}},
		{Name: instance, Type: TypeSRV, Class: ClassIN, CacheFlush: true, TTL: 120, RData: SRVRecord{Priority: 0, Weight: 0, Port: 8080, Target: host}},
		{Name: instance, Type: TypeTXT, Class: ClassIN, CacheFlush: true, TTL: 120, RData: TXTRecord{Strings: []string{"path=/v1"}}},
	}
	additional := []ResourceRecord{
		{Name: host, Type: TypeA, Class: ClassIN, CacheFlush: true, TTL: 120, RData: ARecord{Address: addr}},
	}

	m := NewResponse(answers, additional)

	encoded, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(encoded) >= 200 {
		t.Errorf("encoded length %d, want < 200 (compression should be effective)", len(encoded))
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(decoded.Answers) != 3 || len(decoded.Additional) != 1 {
		t.Fatalf("got %d answers, %d additional; want 3, 1", len(decoded.Answers), len(decoded.Additional))
	}

	ptr := decoded.Answers[0].RData.(PTRRecord)
	if !ptr.Name.Equal(instance) {
		t.Errorf("PTR target = %q, want %q", ptr.Name, instance)
	}

	srv := decoded.Answers[1].RData.(SRVRecord)
	if srv.Port != 8080 || !srv.Target.Equal(host) {
		t.Errorf("SRV = %+v", srv)
	}

	txt := decoded.Answers[2].RData.(TXTRecord)
	if len(txt.Strings) != 1 || txt.Strings[0] != "path=/v1" {
		t.Errorf("TXT = %+v", txt)
	}

	a := decoded.Additional[0].RData.(ARecord)
	if a.Address != addr {
		t.Errorf("A = %v, want %v", a.Address, addr)
	}
	if !decoded.Additional[0].CacheFlush {
		t.Errorf("CacheFlush not preserved on A record")
	}
}

func TestMessageRoundTrip(t *testing.T) {
	m := NewQuery(Question{
		Name:    MustParseName("_http._tcp.local"),
		Type:    TypePTR,
		Class:   ClassIN,
		Unicast: false,
	})

	encoded, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	reencoded, err := decoded.Encode()
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}

	if !bytes.Equal(encoded, reencoded) {
		t.Errorf("round-trip mismatch:\n got %x\nwant %x", reencoded, encoded)
	}
}

func TestIsMDNS(t *testing.T) {
	m := NewQuery(Question{Name: RootName, Type: TypeANY, Class: ClassANY})
	if !m.IsMDNS() {
		t.Errorf("IsMDNS() = false, want true for id 0")
	}

	m.Header.ID = 42
	if m.IsMDNS() {
		t.Errorf("IsMDNS() = true, want false for nonzero id")
	}
}

func TestDecodeRejectsShortHeader(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x01})
	if err == nil {
		t.Fatalf("expected error decoding short header")
	}
}

func TestDecodeQuestionRejectsUnsupportedType(t *testing.T) {
	buf := newWriteBuffer()
	RootName.encode(buf)
	buf.writeUint16(9999)
	buf.writeUint16(ClassIN)

	_, _, err := decodeQuestion(buf.bytes(), 0)
	if err == nil {
		t.Fatalf("expected error for unrecognized question type")
	}
}

func bytesToIP(a, b, c, d byte) net.IP {
	return net.IPv4(a, b, c, d)
}

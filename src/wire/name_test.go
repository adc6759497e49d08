package wire

import (
	"errors"
	"testing"
)

func TestNameRoundTrip(t *testing.T) {
	n, err := NewName("_http", "_tcp", "local")
	if err != nil {
		t.Fatalf("NewName: %v", err)
	}

	buf := newWriteBuffer()
	if err := n.encode(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, consumed, err := decodeName(buf.bytes(), 0)
	if err != nil {
		t.Fatalf("decodeName: %v", err)
	}
	if consumed != buf.len() {
		t.Fatalf("consumed = %d, want %d", consumed, buf.len())
	}
	if !decoded.Equal(n) {
		t.Fatalf("decoded = %q, want %q", decoded, n)
	}
}

func TestNameEqualIsCaseInsensitive(t *testing.T) {
	a := MustParseName("My-Service._http._tcp.local")
	b := MustParseName("my-service._HTTP._TCP.LOCAL")

	if !a.Equal(b) {
		t.Fatalf("%q and %q should be equal", a, b)
	}
	if a.Key() != b.Key() {
		t.Fatalf("keys differ: %q vs %q", a.Key(), b.Key())
	}
}

func TestNewNameRejectsEmptyLabel(t *testing.T) {
	_, err := NewName("foo", "", "bar")
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("err = %v, want ErrInvalidName", err)
	}
}

func TestNewNameRejectsOverlongLabel(t *testing.T) {
	long := make([]byte, MaxLabelLength+1)
	for i := range long {
		long[i] = 'a'
	}

	_, err := NewName(string(long))
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("err = %v, want ErrInvalidName", err)
	}
}

func TestNewNameRejectsOverlongName(t *testing.T) {
	labels := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		l := make([]byte, 63)
		for j := range l {
			l[j] = 'a'
		}
		labels = append(labels, string(l))
	}

	_, err := NewName(labels...)
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("err = %v, want ErrInvalidName", err)
	}
}

func TestWriteNameCompressesRepeatedSuffix(t *testing.T) {
	buf := newWriteBuffer()

	names := []Name{
		MustParseName("one._http._tcp.local"),
		MustParseName("two._http._tcp.local"),
		MustParseName("three._http._tcp.local"),
	}

	for _, n := range names {
		if err := n.encode(buf); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}

	uncompressedLen := 0
	for _, n := range names {
		b := newWriteBuffer()
		b.writeNameRaw(n)
		uncompressedLen += b.len()
	}

	if buf.len() >= uncompressedLen {
		t.Fatalf("compressed length %d not smaller than uncompressed %d", buf.len(), uncompressedLen)
	}
}

func TestDecodeNameFollowsPointer(t *testing.T) {
	buf := newWriteBuffer()
	base := MustParseName("_http._tcp.local")
	if err := base.encode(buf); err != nil {
		t.Fatalf("encode base: %v", err)
	}

	instanceOffset := buf.len()
	buf.writeUint8(9)
	buf.writeBytes([]byte("My Server"))
	buf.writeUint16(0xC000 | uint16(0))

	full := MustParseName("My Server._http._tcp.local")

	decoded, _, err := decodeName(buf.bytes(), instanceOffset)
	if err != nil {
		t.Fatalf("decodeName: %v", err)
	}
	if !decoded.Equal(full) {
		t.Fatalf("decoded = %q, want %q", decoded, full)
	}
}

func TestDecodeNameRejectsReservedLabelType(t *testing.T) {
	msg := []byte{0x40, 0x00}
	_, _, err := decodeName(msg, 0)
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("err = %v, want ErrInvalidMessage", err)
	}

	msg2 := []byte{0x80, 0x00}
	_, _, err = decodeName(msg2, 0)
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("err = %v, want ErrInvalidMessage", err)
	}
}

func TestDecodeNameRejectsSelfReferentialPointer(t *testing.T) {
	msg := []byte{0xC0, 0x00}
	_, _, err := decodeName(msg, 0)
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("err = %v, want ErrInvalidMessage", err)
	}
}

func TestDecodeNameRejectsTwoCyclePointer(t *testing.T) {
	msg := []byte{0xC0, 0x02, 0xC0, 0x00}
	_, _, err := decodeName(msg, 0)
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("err = %v, want ErrInvalidMessage", err)
	}
}

package wire

import (
	"fmt"
	"net"
)

// IPv4 is an IPv4 address held by value as its 4 octets, so that equality
// and hashing are byte-identical without touching the heap.
type IPv4 [4]byte

// IPv4FromNetIP converts a net.IP holding an IPv4 (or IPv4-mapped IPv6)
// address into an IPv4 value. It fails if ip does not hold an IPv4 address.
func IPv4FromNetIP(ip net.IP) (IPv4, error) {
	v4 := ip.To4()
	if v4 == nil {
		return IPv4{}, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidMessage, ip)
	}

	var out IPv4
	copy(out[:], v4)
	return out, nil
}

// NetIP returns a with its octets as a net.IP.
func (a IPv4) NetIP() net.IP {
	return net.IP(append([]byte(nil), a[:]...))
}

// String returns the dotted-quad representation of a.
func (a IPv4) String() string {
	return a.NetIP().String()
}

// IPv6 is an IPv6 address held by value as its 16 octets.
type IPv6 [16]byte

// IPv6FromNetIP converts a net.IP holding an IPv6 address into an IPv6
// value. It fails if ip does not hold a (non-IPv4-mapped) 16-octet address.
func IPv6FromNetIP(ip net.IP) (IPv6, error) {
	if ip.To4() != nil {
		return IPv6{}, fmt.Errorf("%w: %q is an IPv4 address", ErrInvalidMessage, ip)
	}

	v6 := ip.To16()
	if v6 == nil {
		return IPv6{}, fmt.Errorf("%w: %q is not an IPv6 address", ErrInvalidMessage, ip)
	}

	var out IPv6
	copy(out[:], v6)
	return out, nil
}

// NetIP returns a with its octets as a net.IP.
func (a IPv6) NetIP() net.IP {
	return net.IP(append([]byte(nil), a[:]...))
}

// String returns the colon-separated representation of a.
func (a IPv6) String() string {
	return a.NetIP().String()
}

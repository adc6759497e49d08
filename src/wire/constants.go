// Package wire implements the RFC 1035 DNS wire format: label-based name
// encoding with compression, question/record (de)serialization, and the
// four-section DNS message envelope, specialized with the mDNS (RFC 6762)
// and DNS-SD (RFC 6763) factory helpers used by the browser and advertiser
// packages.
package wire

import "time"

// Record types. Only the subset DNS-SD/mDNS traffic actually carries gets a
// dedicated RData variant; everything else round-trips as UnknownRecord.
//
// See https://tools.ietf.org/html/rfc1035#section-3.2.2.
const (
	TypeA     uint16 = 1
	TypeNS    uint16 = 2
	TypeCNAME uint16 = 5
	TypeSOA   uint16 = 6
	TypePTR   uint16 = 12
	TypeHINFO uint16 = 13
	TypeMX    uint16 = 15
	TypeTXT   uint16 = 16
	TypeAAAA  uint16 = 28
	TypeSRV   uint16 = 33
	TypeNSEC  uint16 = 47
	TypeANY   uint16 = 255
)

// Record classes.
//
// See https://tools.ietf.org/html/rfc1035#section-3.2.4.
const (
	ClassIN  uint16 = 1
	ClassANY uint16 = 255
)

// Opcodes.
const (
	OpcodeQuery uint8 = 0
)

// Response codes.
const (
	RcodeSuccess uint8 = 0
)

// unicastResponseBit is the high bit of a question's class field, used in
// mDNS queries to request a unicast response ("QU").
//
// See https://tools.ietf.org/html/rfc6762#section-18.12.
const unicastResponseBit uint16 = 1 << 15

// cacheFlushBit is the high bit of a resource record's class field, used in
// mDNS responses to mark a record as belonging to a unique RRSet that should
// flush stale cached records with the same name/type/class.
//
// See https://tools.ietf.org/html/rfc6762#section-18.13.
const cacheFlushBit uint16 = 1 << 15

// Wire-format limits.
const (
	// MaxLabelLength is the maximum number of octets in a single DNS label.
	MaxLabelLength = 63

	// MaxNameLength is the maximum number of octets in an encoded name,
	// including length prefixes and the root terminator.
	MaxNameLength = 255

	// MaxPointerHops bounds the number of compression pointers followed
	// while decoding a single name, guarding against pointer loops.
	MaxPointerHops = 128

	// MaxStandardMessageSize is the conventional limit for a unicast DNS
	// message carried over UDP.
	MaxStandardMessageSize = 512

	// MaxMDNSMessageSize is the library's constant for the largest mDNS
	// message it expects to handle. It is advisory only: this package does
	// not enforce fragmentation or reject oversized messages on that basis.
	MaxMDNSMessageSize = 9000
)

// mDNS multicast endpoints.
//
// See https://tools.ietf.org/html/rfc6762#section-3.
const (
	// Port is the mDNS port number, used for both IPv4 and IPv6.
	Port = 5353

	// IPv4Group is the multicast group address used for mDNS over IPv4.
	IPv4Group = "224.0.0.251"

	// IPv6Group is the multicast group address used for mDNS over IPv6.
	IPv6Group = "ff02::fb"
)

// Default and goodbye TTLs.
//
// See https://tools.ietf.org/html/rfc6762#section-10.
const (
	// DefaultTTL is the default TTL applied to advertised records.
	DefaultTTL = 120 * time.Second

	// GoodbyeTTL is the TTL used to announce withdrawal of a record.
	GoodbyeTTL uint32 = 0
)

// Well-known DNS-SD names.
//
// See https://tools.ietf.org/html/rfc6763#section-9 and the libp2p mDNS
// discovery extension.
const (
	// ServiceEnumerationDomain is queried to enumerate all service types
	// advertised within a domain.
	ServiceEnumerationDomain = "_services._dns-sd._udp.local."

	// P2PServiceType is the libp2p service type used for peer discovery.
	P2PServiceType = "_p2p._udp.local."
)

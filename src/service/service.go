// Package service models a single DNS-SD service instance: the flat
// value type that the browser and advertiser packages exchange, as
// distinct from the wire package's name/record representation and the
// protocol messages built from it.
package service

import (
	"time"

	"github.com/jmalloc/mdnssd/src/txt"
	"github.com/jmalloc/mdnssd/src/wire"
)

// DefaultDomain is the domain new services are registered under absent
// an explicit choice.
const DefaultDomain = "local"

// DefaultTTL is the TTL applied to a service's records absent an
// explicit choice.
const DefaultTTL = wire.DefaultTTL

// Service is a single DNS-SD service instance: the name/type/domain
// triple that forms its identity, the location (host, port) and
// metadata (priority, weight, TXT) that subsequent records refine, and
// the addresses and bookkeeping the browser and advertiser maintain
// around it.
//
// Identity is the derived FullName; two Services with the same FullName
// represent the same instance regardless of any other field.
type Service struct {
	// Name is the service instance's unqualified name, e.g. "My Printer".
	Name string
	// Type is the service type, e.g. "_http._tcp".
	Type string
	// Domain is the domain the service is registered or discovered in,
	// e.g. "local".
	Domain string

	// Host is the target hostname carried by the service's SRV record,
	// without its trailing dot (e.g. "myhost.local"), or empty if not yet
	// resolved.
	Host string
	// Port is the TCP/UDP port carried by the service's SRV record, or
	// zero if not yet resolved.
	Port uint16
	// Priority is the SRV record priority.
	Priority uint16
	// Weight is the SRV record weight.
	Weight uint16

	// IPv4 and IPv6 are the resolved addresses for Host, in the order
	// they were observed (browser) or configured (advertiser).
	IPv4 []wire.IPv4
	IPv6 []wire.IPv6

	// TXT is the service's TXT record content.
	TXT txt.Record

	// TTL is the TTL applied to the service's records.
	TTL time.Duration

	// LastSeen is updated whenever the browser processes a record that
	// refines this service. For advertiser-owned services it records the
	// registration or last-update time.
	LastSeen time.Time
}

// New returns a Service for the given name, type, and domain: domain
// defaults to "local" if empty, priority and weight default to 0, TTL
// defaults to DefaultTTL, and TXT and the address lists start empty.
// LastSeen is set to now.
func New(name, typ, domain string, now time.Time) Service {
	if domain == "" {
		domain = DefaultDomain
	}

	return Service{
		Name:     name,
		Type:     typ,
		Domain:   domain,
		TTL:      DefaultTTL,
		LastSeen: now,
	}
}

// FullName is the fully-qualified instance name, e.g.
// "My Printer._http._tcp.local.". It is the Service's identity.
//
// Per RFC 6763 §4.1.1, an instance name is an arbitrary, human-readable
// UTF-8 label that may itself contain dots or spaces, so FullName is
// plain concatenation and never splits the instance name into
// dot-separated labels.
func (s Service) FullName() string {
	return s.Name + "." + s.FullType()
}

// FullType is the fully-qualified service type, e.g.
// "_http._tcp.local.".
func (s Service) FullType() string {
	return s.Type + "." + s.Domain + "."
}

// IsResolved reports whether both Host and Port have been filled in,
// typically by an SRV record.
func (s Service) IsResolved() bool {
	return s.Host != "" && s.Port != 0
}

// HasAddresses reports whether at least one IPv4 or IPv6 address has
// been resolved for the service's host.
func (s Service) HasAddresses() bool {
	return len(s.IPv4) > 0 || len(s.IPv6) > 0
}

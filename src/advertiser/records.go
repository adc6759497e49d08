package advertiser

import (
	"time"

	"github.com/jmalloc/mdnssd/src/service"
	"github.com/jmalloc/mdnssd/src/wire"
)

// ttlSeconds returns the TTL to apply to svc's records on the wire: svc's
// own TTL if set, otherwise the Advertiser's configured default.
func (a *Advertiser) ttlSeconds(svc service.Service) uint32 {
	ttl := svc.TTL
	if ttl == 0 {
		ttl = a.ttl
	}
	return uint32(ttl / time.Second)
}

// instanceName builds the wire-format name identifying svc: the
// instance name as a single opaque label, qualified by the parsed
// service type and domain. RFC 6763 §4.1.1 permits dots, spaces, and
// arbitrary UTF-8 within an instance name, so it is never itself split
// into dot-separated labels the way svc.FullType and svc.Host are.
func instanceName(svc service.Service) (wire.Name, error) {
	instance, err := wire.NewName(svc.Name)
	if err != nil {
		return wire.Name{}, err
	}

	typ, err := wire.ParseName(svc.FullType())
	if err != nil {
		return wire.Name{}, err
	}

	return instance.Qualify(typ)
}

// mustInstanceName is instanceName for call sites operating on a svc
// that has already passed validateName at Register or Update time; an
// error here signals that invariant was violated, not a condition this
// package's callers are expected to handle.
func mustInstanceName(svc service.Service) wire.Name {
	n, err := instanceName(svc)
	if err != nil {
		panic(err)
	}
	return n
}

func (a *Advertiser) ptrRecord(svc service.Service) wire.ResourceRecord {
	return wire.ResourceRecord{
		Name:  wire.MustParseName(svc.FullType()),
		Type:  wire.TypePTR,
		Class: wire.ClassIN,
		TTL:   a.ttlSeconds(svc),
		RData: wire.PTRRecord{Name: mustInstanceName(svc)},
	}
}

func (a *Advertiser) srvRecord(svc service.Service) wire.ResourceRecord {
	return wire.ResourceRecord{
		Name:       mustInstanceName(svc),
		Type:       wire.TypeSRV,
		Class:      wire.ClassIN,
		CacheFlush: true,
		TTL:        a.ttlSeconds(svc),
		RData: wire.SRVRecord{
			Priority: svc.Priority,
			Weight:   svc.Weight,
			Port:     svc.Port,
			Target:   wire.MustParseName(svc.Host + "."),
		},
	}
}

func (a *Advertiser) txtRecord(svc service.Service) wire.ResourceRecord {
	return wire.ResourceRecord{
		Name:       mustInstanceName(svc),
		Type:       wire.TypeTXT,
		Class:      wire.ClassIN,
		CacheFlush: true,
		TTL:        a.ttlSeconds(svc),
		RData:      wire.TXTRecord{Strings: svc.TXT.ToStrings()},
	}
}

// addressRecords returns one A record per svc.IPv4 and one AAAA record
// per svc.IPv6, all named for svc's host.
func (a *Advertiser) addressRecords(svc service.Service) []wire.ResourceRecord {
	var out []wire.ResourceRecord
	host := wire.MustParseName(svc.Host + ".")
	ttl := a.ttlSeconds(svc)

	for _, addr := range svc.IPv4 {
		out = append(out, wire.ResourceRecord{
			Name:       host,
			Type:       wire.TypeA,
			Class:      wire.ClassIN,
			CacheFlush: true,
			TTL:        ttl,
			RData:      wire.ARecord{Address: addr},
		})
	}
	for _, addr := range svc.IPv6 {
		out = append(out, wire.ResourceRecord{
			Name:       host,
			Type:       wire.TypeAAAA,
			Class:      wire.ClassIN,
			CacheFlush: true,
			TTL:        ttl,
			RData:      wire.AAAARecord{Address: addr},
		})
	}

	return out
}

// bundle builds the full announcement response for svc: its PTR record
// as the sole answer, with SRV, TXT, and address records as additionals.
//
// See https://tools.ietf.org/html/rfc6763#section-12.1.
func (a *Advertiser) bundle(svc service.Service) wire.Message {
	additional := append(
		[]wire.ResourceRecord{a.srvRecord(svc), a.txtRecord(svc)},
		a.addressRecords(svc)...,
	)

	return wire.NewResponse(
		[]wire.ResourceRecord{a.ptrRecord(svc)},
		additional,
	)
}

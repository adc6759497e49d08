package browser

import (
	"strings"
	"time"

	"github.com/jmalloc/mdnssd/src/service"
	"github.com/jmalloc/mdnssd/src/txt"
	"github.com/jmalloc/mdnssd/src/wire"
)

// demux applies every answer and additional record in m to b's service
// map, in section-then-index order, emitting events as state changes.
// It is only ever called from within the actor's run loop, so it may
// mutate b.services directly.
func (b *Browser) demux(m wire.Message) {
	if !m.Header.Response {
		// Queries arrive on the same socket; browsing only reacts to responses.
		return
	}

	b.demuxRecords(m.Answers)
	b.demuxRecords(m.Additional)
}

func (b *Browser) demuxRecords(records []wire.ResourceRecord) {
	for _, rr := range records {
		switch rdata := rr.RData.(type) {
		case wire.PTRRecord:
			b.demuxPTR(rr, rdata)
		case wire.SRVRecord:
			b.demuxSRV(rr, rdata)
		case wire.TXTRecord:
			b.demuxTXT(rr, rdata)
		case wire.ARecord:
			b.demuxA(rr, rdata.Address)
		case wire.AAAARecord:
			b.demuxAAAA(rr, rdata.Address)
		}
	}
}

func (b *Browser) demuxPTR(rr wire.ResourceRecord, rdata wire.PTRRecord) {
	typ := rr.Name.String()
	if _, ok := b.browsingTypes[typ]; !ok {
		return
	}

	fullName := rdata.Name.String()

	if rr.TTL == 0 {
		if svc, ok := b.services[fullName]; ok {
			delete(b.services, fullName)
			b.emit(Event{Kind: Removed, Service: svc})
		}
		return
	}

	if _, ok := b.services[fullName]; ok {
		return
	}

	name := instanceNameFromFullName(fullName, typ)
	domain := domainFromType(typ)
	serviceType := typeWithoutDomain(typ, domain)

	svc := service.New(name, serviceType, domain, time.Now())
	b.services[fullName] = svc
	b.emit(Event{Kind: Found, Service: svc})

	if b.autoResolve {
		b.spawnResolve(svc)
	}
}

func (b *Browser) demuxSRV(rr wire.ResourceRecord, rdata wire.SRVRecord) {
	fullName := rr.Name.String()
	svc, ok := b.services[fullName]
	if !ok {
		return
	}

	svc.Host = strings.TrimSuffix(rdata.Target.String(), ".")
	svc.Port = rdata.Port
	svc.Priority = rdata.Priority
	svc.Weight = rdata.Weight
	svc.LastSeen = time.Now()

	b.services[fullName] = svc
	b.emit(Event{Kind: Updated, Service: svc})
}

func (b *Browser) demuxTXT(rr wire.ResourceRecord, rdata wire.TXTRecord) {
	fullName := rr.Name.String()
	svc, ok := b.services[fullName]
	if !ok {
		return
	}

	svc.TXT = txt.FromStrings(rdata.Strings)
	svc.LastSeen = time.Now()

	b.services[fullName] = svc
	b.emit(Event{Kind: Updated, Service: svc})
}

func (b *Browser) demuxA(rr wire.ResourceRecord, addr wire.IPv4) {
	host := strings.TrimSuffix(rr.Name.String(), ".")

	for fullName, svc := range b.services {
		if svc.Host != host {
			continue
		}

		if containsIPv4(svc.IPv4, addr) {
			continue
		}

		svc.IPv4 = append(svc.IPv4, addr)
		svc.LastSeen = time.Now()
		b.services[fullName] = svc
		b.emit(Event{Kind: Updated, Service: svc})
	}
}

func (b *Browser) demuxAAAA(rr wire.ResourceRecord, addr wire.IPv6) {
	host := strings.TrimSuffix(rr.Name.String(), ".")

	for fullName, svc := range b.services {
		if svc.Host != host {
			continue
		}

		if containsIPv6(svc.IPv6, addr) {
			continue
		}

		svc.IPv6 = append(svc.IPv6, addr)
		svc.LastSeen = time.Now()
		b.services[fullName] = svc
		b.emit(Event{Kind: Updated, Service: svc})
	}
}

func containsIPv4(addrs []wire.IPv4, addr wire.IPv4) bool {
	for _, a := range addrs {
		if a == addr {
			return true
		}
	}
	return false
}

func containsIPv6(addrs []wire.IPv6, addr wire.IPv6) bool {
	for _, a := range addrs {
		if a == addr {
			return true
		}
	}
	return false
}

// instanceNameFromFullName strips the trailing ".typ" from fullName,
// leaving the unqualified instance name, e.g.
// "My Printer._http._tcp.local." with typ "_http._tcp.local." yields
// "My Printer".
func instanceNameFromFullName(fullName, typ string) string {
	return strings.TrimSuffix(strings.TrimSuffix(fullName, typ), ".")
}

// domainFromType returns the last label of a fully-qualified service
// type, without a trailing dot, e.g. "local" from "_http._tcp.local.".
func domainFromType(typ string) string {
	labels := strings.Split(strings.TrimSuffix(typ, "."), ".")
	if len(labels) == 0 {
		return ""
	}
	return labels[len(labels)-1]
}

// typeWithoutDomain strips the trailing ".domain." from a fully-qualified
// service type, leaving the relative type, e.g. "_http._tcp".
func typeWithoutDomain(typ, domain string) string {
	return strings.TrimSuffix(strings.TrimSuffix(typ, domain+"."), ".")
}

package advertiser

import (
	"context"

	"github.com/jmalloc/mdnssd/src/wire"
)

// handleQueryCommand answers one incoming query against the registered
// services, sending a single response message if anything matched.
type handleQueryCommand struct {
	msg wire.Message
}

func (c *handleQueryCommand) execute(ctx context.Context, a *Advertiser) error {
	if c.msg.Header.Response {
		return nil
	}

	var answers, additional []wire.ResourceRecord

	for _, q := range c.msg.Questions {
		as, ad := a.answerQuestion(q)
		answers = append(answers, as...)
		additional = append(additional, ad...)
	}

	if len(answers) == 0 && len(additional) == 0 {
		return nil
	}

	return a.transport.Send(ctx, wire.NewResponse(answers, additional))
}

// answerQuestion matches q against every registered service and returns
// the records it contributes to the answer and additional sections,
// per RFC 6763 §6/§9's PTR/SRV/TXT/address dispatch. A PTR query
// answers with the PTR record and carries SRV/TXT/address as
// additional. A direct SRV or TXT query answers with the record it
// asked for and carries the other as additional; ANY against the same
// instance name carries both as additional, since the PTR (matched
// separately, against the service-type name) is the thing actually
// being answered there. A direct A, AAAA, or ANY query against a host
// name answers with every address record of the type asked for — both
// A and AAAA for ANY, since there is no PTR to defer to at a host name
// — and carries any other address family as additional.
func (a *Advertiser) answerQuestion(q wire.Question) (answers, additional []wire.ResourceRecord) {
	wantsPTR := q.Type == wire.TypePTR || q.Type == wire.TypeANY
	wantsInstance := q.Type == wire.TypeSRV || q.Type == wire.TypeTXT || q.Type == wire.TypeANY
	wantsAddress := q.Type == wire.TypeA || q.Type == wire.TypeAAAA || q.Type == wire.TypeANY

	for _, svc := range a.services {
		name, err := instanceName(svc)
		if err != nil {
			// Already validated at Register/Update; a failure here
			// means the registry holds a stale entry that predates a
			// stricter check. Skip it rather than answer incorrectly.
			continue
		}

		switch {
		case wantsPTR && q.Name.Equal(wire.MustParseName(svc.FullType())):
			answers = append(answers, a.ptrRecord(svc))
			additional = append(additional, a.srvRecord(svc), a.txtRecord(svc))
			additional = append(additional, a.addressRecords(svc)...)

		case wantsInstance && q.Name.Equal(name):
			switch q.Type {
			case wire.TypeSRV:
				answers = append(answers, a.srvRecord(svc))
				additional = append(additional, a.txtRecord(svc))
			case wire.TypeTXT:
				answers = append(answers, a.txtRecord(svc))
				additional = append(additional, a.srvRecord(svc))
			default: // TypeANY
				additional = append(additional, a.srvRecord(svc), a.txtRecord(svc))
			}
			additional = append(additional, a.addressRecords(svc)...)

		case wantsAddress && svc.Host != "" && q.Name.Equal(wire.MustParseName(svc.Host+".")):
			for _, rr := range a.addressRecords(svc) {
				if q.Type == wire.TypeANY || rr.Type == q.Type {
					answers = append(answers, rr)
				} else {
					additional = append(additional, rr)
				}
			}
		}
	}

	return answers, additional
}

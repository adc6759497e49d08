package advertiser

import (
	"time"

	"github.com/dogmatiq/dodeca/logging"

	"github.com/jmalloc/mdnssd/src/transport"
	"github.com/jmalloc/mdnssd/src/wire"
)

// DefaultTTL is the TTL applied to an advertised service's records
// absent an explicit choice.
const DefaultTTL = wire.DefaultTTL

// DefaultAnnouncementInterval is how often a registered service is
// re-announced absent an explicit choice.
const DefaultAnnouncementInterval = 20 * time.Second

// DefaultAnnouncementCount is how many times the initial announcement
// bundle is sent, with doubling delays between sends, absent an
// explicit choice.
const DefaultAnnouncementCount = 3

// Option applies a configuration choice to an Advertiser under
// construction.
type Option func(*Advertiser) error

// UseLogger sets the logger an Advertiser reports background send
// failures and other diagnostics to. A nil logger is fine; logging.Log
// and logging.DebugString fall back to logging.DefaultLogger on a nil
// target.
func UseLogger(l logging.Logger) Option {
	return func(a *Advertiser) error {
		a.logger = l
		return nil
	}
}

// UseTTL sets the TTL applied to a registered service's records when
// the service itself does not specify one. The default is DefaultTTL.
func UseTTL(d time.Duration) Option {
	return func(a *Advertiser) error {
		a.ttl = d
		return nil
	}
}

// UseAnnouncementInterval sets how often registered services are
// re-announced. The default is DefaultAnnouncementInterval.
func UseAnnouncementInterval(d time.Duration) Option {
	return func(a *Advertiser) error {
		a.announcementInterval = d
		return nil
	}
}

// UseAnnouncementCount sets how many times the initial announcement
// bundle is sent. The default is DefaultAnnouncementCount.
func UseAnnouncementCount(n int) Option {
	return func(a *Advertiser) error {
		a.announcementCount = n
		return nil
	}
}

// UseTransportConfig sets the address-family and interface selection
// used for the Advertiser's own transport, and for its local-address
// enumeration. It has no effect if UseTransport is also given.
func UseTransportConfig(c transport.Config) Option {
	return func(a *Advertiser) error {
		a.transportConfig = c
		return nil
	}
}

// UseTransport overrides the transport an Advertiser uses, rather than
// having it construct a transport.Multicast from UseTransportConfig.
// Intended for tests.
func UseTransport(t transport.Transport) Option {
	return func(a *Advertiser) error {
		a.transport = t
		return nil
	}
}

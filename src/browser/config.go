package browser

import (
	"time"

	"github.com/dogmatiq/dodeca/logging"

	"github.com/jmalloc/mdnssd/src/transport"
)

// DefaultQueryInterval is how often a Browser re-sends its PTR queries
// for each browsing type absent an explicit choice.
const DefaultQueryInterval = 120 * time.Second

// Option applies a configuration choice to a Browser under construction.
type Option func(*Browser) error

// UseLogger sets the logger a Browser reports transport-originated
// errors and other diagnostics to. A nil logger is fine; logging.Log and
// logging.DebugString fall back to logging.DefaultLogger on a nil
// target.
func UseLogger(l logging.Logger) Option {
	return func(b *Browser) error {
		b.logger = l
		return nil
	}
}

// UseQueryInterval sets how often a Browser re-sends its PTR queries.
// The default is DefaultQueryInterval.
func UseQueryInterval(d time.Duration) Option {
	return func(b *Browser) error {
		b.queryInterval = d
		return nil
	}
}

// UseAutoResolve enables automatically resolving (SRV/TXT) every newly
// found service, rather than requiring an explicit Resolve call.
func UseAutoResolve() Option {
	return func(b *Browser) error {
		b.autoResolve = true
		return nil
	}
}

// UseTransportConfig sets the address-family and interface selection
// used for the Browser's own transport. It has no effect if UseTransport
// is also given.
func UseTransportConfig(c transport.Config) Option {
	return func(b *Browser) error {
		b.transportConfig = c
		return nil
	}
}

// UseTransport overrides the transport a Browser uses, rather than
// having it construct a transport.Multicast from UseTransportConfig.
// Intended for tests.
func UseTransport(t transport.Transport) Option {
	return func(b *Browser) error {
		b.transport = t
		return nil
	}
}

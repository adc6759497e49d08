package advertiser

import (
	"net"

	"github.com/jmalloc/mdnssd/src/transport"
	"github.com/jmalloc/mdnssd/src/wire"
)

// localAddresses returns the non-loopback unicast addresses configured
// on the host's up interfaces, restricted to cfg.InterfaceName if set
// and to the families cfg enables. It is grounded on the same
// net.Interfaces/iface.Addrs walk used to pick a single internet-facing
// interface elsewhere in this stack, generalized here to collect every
// address a registered service might be reached on rather than just one.
func localAddresses(cfg transport.Config) ([]wire.IPv4, []wire.IPv6, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, nil, err
	}

	var v4s []wire.IPv4
	var v6s []wire.IPv6

	for _, iface := range ifaces {
		if cfg.InterfaceName != "" && iface.Name != cfg.InterfaceName {
			continue
		}
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok || ipnet.IP.IsLoopback() {
				continue
			}

			if ip4 := ipnet.IP.To4(); ip4 != nil {
				if !cfg.UseIPv4 {
					continue
				}
				addr, err := wire.IPv4FromNetIP(ip4)
				if err != nil {
					continue
				}
				v4s = append(v4s, addr)
				continue
			}

			if !cfg.UseIPv6 {
				continue
			}
			addr, err := wire.IPv6FromNetIP(ipnet.IP)
			if err != nil {
				continue
			}
			v6s = append(v6s, addr)
		}
	}

	return v4s, v6s, nil
}

package transport

import (
	"net"
	"sort"
	"strings"

	"github.com/jmalloc/twelf/src/twelf"
)

func logJoined(logger twelf.Logger, addr *net.UDPAddr, ifaces []net.Interface) {
	names := make([]string, len(ifaces))
	for i, iface := range ifaces {
		names[i] = iface.Name
	}
	sort.Strings(names)

	logger.Debug(
		"listening for mDNS traffic on %s (%s)",
		addr,
		strings.Join(names, ", "),
	)
}

func logListenError(logger twelf.Logger, addr *net.UDPAddr, err error) {
	logger.Log("unable to listen for mDNS traffic on %s: %s", addr, err)
}

func logJoinError(logger twelf.Logger, group net.IP, iface net.Interface, err error) {
	logger.Debug(
		"unable to join the %s multicast group on the %s interface: %s",
		group,
		iface.Name,
		err,
	)
}

func logReadError(logger twelf.Logger, addr *net.UDPAddr, err error) {
	logger.Log("unable to read mDNS packet via %s: %s", addr, err)
}

func logDecodeError(logger twelf.Logger, src net.Addr, err error) {
	logger.Debug("dropping malformed mDNS packet from %s: %s", src, err)
}

func logWriteError(logger twelf.Logger, dest net.Addr, err error) {
	logger.Log("unable to send mDNS packet to %s: %s", dest, err)
}

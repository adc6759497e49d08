package transport

import (
	"net"

	ipvx "golang.org/x/net/ipv6"

	"github.com/jmalloc/twelf/src/twelf"
	"github.com/jmalloc/mdnssd/src/wire"
)

var (
	// ipv6Group is the multicast group used for mDNS over IPv6.
	//
	// See https://tools.ietf.org/html/rfc6762#section-3.
	ipv6Group = net.ParseIP(wire.IPv6Group)

	ipv6GroupAddr = &net.UDPAddr{IP: ipv6Group, Port: wire.Port}

	ipv6ListenAddr = &net.UDPAddr{IP: net.IPv6unspecified, Port: wire.Port}
)

// conn6 wraps an IPv6 multicast UDP socket.
type conn6 struct {
	logger twelf.Logger
	pc     *ipvx.PacketConn
}

func (c *conn6) listen(ifaces []net.Interface) error {
	sock, err := net.ListenUDP("udp6", ipv6ListenAddr)
	if err != nil {
		logListenError(c.logger, ipv6ListenAddr, err)
		return err
	}

	c.pc = ipvx.NewPacketConn(sock)
	if err := c.pc.SetControlMessage(ipvx.FlagInterface, true); err != nil {
		c.pc.Close()
		return err
	}

	joined := make([]net.Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		iface := iface
		if err := c.pc.JoinGroup(&iface, ipv6GroupAddr); err != nil {
			logJoinError(c.logger, ipv6Group, iface, err)
			continue
		}
		joined = append(joined, iface)
	}

	if len(joined) == 0 {
		c.pc.Close()
		return errNoInterfacesJoined
	}

	logJoined(c.logger, ipv6ListenAddr, joined)
	return nil
}

func (c *conn6) readFrom() ([]byte, net.Addr, error) {
	buf := getBuffer()

	n, _, src, err := c.pc.ReadFrom(buf)
	if err != nil {
		putBuffer(buf)
		return nil, nil, err
	}

	return buf[:n], src, nil
}

func (c *conn6) writeTo(data []byte, dest net.Addr) error {
	_, err := c.pc.WriteTo(data, nil, dest)
	return err
}

func (c *conn6) group() net.Addr {
	return ipv6GroupAddr
}

func (c *conn6) close() error {
	return c.pc.Close()
}

package transport

import (
	"net"

	ipvx "golang.org/x/net/ipv4"

	"github.com/jmalloc/twelf/src/twelf"
	"github.com/jmalloc/mdnssd/src/wire"
)

var (
	// ipv4Group is the multicast group used for mDNS over IPv4.
	//
	// See https://tools.ietf.org/html/rfc6762#section-3.
	ipv4Group = net.ParseIP(wire.IPv4Group)

	ipv4GroupAddr = &net.UDPAddr{IP: ipv4Group, Port: wire.Port}

	// ipv4ListenAddr binds to the wildcard address rather than the group
	// address itself, so that group membership can be controlled
	// per-interface below.
	ipv4ListenAddr = &net.UDPAddr{IP: net.IPv4zero, Port: wire.Port}
)

// conn4 wraps an IPv4 multicast UDP socket.
type conn4 struct {
	logger twelf.Logger
	pc     *ipvx.PacketConn
}

func (c *conn4) listen(ifaces []net.Interface) error {
	sock, err := net.ListenUDP("udp4", ipv4ListenAddr)
	if err != nil {
		logListenError(c.logger, ipv4ListenAddr, err)
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
		if err := c.pc.JoinGroup(&iface, ipv4GroupAddr); err != nil {
			logJoinError(c.logger, ipv4Group, iface, err)
			continue
		}
		joined = append(joined, iface)
	}

	if len(joined) == 0 {
		c.pc.Close()
		return errNoInterfacesJoined
	}

	logJoined(c.logger, ipv4ListenAddr, joined)
	return nil
}

func (c *conn4) readFrom() ([]byte, net.Addr, error) {
	buf := getBuffer()

	n, _, src, err := c.pc.ReadFrom(buf)
	if err != nil {
		putBuffer(buf)
		return nil, nil, err
	}

	return buf[:n], src, nil
}

func (c *conn4) writeTo(data []byte, dest net.Addr) error {
	_, err := c.pc.WriteTo(data, nil, dest)
	return err
}

func (c *conn4) group() net.Addr {
	return ipv4GroupAddr
}

func (c *conn4) close() error {
	return c.pc.Close()
}

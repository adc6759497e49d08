package browser_test

import (
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/jmalloc/mdnssd/src/browser"
	"github.com/jmalloc/mdnssd/src/service"
	"github.com/jmalloc/mdnssd/src/wire"
)

const serviceType = "_http._tcp.local."
const instanceName = "My Service._http._tcp.local."

func ptrResponse(ttl uint32) wire.Message {
	return wire.NewResponse(
		[]wire.ResourceRecord{
			{
				Name:  wire.MustParseName(serviceType),
				Type:  wire.TypePTR,
				Class: wire.ClassIN,
				TTL:   ttl,
				RData: wire.PTRRecord{Name: wire.MustParseName(instanceName)},
			},
		},
		nil,
	)
}

func srvTxtResponse() wire.Message {
	return wire.NewResponse(
		[]wire.ResourceRecord{
			{
				Name:  wire.MustParseName(instanceName),
				Type:  wire.TypeSRV,
				Class: wire.ClassIN,
				TTL:   120,
				RData: wire.SRVRecord{Priority: 0, Weight: 0, Port: 8080, Target: wire.MustParseName("myhost.local.")},
			},
			{
				Name:  wire.MustParseName(instanceName),
				Type:  wire.TypeTXT,
				Class: wire.ClassIN,
				TTL:   120,
				RData: wire.TXTRecord{Strings: []string{"path=/v1"}},
			},
		},
		nil,
	)
}

func aResponse() wire.Message {
	addr, err := wire.IPv4FromNetIP(net.ParseIP("192.168.1.100"))
	Expect(err).NotTo(HaveOccurred())

	return wire.NewResponse(
		[]wire.ResourceRecord{
			{
				Name:  wire.MustParseName("myhost.local."),
				Type:  wire.TypeA,
				Class: wire.ClassIN,
				TTL:   120,
				RData: wire.ARecord{Address: addr},
			},
		},
		nil,
	)
}

var _ = Describe("Browser", func() {
	var (
		ctx context.Context
		mt  *mockTransport
		b   *browser.Browser
	)

	BeforeEach(func() {
		ctx = context.Background()

		mt = newMockTransport()

		var err error
		b, err = browser.New(browser.UseTransport(mt), browser.UseAutoResolve())
		Expect(err).NotTo(HaveOccurred())

		Expect(b.Start(ctx)).To(Succeed())
		Expect(b.Browse(ctx, serviceType)).To(Succeed())

		// Drain the immediate PTR query Browse sends.
		Eventually(mt.sent).Should(Receive())
	})

	AfterEach(func() {
		Expect(b.Stop()).To(Succeed())
	})

	It("reports discovery scenario S5 in order", func() {
		mt.feed(ptrResponse(120))

		var e browser.Event
		Eventually(b.Events()).Should(Receive(&e))
		Expect(e.Kind).To(Equal(browser.Found))
		Expect(e.Service.FullName()).To(Equal(instanceName))

		mt.feed(srvTxtResponse())

		Eventually(b.Events()).Should(Receive(&e))
		Expect(e.Kind).To(Equal(browser.Updated))
		Expect(e.Service.Host).To(Equal("myhost.local"))
		Expect(e.Service.Port).To(Equal(uint16(8080)))

		Eventually(b.Events()).Should(Receive(&e))
		Expect(e.Kind).To(Equal(browser.Updated))
		v, ok := e.Service.TXT.Get("path")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("/v1"))

		mt.feed(aResponse())

		Eventually(b.Events()).Should(Receive(&e))
		Expect(e.Kind).To(Equal(browser.Updated))
		Expect(e.Service.IPv4).To(HaveLen(1))

		mt.feed(ptrResponse(0))

		Eventually(b.Events()).Should(Receive(&e))
		Expect(e.Kind).To(Equal(browser.Removed))
		Expect(e.Service.FullName()).To(Equal(instanceName))
	})

	It("forgets services of a type when StopBrowsing is called", func() {
		mt.feed(ptrResponse(120))

		var e browser.Event
		Eventually(b.Events()).Should(Receive(&e))
		Expect(e.Kind).To(Equal(browser.Found))

		Expect(b.StopBrowsing(ctx, serviceType)).To(Succeed())

		Eventually(b.Events()).Should(Receive(&e))
		Expect(e.Kind).To(Equal(browser.Removed))
	})

	It("rejects Browse with an error instead of panicking on a malformed type", func() {
		Expect(func() {
			err := b.Browse(ctx, "_http..tcp.local.")
			Expect(err).To(HaveOccurred())
		}).NotTo(Panic())

		Consistently(mt.sent, 200*time.Millisecond).ShouldNot(Receive())
	})

	It("rejects Resolve with an error instead of panicking on an unparseable service", func() {
		bad := service.Service{Name: "", Type: "", Domain: "local"}

		Expect(func() {
			_, err := b.Resolve(ctx, bad)
			Expect(err).To(HaveOccurred())
		}).NotTo(Panic())
	})
})

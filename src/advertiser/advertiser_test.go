package advertiser_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/jmalloc/mdnssd/src/advertiser"
	"github.com/jmalloc/mdnssd/src/service"
	"github.com/jmalloc/mdnssd/src/wire"
)

var _ = Describe("Advertiser", func() {
	var (
		ctx context.Context
		mt  *mockTransport
		adv *advertiser.Advertiser
	)

	BeforeEach(func() {
		ctx = context.Background()
		mt = newMockTransport()

		var err error
		adv, err = advertiser.New(
			advertiser.UseTransport(mt),
			advertiser.UseAnnouncementCount(3),
			// Keep the periodic refresh out of the way of the
			// initial-announcement assertions below.
			advertiser.UseAnnouncementInterval(time.Hour),
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(adv.Start(ctx)).To(Succeed())
	})

	AfterEach(func() {
		Expect(adv.Stop()).To(Succeed())
	})

	It("reports announcement scenario S6: three announcements with doubling gaps", func() {
		svc := service.Service{Name: "Test", Type: "_http._tcp", Port: 8080}

		start := time.Now()
		Expect(adv.Register(ctx, svc)).To(Succeed())

		var gaps []time.Duration
		var msgs []wire.Message
		last := start

		for i := 0; i < 3; i++ {
			var m wire.Message
			Eventually(mt.sent, 5*time.Second).Should(Receive(&m))

			now := time.Now()
			gaps = append(gaps, now.Sub(last))
			last = now
			msgs = append(msgs, m)
		}

		Consistently(mt.sent, 500*time.Millisecond).ShouldNot(Receive())

		for _, m := range msgs {
			Expect(m.Answers).To(HaveLen(1))
			Expect(m.Answers[0].Type).To(Equal(wire.TypePTR))

			var hasSRV, hasTXT bool
			for _, rr := range m.Additional {
				switch rr.Type {
				case wire.TypeSRV:
					hasSRV = true
				case wire.TypeTXT:
					hasTXT = true
				}
			}
			Expect(hasSRV).To(BeTrue())
			Expect(hasTXT).To(BeTrue())
		}

		// gaps[0] is from Register to the first (immediate) send; the
		// doubling delays apply between sends 1-2 and 2-3.
		Expect(gaps[1]).To(BeNumerically("~", time.Second, 500*time.Millisecond))
		Expect(gaps[2]).To(BeNumerically("~", 2*time.Second, 500*time.Millisecond))
	})

	It("sends a zero-TTL goodbye when a service is unregistered", func() {
		svc := service.Service{Name: "Test", Type: "_http._tcp", Port: 8080}
		Expect(adv.Register(ctx, svc)).To(Succeed())

		var m wire.Message
		Eventually(mt.sent, 5*time.Second).Should(Receive(&m))

		Expect(adv.Unregister(ctx, svc)).To(Succeed())

		Eventually(mt.sent, time.Second).Should(Receive(&m))
		for _, rr := range m.Answers {
			Expect(rr.TTL).To(Equal(uint32(0)))
		}
	})

	It("announces a service whose instance name contains a dot", func() {
		svc := service.Service{Name: "My.Printer", Type: "_http._tcp", Port: 8080}
		Expect(adv.Register(ctx, svc)).To(Succeed())

		var m wire.Message
		Eventually(mt.sent, 5*time.Second).Should(Receive(&m))
		Expect(m.Answers).To(HaveLen(1))
	})

	It("rejects Register with an error instead of panicking on a service with no type", func() {
		svc := service.Service{Name: "Test", Port: 8080}

		Expect(func() {
			err := adv.Register(ctx, svc)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, advertiser.ErrInvalidName)).To(BeTrue())
		}).NotTo(Panic())
	})

	It("rejects Update with ErrPortRequired when the replacement service has no port", func() {
		svc := service.Service{Name: "Test", Type: "_http._tcp", Port: 8080}
		Expect(adv.Register(ctx, svc)).To(Succeed())

		var m wire.Message
		Eventually(mt.sent, 5*time.Second).Should(Receive(&m))

		svc.Port = 0
		err := adv.Update(ctx, svc)
		Expect(errors.Is(err, advertiser.ErrPortRequired)).To(BeTrue())
	})
})

package local

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reverielabs/reverie/pkg/memstore"
)

var _ = Describe("Local Memory Driver", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("NewDriver", func() {
		It("returns a non-nil driver", func() {
			d := NewDriver(Config{Enabled: true})
			Expect(d).NotTo(BeNil())
			Expect(d.memories).NotTo(BeNil())
		})
	})

	Describe("Store", func() {
		It("keeps user messages as memories", func() {
			d := NewDriver(Config{Enabled: true})

			err := d.Store(ctx, "user-1", []memstore.Message{
				{Role: "user", Content: "I grew up by the ocean"},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(d.memories).To(HaveKey("user-1"))
			Expect(d.memories["user-1"]).To(HaveLen(1))
			Expect(d.memories["user-1"][0].Content).To(Equal("I grew up by the ocean"))
			Expect(d.memories["user-1"][0].ID).NotTo(BeEmpty())
		})

		It("skips assistant and system messages", func() {
			d := NewDriver(Config{Enabled: true})

			err := d.Store(ctx, "user-1", []memstore.Message{
				{Role: "assistant", Content: "That sounds lovely"},
				{Role: "system", Content: "You are a helpful assistant"},
				{Role: "user", Content: "My dog is called Biscuit"},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(d.memories["user-1"]).To(HaveLen(1))
			Expect(d.memories["user-1"][0].Content).To(Equal("My dog is called Biscuit"))
		})

		It("handles an empty message slice", func() {
			d := NewDriver(Config{Enabled: true})
			err := d.Store(ctx, "user-1", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.memories).To(BeEmpty())
		})

		It("is a no-op when disabled", func() {
			d := NewDriver(Config{Enabled: false})

			err := d.Store(ctx, "user-1", []memstore.Message{
				{Role: "user", Content: "some text"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.memories).To(BeEmpty())
		})

		It("keeps users separate", func() {
			d := NewDriver(Config{Enabled: true})

			Expect(d.Store(ctx, "user-1", []memstore.Message{{Role: "user", Content: "first"}})).To(Succeed())
			Expect(d.Store(ctx, "user-2", []memstore.Message{{Role: "user", Content: "second"}})).To(Succeed())

			Expect(d.memories["user-1"]).To(HaveLen(1))
			Expect(d.memories["user-2"]).To(HaveLen(1))
		})
	})

	Describe("Search", func() {
		It("matches case-insensitive substrings", func() {
			d := NewDriver(Config{Enabled: true})

			Expect(d.Store(ctx, "user-1", []memstore.Message{
				{Role: "user", Content: "We sailed around the Bay of Naples"},
				{Role: "user", Content: "I prefer hiking in the mountains"},
			})).To(Succeed())

			results, err := d.Search(ctx, "user-1", "naples")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Content).To(ContainSubstring("Naples"))
		})

		It("returns nil for an unknown user", func() {
			d := NewDriver(Config{Enabled: true})

			results, err := d.Search(ctx, "nobody", "anything")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeNil())
		})

		It("returns nil when disabled", func() {
			d := NewDriver(Config{Enabled: false})

			results, err := d.Search(ctx, "user-1", "anything")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeNil())
		})
	})

	Describe("All", func() {
		It("returns every stored memory for the user", func() {
			d := NewDriver(Config{Enabled: true})

			Expect(d.Store(ctx, "user-1", []memstore.Message{
				{Role: "user", Content: "first"},
				{Role: "user", Content: "second"},
			})).To(Succeed())

			all, err := d.All(ctx, "user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})

		It("returns a copy so callers cannot mutate internal state", func() {
			d := NewDriver(Config{Enabled: true})

			Expect(d.Store(ctx, "user-1", []memstore.Message{
				{Role: "user", Content: "original memory"},
			})).To(Succeed())

			all, err := d.All(ctx, "user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))

			// Mutate the returned slice
			all[0].Content = "mutated"

			// Internal state should be unchanged
			internal, err := d.All(ctx, "user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(internal[0].Content).To(Equal("original memory"))
		})
	})

	Describe("interface compliance", func() {
		It("satisfies memstore.Driver", func() {
			var _ memstore.Driver = NewDriver(Config{})
		})
	})

	Describe("Close", func() {
		It("is a no-op and returns nil", func() {
			d := NewDriver(Config{})
			Expect(d.Close()).To(Succeed())
		})
	})
})

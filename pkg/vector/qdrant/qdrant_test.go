package qdrant_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reverielabs/reverie/pkg/logger"
	"github.com/reverielabs/reverie/pkg/vector"
	"github.com/reverielabs/reverie/pkg/vector/qdrant"
)

var _ = Describe("Driver", func() {
	Describe("NewDriver", func() {
		It("requires a host", func() {
			_, err := qdrant.NewDriver(qdrant.Config{Dimensions: 384}, logger.Nop())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("host is required"))
		})

		It("requires nonzero dimensions", func() {
			_, err := qdrant.NewDriver(qdrant.Config{Host: "localhost"}, logger.Nop())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("dimensions"))
		})
	})

	Describe("Interface compliance", func() {
		It("implements vector.Driver", func() {
			var _ vector.Driver = (*qdrant.Driver)(nil)
		})
	})
})

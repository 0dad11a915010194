package servecmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	servecmder "github.com/reverielabs/reverie/cmd/reverie/serve"
)

var _ = Describe("NewServeCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.Use).To(Equal("serve"))
	})

	It("registers the backend selection flags", func() {
		cmd := servecmder.NewServeCmd()

		for _, name := range []string{
			"listen",
			"sqlite",
			"vector-store-provider",
			"vector-store-target",
			"vector-store-collection",
			"embedding-provider",
			"embedding-target",
			"embedding-model",
			"embedding-dimensions",
			"memory-provider",
			"chat-model",
			"speech-voice",
			"video-index",
		} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), "missing flag %s", name)
		}
	})

	It("defaults listen to the configured API address", func() {
		cmd := servecmder.NewServeCmd()
		flag := cmd.Flags().Lookup("listen")
		Expect(flag.DefValue).To(Equal(":8080"))
	})

	It("defaults the vector store to chroma", func() {
		cmd := servecmder.NewServeCmd()
		flag := cmd.Flags().Lookup("vector-store-provider")
		Expect(flag.DefValue).To(Equal("chroma"))
	})
})

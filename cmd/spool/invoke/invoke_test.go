package invokecmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	invokecmder "github.com/spoolhq/spool/cmd/spool/invoke"
)

var _ = Describe("NewInvokeCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := invokecmder.NewInvokeCmd()
		Expect(cmd.Use).To(Equal("invoke [prompt]"))
	})

	It("has the endpoint flag with the stub runtime default", func() {
		cmd := invokecmder.NewInvokeCmd()
		flag := cmd.Flags().Lookup("endpoint")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("e"))
		Expect(flag.DefValue).To(Equal("http://localhost:8085"))
	})

	It("has the runtime-arn flag", func() {
		cmd := invokecmder.NewInvokeCmd()
		flag := cmd.Flags().Lookup("runtime-arn")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("r"))
	})

	It("has the timeout flag with a five minute default", func() {
		cmd := invokecmder.NewInvokeCmd()
		flag := cmd.Flags().Lookup("timeout")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("300"))
	})

	It("has session control flags", func() {
		cmd := invokecmder.NewInvokeCmd()
		Expect(cmd.Flags().Lookup("session")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("resume")).NotTo(BeNil())
	})

	It("has output control flags", func() {
		cmd := invokecmder.NewInvokeCmd()
		Expect(cmd.Flags().Lookup("render")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("no-save")).NotTo(BeNil())
	})

	It("rejects more than one positional argument", func() {
		cmd := invokecmder.NewInvokeCmd()
		cmd.SetArgs([]string{"one", "two"})
		Expect(cmd.Execute()).NotTo(Succeed())
	})
})

package spoolcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	spoolcmder "github.com/spoolhq/spool/cmd/spool"
)

var _ = Describe("NewSpoolCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := spoolcmder.NewSpoolCmd()
		Expect(cmd.Use).To(Equal("spool"))
	})

	It("registers all subcommands", func() {
		cmd := spoolcmder.NewSpoolCmd()
		subcommands := make([]string, 0)
		for _, sub := range cmd.Commands() {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("invoke", "serve", "tools", "history", "config", "version"))
	})

	It("has the persistent debug flag", func() {
		cmd := spoolcmder.NewSpoolCmd()
		flag := cmd.PersistentFlags().Lookup("debug")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("d"))
	})

	It("has the persistent config-dir flag", func() {
		cmd := spoolcmder.NewSpoolCmd()
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})
})

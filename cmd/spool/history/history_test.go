package historycmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	historycmder "github.com/spoolhq/spool/cmd/spool/history"
)

var _ = Describe("NewHistoryCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := historycmder.NewHistoryCmd()
		Expect(cmd.Use).To(Equal("history"))
	})

	It("has list and show subcommands", func() {
		cmd := historycmder.NewHistoryCmd()
		subcommands := make([]string, 0)
		for _, sub := range cmd.Commands() {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("list", "show"))
	})

	It("has a limit flag on list with a default of 20", func() {
		cmd := historycmder.NewHistoryCmd()
		for _, sub := range cmd.Commands() {
			if sub.Name() != "list" {
				continue
			}
			flag := sub.Flags().Lookup("limit")
			Expect(flag).NotTo(BeNil())
			Expect(flag.Shorthand).To(Equal("n"))
			Expect(flag.DefValue).To(Equal("20"))
			return
		}
		Fail("list subcommand not found")
	})

	It("requires an invocation ID for show", func() {
		cmd := historycmder.NewHistoryCmd()
		cmd.SetArgs([]string{"show"})
		Expect(cmd.Execute()).NotTo(Succeed())
	})
})

package agentstream

import (
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Classify", func() {
	Describe("tool use", func() {
		It("formats a tool_use announcement with indented arguments", func() {
			ev := ClassifyFrame(`{"tool_use":{"name":"geocode","input":{"city":"Oslo"}}}`)
			Expect(ev.Kind).To(Equal(KindToolUse))
			Expect(ev.Fragment).To(BeEmpty())
			Expect(ev.Display).To(Equal("\n[tool] geocode\n{\n  \"city\": \"Oslo\"\n}\n[status] running...\n"))
		})

		It("accepts the tool_call alias and the arguments key", func() {
			ev := ClassifyFrame(`{"tool_call":{"name":"run_sql","arguments":{"query":"select 1"}}}`)
			Expect(ev.Kind).To(Equal(KindToolUse))
			Expect(ev.Display).To(ContainSubstring("[tool] run_sql"))
			Expect(ev.Display).To(ContainSubstring(`"query": "select 1"`))
		})

		It("falls back to unknown_tool and omits empty arguments", func() {
			ev := ClassifyFrame(`{"tool_use":{}}`)
			Expect(ev.Display).To(Equal("\n[tool] unknown_tool\n[status] running...\n"))
		})
	})

	Describe("tool result", func() {
		It("shows the result content and continues", func() {
			ev := ClassifyFrame(`{"tool_result":{"content":"42 rows"}}`)
			Expect(ev.Kind).To(Equal(KindToolResult))
			Expect(ev.Fragment).To(BeEmpty())
			Expect(ev.Display).To(Equal("\n[tool] completed\n[result] 42 rows\n[status] agent continuing...\n\n"))
		})

		It("caps long result content at 200 runes", func() {
			long := strings.Repeat("é", 300)
			ev := Classify(map[string]any{"tool_result": map[string]any{"content": long}})
			Expect(ev.Display).To(ContainSubstring("[result] " + strings.Repeat("é", 200) + "...\n"))
		})

		It("prints structured result content whole, without the string cap", func() {
			rows := make([]any, 0, 80)
			for i := 0; i < 80; i++ {
				rows = append(rows, map[string]any{"region": "eu-west", "total": float64(i)})
			}
			ev := Classify(map[string]any{"tool_result": map[string]any{"content": rows}})
			Expect(ev.Kind).To(Equal(KindToolResult))

			raw, err := json.Marshal(rows)
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Display).To(ContainSubstring("[result] " + string(raw) + "\n"))
		})

		It("omits the result line when the result has no content key", func() {
			ev := ClassifyFrame(`{"tool_result":{"status":"ok"}}`)
			Expect(ev.Display).To(Equal("\n[tool] completed\n[status] agent continuing...\n\n"))
		})

		It("never contributes to the transcript", func() {
			ev := ClassifyFrame(`{"tool_result":{"content":"secret tool payload"}}`)
			Expect(ev.Fragment).To(BeEmpty())
		})
	})

	Describe("thinking", func() {
		It("formats thinking output", func() {
			ev := ClassifyFrame(`{"thinking":"considering options"}`)
			Expect(ev.Kind).To(Equal(KindThinking))
			Expect(ev.Display).To(Equal("\n[thinking] considering options\n"))
		})

		It("accepts the reasoning alias", func() {
			ev := ClassifyFrame(`{"reasoning":"step by step"}`)
			Expect(ev.Kind).To(Equal(KindThinking))
			Expect(ev.Display).To(ContainSubstring("step by step"))
		})
	})

	Describe("step", func() {
		It("formats number and description", func() {
			ev := ClassifyFrame(`{"step":{"number":3,"description":"querying warehouse"}}`)
			Expect(ev.Kind).To(Equal(KindStep))
			Expect(ev.Display).To(Equal("\n[step 3] querying warehouse\n"))
		})

		It("falls back to the action key and a ? number", func() {
			ev := ClassifyFrame(`{"step":{"action":"retrying"}}`)
			Expect(ev.Display).To(Equal("\n[step ?] retrying\n"))
		})
	})

	Describe("status", func() {
		It("formats status updates", func() {
			ev := ClassifyFrame(`{"status":"initializing"}`)
			Expect(ev.Kind).To(Equal(KindStatus))
			Expect(ev.Display).To(Equal("\n[status] initializing\n"))
		})
	})

	Describe("content", func() {
		It("passes string content through as a fragment", func() {
			ev := ClassifyFrame(`{"content":"The answer is 4."}`)
			Expect(ev.Kind).To(Equal(KindContent))
			Expect(ev.Fragment).To(Equal("The answer is 4."))
			Expect(ev.Display).To(BeEmpty())
		})

		It("concatenates block lists of text objects and bare strings", func() {
			ev := ClassifyFrame(`{"content":[{"text":"Hello, "},"world"]}`)
			Expect(ev.Fragment).To(Equal("Hello, world"))
		})

		It("skips list items without usable text", func() {
			ev := ClassifyFrame(`{"content":[{"type":"image"},{"text":"caption"}]}`)
			Expect(ev.Fragment).To(Equal("caption"))
		})

		It("stringifies non-string non-list content", func() {
			ev := ClassifyFrame(`{"content":{"nested":true}}`)
			Expect(ev.Fragment).To(Equal(`{"nested":true}`))
		})
	})

	Describe("delta", func() {
		It("extracts content from a delta object", func() {
			ev := ClassifyFrame(`{"delta":{"content":"X"}}`)
			Expect(ev.Kind).To(Equal(KindDelta))
			Expect(ev.Fragment).To(Equal("X"))
		})

		It("accepts a bare string delta", func() {
			ev := ClassifyFrame(`{"delta":"more text"}`)
			Expect(ev.Fragment).To(Equal("more text"))
		})

		It("lets an unusable delta fall through to the text rule", func() {
			ev := ClassifyFrame(`{"delta":{"type":"noop"},"text":"fallback"}`)
			Expect(ev.Kind).To(Equal(KindText))
			Expect(ev.Fragment).To(Equal("fallback"))
		})
	})

	Describe("text", func() {
		It("passes the text field through as a fragment", func() {
			ev := ClassifyFrame(`{"text":"direct"}`)
			Expect(ev.Kind).To(Equal(KindText))
			Expect(ev.Fragment).To(Equal("direct"))
		})
	})

	Describe("event markers", func() {
		It("formats lifecycle markers", func() {
			ev := ClassifyFrame(`{"event":"message_stop"}`)
			Expect(ev.Kind).To(Equal(KindEventMarker))
			Expect(ev.Display).To(Equal("\n[event] message_stop\n"))
		})
	})

	Describe("precedence", func() {
		It("prefers tool_use over everything else", func() {
			ev := ClassifyFrame(`{"tool_use":{"name":"t"},"status":"running","content":"x"}`)
			Expect(ev.Kind).To(Equal(KindToolUse))
		})

		It("prefers status over content", func() {
			ev := ClassifyFrame(`{"status":"working","content":"partial"}`)
			Expect(ev.Kind).To(Equal(KindStatus))
			Expect(ev.Fragment).To(BeEmpty())
		})

		It("prefers content over delta and text", func() {
			ev := ClassifyFrame(`{"content":"a","delta":{"content":"b"},"text":"c"}`)
			Expect(ev.Fragment).To(Equal("a"))
		})
	})

	Describe("plain strings and unrecognized shapes", func() {
		It("passes a JSON string payload through", func() {
			ev := ClassifyFrame(`"just a string"`)
			Expect(ev.Kind).To(Equal(KindPlainString))
			Expect(ev.Fragment).To(Equal("just a string"))
		})

		It("treats unparseable payloads as literal text", func() {
			ev := ClassifyFrame("not json at all")
			Expect(ev.Kind).To(Equal(KindPlainString))
			Expect(ev.Fragment).To(Equal("not json at all"))
		})

		It("drops objects matching no rule", func() {
			ev := ClassifyFrame(`{"usage":{"input_tokens":12}}`)
			Expect(ev.Kind).To(Equal(KindUnrecognized))
			Expect(ev.Display).To(BeEmpty())
			Expect(ev.Fragment).To(BeEmpty())
		})

		It("drops non-object non-string JSON values", func() {
			Expect(ClassifyFrame(`[1,2,3]`).Kind).To(Equal(KindUnrecognized))
			Expect(ClassifyFrame(`42`).Kind).To(Equal(KindUnrecognized))
			Expect(ClassifyFrame(`null`).Kind).To(Equal(KindUnrecognized))
		})
	})
})

package agentstream

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spoolhq/spool/pkg/utils"
)

// resultDisplayLimit caps tool result content shown on the terminal.
// Measured in runes; longer content is cut and suffixed with "...".
const resultDisplayLimit = 200

// rule matches one recognized payload shape. Rules are evaluated in order
// and the first match wins, so more specific shapes (tool activity) shadow
// generic ones (a status event carrying both "status" and "content" keys is
// a status event).
type rule struct {
	name   string
	match  func(m map[string]any) bool
	handle func(m map[string]any) Event
}

var rules = []rule{
	{
		name: "tool_use",
		match: func(m map[string]any) bool {
			return hasKey(m, "tool_use") || hasKey(m, "tool_call")
		},
		handle: classifyToolUse,
	},
	{
		name:   "tool_result",
		match:  func(m map[string]any) bool { return hasKey(m, "tool_result") },
		handle: classifyToolResult,
	},
	{
		name: "thinking",
		match: func(m map[string]any) bool {
			return hasKey(m, "thinking") || hasKey(m, "reasoning")
		},
		handle: classifyThinking,
	},
	{
		name:   "step",
		match:  func(m map[string]any) bool { return hasKey(m, "step") },
		handle: classifyStep,
	},
	{
		name:   "status",
		match:  func(m map[string]any) bool { return hasKey(m, "status") },
		handle: classifyStatus,
	},
	{
		name:   "content",
		match:  func(m map[string]any) bool { return hasKey(m, "content") },
		handle: classifyContent,
	},
	{
		name:   "delta",
		match:  matchDelta,
		handle: classifyDelta,
	},
	{
		name:   "text",
		match:  func(m map[string]any) bool { return hasKey(m, "text") },
		handle: classifyText,
	},
	{
		name:   "event",
		match:  func(m map[string]any) bool { return hasKey(m, "event") },
		handle: classifyEventMarker,
	},
}

// Classify maps a decoded JSON value to an Event. Objects are matched
// against the ordered shape rules; bare strings pass through as plain
// string fragments; everything else is unrecognized and dropped.
func Classify(value any) Event {
	switch v := value.(type) {
	case map[string]any:
		for _, r := range rules {
			if r.match(v) {
				return r.handle(v)
			}
		}
		return Event{Kind: KindUnrecognized}
	case string:
		return Event{Kind: KindPlainString, Fragment: v}
	default:
		return Event{Kind: KindUnrecognized}
	}
}

// ClassifyFrame classifies a single frame payload. Payloads that parse as
// JSON are classified by shape; anything else is treated as literal text.
func ClassifyFrame(payload string) Event {
	var value any
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return Event{Kind: KindPlainString, Fragment: payload}
	}
	return Classify(value)
}

func classifyToolUse(m map[string]any) Event {
	info, _ := firstMap(m, "tool_use", "tool_call")

	name := "unknown_tool"
	if n, ok := info["name"].(string); ok && n != "" {
		name = n
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n[tool] %s\n", name)

	args, _ := firstValue(info, "input", "arguments")
	if argText := indentArgs(args); argText != "" {
		b.WriteString(argText)
		b.WriteString("\n")
	}

	b.WriteString("[status] running...\n")

	return Event{Kind: KindToolUse, Display: b.String()}
}

func classifyToolResult(m map[string]any) Event {
	var b strings.Builder
	b.WriteString("\n[tool] completed\n")

	if result, ok := m["tool_result"].(map[string]any); ok {
		if content, ok := result["content"]; ok {
			// The display cap applies to string content only; structured
			// results print whole.
			if text, isString := content.(string); isString {
				fmt.Fprintf(&b, "[result] %s\n", utils.Truncate(text, resultDisplayLimit))
			} else {
				fmt.Fprintf(&b, "[result] %s\n", stringify(content))
			}
		}
	}

	b.WriteString("[status] agent continuing...\n\n")

	return Event{Kind: KindToolResult, Display: b.String()}
}

func classifyThinking(m map[string]any) Event {
	v, _ := firstValue(m, "thinking", "reasoning")
	thinking, ok := v.(string)
	if !ok {
		thinking = stringify(v)
	}

	return Event{
		Kind:    KindThinking,
		Display: fmt.Sprintf("\n[thinking] %s\n", thinking),
	}
}

func classifyStep(m map[string]any) Event {
	num := "?"
	desc := ""

	if info, ok := m["step"].(map[string]any); ok {
		if n, ok := info["number"]; ok {
			num = formatStepNumber(n)
		}
		if d, ok := firstValue(info, "description", "action"); ok {
			if s, ok := d.(string); ok {
				desc = s
			} else {
				desc = stringify(d)
			}
		}
	}

	return Event{
		Kind:    KindStep,
		Display: fmt.Sprintf("\n[step %s] %s\n", num, desc),
	}
}

func classifyStatus(m map[string]any) Event {
	status, ok := m["status"].(string)
	if !ok {
		status = stringify(m["status"])
	}

	return Event{
		Kind:    KindStatus,
		Display: fmt.Sprintf("\n[status] %s\n", status),
	}
}

func classifyContent(m map[string]any) Event {
	switch content := m["content"].(type) {
	case []any:
		var b strings.Builder
		for _, item := range content {
			switch it := item.(type) {
			case map[string]any:
				if text, ok := it["text"].(string); ok {
					b.WriteString(text)
				}
			case string:
				b.WriteString(it)
			}
		}
		return Event{Kind: KindContent, Fragment: b.String()}
	case string:
		return Event{Kind: KindContent, Fragment: content}
	default:
		return Event{Kind: KindContent, Fragment: stringify(content)}
	}
}

// matchDelta matches only deltas it can extract text from. A delta of any
// other shape falls through to the later text and event rules.
func matchDelta(m map[string]any) bool {
	delta, ok := m["delta"]
	if !ok {
		return false
	}

	switch d := delta.(type) {
	case string:
		return true
	case map[string]any:
		_, ok := d["content"].(string)
		return ok
	default:
		return false
	}
}

func classifyDelta(m map[string]any) Event {
	switch d := m["delta"].(type) {
	case string:
		return Event{Kind: KindDelta, Fragment: d}
	case map[string]any:
		content, _ := d["content"].(string)
		return Event{Kind: KindDelta, Fragment: content}
	default:
		return Event{Kind: KindUnrecognized}
	}
}

func classifyText(m map[string]any) Event {
	text, ok := m["text"].(string)
	if !ok {
		text = stringify(m["text"])
	}

	return Event{Kind: KindText, Fragment: text}
}

func classifyEventMarker(m map[string]any) Event {
	marker, ok := m["event"].(string)
	if !ok {
		marker = stringify(m["event"])
	}

	return Event{
		Kind:    KindEventMarker,
		Display: fmt.Sprintf("\n[event] %s\n", marker),
	}
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

// firstMap returns the first key present in m whose value is an object.
func firstMap(m map[string]any, keys ...string) (map[string]any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if obj, ok := v.(map[string]any); ok {
				return obj, true
			}
			return map[string]any{}, true
		}
	}
	return map[string]any{}, false
}

// firstValue returns the value of the first key present in m.
func firstValue(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// indentArgs pretty-prints tool arguments for display. Empty or missing
// arguments produce no output.
func indentArgs(args any) string {
	switch a := args.(type) {
	case nil:
		return ""
	case map[string]any:
		if len(a) == 0 {
			return ""
		}
	case []any:
		if len(a) == 0 {
			return ""
		}
	case string:
		if a == "" {
			return ""
		}
	}

	out, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", args)
	}

	return string(out)
}

// formatStepNumber renders a step number the way it arrived: JSON numbers
// decode as float64, so integral values print without a decimal point.
func formatStepNumber(n any) string {
	switch v := n.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return stringify(v)
	}
}

// stringify renders a non-string value for display. JSON round-tripping
// keeps objects and lists readable; scalars fall back to their Go form.
func stringify(v any) string {
	if v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}

	return string(out)
}

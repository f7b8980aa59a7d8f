package react

import (
	"encoding/json"
	"strings"
	"unicode"
)

const (
	thoughtLabel = "THOUGHT:"
	actionLabel  = "ACTION:"
	answerLabel  = "ANSWER:"
)

// Action is a parsed tool invocation.
type Action struct {
	Tool   string
	Params map[string]interface{}
}

// Step is the structured reading of one model completion. Thought is
// orthogonal; at most one of Action and Answer is set. HasAnswer
// distinguishes an explicit empty answer from no answer at all.
type Step struct {
	Thought   string
	Action    *Action
	Answer    string
	HasAnswer bool
}

// Parse extracts THOUGHT/ACTION/ANSWER sections from a completion. It never
// fails: unrecognized input yields an empty Step and the loop treats the raw
// text as the answer. When both an ANSWER and an ACTION label appear, the
// answer wins and no action is produced.
func Parse(response string) Step {
	var step Step

	if idx := strings.Index(response, thoughtLabel); idx >= 0 {
		rest := response[idx+len(thoughtLabel):]
		end := len(rest)
		if i := strings.Index(rest, "\n"+actionLabel); i >= 0 && i < end {
			end = i
		}
		if i := strings.Index(rest, "\n"+answerLabel); i >= 0 && i < end {
			end = i
		}
		step.Thought = strings.TrimSpace(rest[:end])
	}

	if idx := strings.Index(response, answerLabel); idx >= 0 {
		step.Answer = strings.TrimSpace(response[idx+len(answerLabel):])
		step.HasAnswer = true
		return step
	}

	if idx := strings.Index(response, actionLabel); idx >= 0 {
		step.Action = parseAction(response[idx+len(actionLabel):])
	}
	return step
}

// parseAction reads `tool_name(<json-object>)` with trailing whitespace
// tolerated. A missing closing parenthesis is tolerated; malformed JSON
// degrades to an empty parameter map so the tool call still happens.
func parseAction(rest string) *Action {
	rest = strings.TrimSpace(rest)

	open := strings.Index(rest, "(")
	if open < 0 {
		return nil
	}
	name := strings.TrimSpace(rest[:open])
	if !isIdentifier(name) {
		return nil
	}

	raw := rest[open+1:]
	if end := strings.LastIndex(raw, ")"); end >= 0 {
		raw = raw[:end]
	}

	params := make(map[string]interface{})
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &params); err != nil {
		params = make(map[string]interface{})
	}
	return &Action{Tool: name, Params: params}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

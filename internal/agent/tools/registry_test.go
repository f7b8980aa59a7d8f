package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type fakeTool struct {
	name      string
	result    string
	err       error
	gotParams map[string]interface{}
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "fake tool for tests" }
func (f *fakeTool) Parameters() []Param { return []Param{{"x", "test parameter"}} }

func (f *fakeTool) Execute(_ context.Context, params map[string]interface{}) (string, error) {
	f.gotParams = params
	return f.result, f.err
}

func TestDispatchUnknownToolListsValidNames(t *testing.T) {
	r := NewRegistry(nil, &fakeTool{name: "alpha"}, &fakeTool{name: "beta"})

	obs := r.Dispatch(context.Background(), "gamma", nil)

	var payload map[string]string
	if err := json.Unmarshal([]byte(obs), &payload); err != nil {
		t.Fatalf("observation is not JSON: %v", err)
	}
	if !strings.Contains(payload["error"], "Unknown tool: gamma") {
		t.Fatalf("missing unknown-tool message: %q", payload["error"])
	}
	if !strings.Contains(payload["error"], "alpha, beta") {
		t.Fatalf("expected valid tool list in error: %q", payload["error"])
	}
}

func TestDispatchConvertsErrors(t *testing.T) {
	r := NewRegistry(nil, &fakeTool{name: "broken", err: errors.New("boom")})

	obs := r.Dispatch(context.Background(), "broken", nil)

	var payload map[string]string
	if err := json.Unmarshal([]byte(obs), &payload); err != nil {
		t.Fatalf("observation is not JSON: %v", err)
	}
	if !strings.Contains(payload["error"], "Tool broken failed") {
		t.Fatalf("unexpected error payload: %q", payload["error"])
	}
}

func TestDispatchPassesParams(t *testing.T) {
	ft := &fakeTool{name: "echo", result: `{"ok":true}`}
	r := NewRegistry(nil, ft)

	obs := r.Dispatch(context.Background(), "echo", map[string]interface{}{"x": "y"})
	if obs != `{"ok":true}` {
		t.Fatalf("unexpected observation: %q", obs)
	}
	if ft.gotParams["x"] != "y" {
		t.Fatalf("params not forwarded: %v", ft.gotParams)
	}
}

func TestPromptTextStableOrder(t *testing.T) {
	r := NewRegistry(nil, &fakeTool{name: "zeta"}, &fakeTool{name: "alpha"})

	text := r.PromptText()
	zi := strings.Index(text, "### zeta")
	ai := strings.Index(text, "### alpha")
	if zi < 0 || ai < 0 {
		t.Fatalf("missing tool sections:\n%s", text)
	}
	if zi > ai {
		t.Fatal("expected registration order, not sorted order")
	}
	if !strings.Contains(text, "  - x: test parameter") {
		t.Fatalf("missing parameter line:\n%s", text)
	}
}

func TestParamHelpers(t *testing.T) {
	params := map[string]interface{}{
		"s":     "text",
		"f":     3.5,
		"fs":    "4.5",
		"codes": []interface{}{"JP", "TH", 7},
	}

	if got := strParam(params, "s"); got != "text" {
		t.Fatalf("strParam: %q", got)
	}
	if got := strParam(params, "missing"); got != "" {
		t.Fatalf("strParam missing: %q", got)
	}
	if got := floatParam(params, "f", 0); got != 3.5 {
		t.Fatalf("floatParam: %v", got)
	}
	if got := floatParam(params, "fs", 0); got != 4.5 {
		t.Fatalf("floatParam string: %v", got)
	}
	if got := floatParam(params, "missing", 7); got != 7 {
		t.Fatalf("floatParam default: %v", got)
	}
	if got := intParam(params, "f", 0); got != 3 {
		t.Fatalf("intParam: %v", got)
	}
	if got := strSliceParam(params, "codes"); len(got) != 2 || got[0] != "JP" {
		t.Fatalf("strSliceParam: %v", got)
	}
}

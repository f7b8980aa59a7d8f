package react

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/atlasiq/atlasiq/config"
	"github.com/atlasiq/atlasiq/internal/agent/tools"
	"github.com/atlasiq/atlasiq/internal/llm"
	"github.com/atlasiq/atlasiq/models"
)

// scriptedProvider replays a fixed sequence of completions and records the
// message history it was handed on each call.
type scriptedProvider struct {
	responses []string
	calls     [][]llm.Message
	err       error
}

func (p *scriptedProvider) Complete(_ context.Context, messages []llm.Message, _ llm.Options) (string, error) {
	snapshot := make([]llm.Message, len(messages))
	copy(snapshot, messages)
	p.calls = append(p.calls, snapshot)
	if p.err != nil {
		return "", p.err
	}
	i := len(p.calls) - 1
	if i >= len(p.responses) {
		return p.responses[len(p.responses)-1], nil
	}
	return p.responses[i], nil
}

type fakePlaces struct {
	results []models.Place
	err     error
	calls   int
	queries []string
}

func (f *fakePlaces) Search(_ context.Context, query string, _, _ float64, _, _ int) ([]models.Place, error) {
	f.calls++
	f.queries = append(f.queries, query)
	return f.results, f.err
}

type stubTool struct {
	name   string
	result string
}

func (s stubTool) Name() string              { return s.name }
func (s stubTool) Description() string       { return "stub" }
func (s stubTool) Parameters() []tools.Param { return nil }
func (s stubTool) Execute(context.Context, map[string]interface{}) (string, error) {
	return s.result, nil
}

func newTestAgent(provider llm.Provider, searcher *fakePlaces, extra ...tools.Tool) *Agent {
	toolSet := append([]tools.Tool{tools.SearchNearbyPlaces{Places: searcher}}, extra...)
	registry := tools.NewRegistry(nil, toolSet...)
	return New(config.AgentConfig{MaxIterations: 5, MaxTokens: 256}, provider, registry, searcher, nil, nil)
}

func userMessages(content string) []llm.Message {
	return []llm.Message{{Role: llm.RoleUser, Content: content}}
}

func TestRunDirectAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"THOUGHT: easy\nANSWER: Hello there!"}}
	agent := newTestAgent(provider, &fakePlaces{})

	res, err := agent.Run(context.Background(), Request{Messages: userMessages("hello, how are you?")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Reply != "Hello there!" {
		t.Fatalf("reply: %q", res.Reply)
	}
	if res.Iterations != 1 {
		t.Fatalf("iterations: %d", res.Iterations)
	}
	if len(res.Thoughts) != 1 || res.Thoughts[0] != "easy" {
		t.Fatalf("thoughts: %v", res.Thoughts)
	}
	if res.Places != nil {
		t.Fatalf("unexpected places: %v", res.Places)
	}
}

func TestRunStripsCallerSystemMessages(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"ANSWER: ok"}}
	agent := newTestAgent(provider, &fakePlaces{})

	history := []llm.Message{
		{Role: llm.RoleSystem, Content: "caller-injected prompt"},
		{Role: llm.RoleUser, Content: "hi"},
	}
	if _, err := agent.Run(context.Background(), Request{Messages: history}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	sent := provider.calls[0]
	if sent[0].Role != llm.RoleSystem || strings.Contains(sent[0].Content, "caller-injected") {
		t.Fatal("first message must be the agent's own system prompt")
	}
	for _, m := range sent[1:] {
		if m.Role == llm.RoleSystem {
			t.Fatal("caller system message leaked into working history")
		}
	}
}

func TestRunPrecallInjectsObservation(t *testing.T) {
	searcher := &fakePlaces{results: []models.Place{
		{Name: "Sushi Dai", Rating: 4.7, ReviewCount: 3100, Address: "Toyosu Market, Tokyo", Lat: 35.64, Lng: 139.78},
	}}
	provider := &scriptedProvider{responses: []string{"THOUGHT: data is in\nANSWER: Try Sushi Dai."}}
	agent := newTestAgent(provider, searcher)

	res, err := agent.Run(context.Background(), Request{Messages: userMessages("best sushi places in Tokyo")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if searcher.calls != 1 {
		t.Fatalf("expected exactly one places fetch, got %d", searcher.calls)
	}
	if len(res.Places) != 1 || res.Places[0].Name != "Sushi Dai" {
		t.Fatalf("full places missing from result: %v", res.Places)
	}

	// The first completion must already see the synthetic action/observation
	// pair, and only the slim fields.
	sent := provider.calls[0]
	var observation string
	for _, m := range sent {
		if strings.HasPrefix(m.Content, "OBSERVATION: ") {
			observation = m.Content
		}
	}
	if observation == "" {
		t.Fatal("no observation injected before first completion")
	}
	if !strings.Contains(observation, "Sushi Dai") {
		t.Fatalf("observation missing place name: %q", observation)
	}
	if strings.Contains(observation, "139.78") {
		t.Fatalf("coordinates leaked into model context: %q", observation)
	}
}

func TestRunPrecallBuildsLocationQuery(t *testing.T) {
	searcher := &fakePlaces{results: []models.Place{{Name: "Cafe A", Rating: 4.2}}}
	provider := &scriptedProvider{responses: []string{"ANSWER: ok"}}
	agent := newTestAgent(provider, searcher)

	msg := "The user is looking at Paris on the globe. User says: coffee shops near here"
	if _, err := agent.Run(context.Background(), Request{Messages: userMessages(msg)}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "coffee shops in Paris" {
		t.Fatalf("search query: %v", searcher.queries)
	}
}

func TestRunPlacesFetchedOncePerInvocation(t *testing.T) {
	searcher := &fakePlaces{results: []models.Place{{Name: "Ichiran", Rating: 4.3}}}
	provider := &scriptedProvider{responses: []string{
		"THOUGHT: let me double-check\nACTION: search_nearby_places({\"query\": \"ramen in Tokyo\"})",
		"ANSWER: Ichiran it is.",
	}}
	agent := newTestAgent(provider, searcher)

	res, err := agent.Run(context.Background(), Request{Messages: userMessages("best ramen in Tokyo")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Reply != "Ichiran it is." {
		t.Fatalf("reply: %q", res.Reply)
	}
	// Pre-call already captured the result; the in-loop action must be
	// answered from the cache, not a second upstream fetch.
	if searcher.calls != 1 {
		t.Fatalf("expected a single upstream fetch, got %d", searcher.calls)
	}
	if len(res.Places) != 1 {
		t.Fatalf("places: %v", res.Places)
	}
}

func TestRunPrecallFailureIsNonFatal(t *testing.T) {
	searcher := &fakePlaces{err: errors.New("upstream down")}
	provider := &scriptedProvider{responses: []string{"ANSWER: I could not find live data, but Tokyo is famous for sushi."}}
	agent := newTestAgent(provider, searcher)

	res, err := agent.Run(context.Background(), Request{Messages: userMessages("best sushi places in Tokyo")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Places != nil {
		t.Fatalf("places should be absent: %v", res.Places)
	}
	if res.Reply == "" {
		t.Fatal("expected a reply")
	}
}

func TestRunUnknownToolContinuesLoop(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"THOUGHT: try something\nACTION: teleport({\"to\": \"Tokyo\"})",
		"ANSWER: never mind",
	}}
	agent := newTestAgent(provider, &fakePlaces{}, stubTool{name: "get_weather", result: "{}"})

	res, err := agent.Run(context.Background(), Request{Messages: userMessages("hi")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Iterations != 2 {
		t.Fatalf("iterations: %d", res.Iterations)
	}

	// The second completion call must carry the structured error naming the
	// valid tool set.
	second := provider.calls[1]
	last := second[len(second)-1]
	if !strings.Contains(last.Content, "Unknown tool: teleport") {
		t.Fatalf("missing unknown-tool observation: %q", last.Content)
	}
	if !strings.Contains(last.Content, "get_weather") {
		t.Fatalf("valid tool names not listed: %q", last.Content)
	}
}

func TestRunToolObservationFlow(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"THOUGHT: check conditions\nACTION: get_weather({\"location\": \"Tokyo\"})",
		"THOUGHT: got it\nANSWER: 21°C and clear.",
	}}
	agent := newTestAgent(provider, &fakePlaces{}, stubTool{name: "get_weather", result: `{"temp": 21}`})

	res, err := agent.Run(context.Background(), Request{Messages: userMessages("weather in Tokyo?")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Reply != "21°C and clear." {
		t.Fatalf("reply: %q", res.Reply)
	}
	if len(res.Thoughts) != 2 {
		t.Fatalf("thoughts: %v", res.Thoughts)
	}

	second := provider.calls[1]
	// assistant raw response then the observation
	if second[len(second)-2].Role != llm.RoleAssistant {
		t.Fatal("raw model response not appended before observation")
	}
	if second[len(second)-1].Content != `OBSERVATION: {"temp": 21}` {
		t.Fatalf("observation: %q", second[len(second)-1].Content)
	}
}

func TestRunBudgetForcesAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"THOUGHT: loop\nACTION: get_weather({})",
		"THOUGHT: loop\nACTION: get_weather({})",
		"THOUGHT: loop\nACTION: get_weather({})",
		"THOUGHT: loop\nACTION: get_weather({})",
		"THOUGHT: loop\nACTION: get_weather({})",
		"ANSWER: best effort summary",
	}}
	agent := newTestAgent(provider, &fakePlaces{}, stubTool{name: "get_weather", result: "{}"})

	res, err := agent.Run(context.Background(), Request{Messages: userMessages("hi")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Iterations != 5 {
		t.Fatalf("iterations: %d", res.Iterations)
	}
	if res.Reply != "best effort summary" {
		t.Fatalf("reply: %q", res.Reply)
	}
	if len(provider.calls) != 6 {
		t.Fatalf("expected 5 loop calls + 1 forced call, got %d", len(provider.calls))
	}
	forced := provider.calls[5]
	if forced[len(forced)-1].Content != forcedAnswerPrompt {
		t.Fatalf("forced prompt missing: %q", forced[len(forced)-1].Content)
	}
}

func TestRunUnstructuredResponseBecomesAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"  Just chatting, no labels at all.  "}}
	agent := newTestAgent(provider, &fakePlaces{})

	res, err := agent.Run(context.Background(), Request{Messages: userMessages("hi")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Reply != "Just chatting, no labels at all." {
		t.Fatalf("reply: %q", res.Reply)
	}
	if res.Iterations != 1 {
		t.Fatalf("iterations: %d", res.Iterations)
	}
}

func TestRunProviderExhaustionIsFatal(t *testing.T) {
	provider := &scriptedProvider{err: llm.ErrExhausted}
	agent := newTestAgent(provider, &fakePlaces{})

	_, err := agent.Run(context.Background(), Request{Messages: userMessages("hi")})
	if !errors.Is(err, llm.ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

package react

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/atlasiq/atlasiq/config"
	"github.com/atlasiq/atlasiq/internal/agent/tools"
	"github.com/atlasiq/atlasiq/internal/llm"
	"github.com/atlasiq/atlasiq/internal/places"
	"github.com/atlasiq/atlasiq/internal/telemetry"
	"github.com/atlasiq/atlasiq/models"
)

const (
	defaultMaxIterations = 5
	defaultMaxTokens     = 1024
	loopTemperature      = 0.3

	// Radius used when the pre-call has real coordinates to bias around.
	precallRadius = 20000

	forcedAnswerPrompt = "You have reached the maximum number of steps. Please provide your final ANSWER now based on what you know."
)

// Agent runs the bounded Reason-Act-Observe loop. One Agent is shared across
// requests; all per-invocation state lives on the Run call stack.
type Agent struct {
	provider llm.Provider
	registry *tools.Registry
	places   places.Searcher
	metrics  *telemetry.Metrics
	logger   *log.Logger

	maxIterations int
	maxTokens     int
}

// Request is one agent invocation. Messages is the caller's conversation
// history; the last entry is the user's latest message. Lat/Lng are the
// coordinates of the place in view, zero when unknown.
type Request struct {
	Messages   []llm.Message
	RAGContext string
	Lat        float64
	Lng        float64
}

// Result is the terminal artifact of one invocation. Places carries the
// full unslimmed records for the caller's own use (map rendering), distinct
// from the slim view the model saw.
type Result struct {
	ID         string         `json:"id"`
	Reply      string         `json:"reply"`
	Thoughts   []string       `json:"thoughts"`
	Iterations int            `json:"iterations"`
	Places     []models.Place `json:"places,omitempty"`
}

func New(cfg config.AgentConfig, provider llm.Provider, registry *tools.Registry, placesSearcher places.Searcher, metrics *telemetry.Metrics, logger *log.Logger) *Agent {
	if logger == nil {
		logger = log.New(log.Writer(), "[AGENT] ", log.LstdFlags)
	}
	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Agent{
		provider:      provider,
		registry:      registry,
		places:        placesSearcher,
		metrics:       metrics,
		logger:        logger,
		maxIterations: maxIter,
		maxTokens:     maxTokens,
	}
}

// Run executes the loop until the model answers, output degrades to a raw
// answer, or the iteration budget forces termination. The only fatal error
// is completion-gateway exhaustion; every tool-level fault is fed back to
// the model as an observation instead.
func (a *Agent) Run(ctx context.Context, req Request) (*Result, error) {
	id := uuid.NewString()

	// Only one system prompt is authoritative: the agent's own. Caller
	// system messages are dropped.
	working := make([]llm.Message, 0, len(req.Messages)+4)
	working = append(working, llm.Message{
		Role:    llm.RoleSystem,
		Content: systemPrompt(a.registry.PromptText(), req.RAGContext),
	})
	for _, m := range req.Messages {
		if m.Role != llm.RoleSystem {
			working = append(working, m)
		}
	}

	var (
		thoughts       []string
		iterations     int
		placesResult   []models.Place
		placesCaptured bool
	)

	userMsg := ""
	if len(req.Messages) > 0 {
		userMsg = req.Messages[len(req.Messages)-1].Content
	}
	userQuery := ExtractUserQuery(userMsg)

	// Pre-call: place queries get a grounding search before the model is
	// consulted at all, so the first completion already sees real data.
	if NeedsPlacesSearch(userQuery) {
		searchQuery := BuildSearchQuery(userQuery, ExtractLocationContext(userMsg))
		radius := 0
		if req.Lat != 0 || req.Lng != 0 {
			radius = precallRadius
		}
		a.logger.Printf("[%s] pre-call: places query detected %q (search: %q)", id, userQuery, searchQuery)

		found, err := a.places.Search(ctx, searchQuery, req.Lat, req.Lng, radius, 10)
		switch {
		case err != nil:
			a.logger.Printf("[%s] pre-call places search failed: %v", id, err)
		case len(found) == 0:
			a.logger.Printf("[%s] pre-call: 0 results for %q", id, searchQuery)
		default:
			obs, merr := tools.PlacesObservation(found)
			if merr != nil {
				a.logger.Printf("[%s] pre-call observation encoding failed: %v", id, merr)
				break
			}
			placesResult = found
			placesCaptured = true
			working = append(working,
				llm.Message{
					Role: llm.RoleAssistant,
					Content: fmt.Sprintf("THOUGHT: The user wants specific places. I must search for real data.\nACTION: %s({\"query\": %q})",
						tools.PlacesToolName, userQuery),
				},
				llm.Message{Role: llm.RoleUser, Content: "OBSERVATION: " + obs},
			)
			thoughts = append(thoughts, fmt.Sprintf("Searched places for: %s → found %d results", userQuery, len(found)))
		}
	}

	opts := llm.Options{Temperature: loopTemperature, MaxTokens: a.maxTokens}

	for i := 0; i < a.maxIterations; i++ {
		iterations = i + 1

		response, err := a.provider.Complete(ctx, working, opts)
		if err != nil {
			a.metrics.ObserveInvocation("error", iterations)
			return nil, fmt.Errorf("agent completion: %w", err)
		}

		step := Parse(response)
		if step.Thought != "" {
			thoughts = append(thoughts, step.Thought)
		}

		if step.HasAnswer {
			a.metrics.ObserveInvocation("answered", iterations)
			return &Result{ID: id, Reply: step.Answer, Thoughts: thoughts, Iterations: iterations, Places: placesResult}, nil
		}

		if step.Action != nil {
			observation := a.observe(ctx, id, step.Action, &placesResult, &placesCaptured)
			working = append(working,
				llm.Message{Role: llm.RoleAssistant, Content: response},
				llm.Message{Role: llm.RoleUser, Content: "OBSERVATION: " + observation},
			)
			continue
		}

		// No recognizable label: the raw text is the answer.
		a.metrics.ObserveInvocation("unstructured", iterations)
		return &Result{ID: id, Reply: strings.TrimSpace(response), Thoughts: thoughts, Iterations: iterations, Places: placesResult}, nil
	}

	// Budget exhausted: one forced-answer completion, then out.
	a.logger.Printf("[%s] iteration budget exhausted, forcing final answer", id)
	working = append(working, llm.Message{Role: llm.RoleUser, Content: forcedAnswerPrompt})

	response, err := a.provider.Complete(ctx, working, opts)
	if err != nil {
		a.metrics.ObserveInvocation("error", iterations)
		return nil, fmt.Errorf("forced answer completion: %w", err)
	}
	reply := strings.TrimSpace(response)
	if step := Parse(response); step.HasAnswer {
		reply = step.Answer
	}
	a.metrics.ObserveInvocation("forced", iterations)
	return &Result{ID: id, Reply: reply, Thoughts: thoughts, Iterations: iterations, Places: placesResult}, nil
}

// observe resolves one action into an observation string. The places tool is
// special-cased on first use: it is called directly so the full records can
// be cached for the final payload, with the generic dispatch path as the
// fallback when the direct call fails.
func (a *Agent) observe(ctx context.Context, id string, action *Action, placesResult *[]models.Place, placesCaptured *bool) string {
	a.metrics.ObserveToolCall(action.Tool)

	if action.Tool == tools.PlacesToolName {
		// Already captured this invocation: serve the cached result instead
		// of hitting the upstream again.
		if *placesCaptured {
			if obs, err := tools.PlacesObservation(*placesResult); err == nil {
				return obs
			}
			return a.registry.Dispatch(ctx, action.Tool, action.Params)
		}

		query := paramString(action.Params, "query")
		lat := paramFloat(action.Params, "lat")
		lng := paramFloat(action.Params, "lng")
		radius := int(paramFloat(action.Params, "radius"))
		if lat == 0 && lng == 0 {
			radius = 0
		}

		found, err := a.places.Search(ctx, query, lat, lng, radius, 10)
		if err == nil {
			if obs, merr := tools.PlacesObservation(found); merr == nil {
				*placesResult = found
				*placesCaptured = true
				return obs
			}
		} else {
			a.logger.Printf("[%s] direct places search failed, falling back to tool dispatch: %v", id, err)
		}
	}

	return a.registry.Dispatch(ctx, action.Tool, action.Params)
}

func paramString(params map[string]interface{}, key string) string {
	s, _ := params[key].(string)
	return s
}

func paramFloat(params map[string]interface{}, key string) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		var f float64
		fmt.Sscanf(v, "%g", &f)
		return f
	}
	return 0
}

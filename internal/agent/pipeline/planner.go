package pipeline

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/atlasiq/atlasiq/internal/llm"
	"github.com/atlasiq/atlasiq/models"
)

//go:embed weights.schema.json
var weightsSchemaJSON []byte

const plannerSystemPrompt = `You are a travel preference analyzer. Given a user's travel interests described in natural language, output a JSON object with numerical weights (0.0 to 1.0) for each category.

Categories:
- safety_index: importance of safety
- beach_score: interest in beaches
- nightlife_score: interest in nightlife/parties
- cost_of_living: preference for affordable destinations (higher = wants cheaper)
- sightseeing_score: interest in tourist attractions/landmarks
- cultural_score: interest in culture, history, museums
- adventure_score: interest in adventure activities (hiking, diving, etc.)
- food_score: interest in food/cuisine
- infrastructure_score: importance of good transport/facilities
- climate_preference: preferred climate type (one of: "tropical", "arid", "temperate", "continental", "" for no preference)

Respond with ONLY valid JSON, no markdown formatting, no explanation.`

const plannerMaxRetries = 2

// Planner turns free-text interests into validated per-category weights.
type Planner struct {
	provider llm.Provider
	schema   *jsonschema.Schema
	logger   *log.Logger
}

func NewPlanner(provider llm.Provider, logger *log.Logger) (*Planner, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[PLANNER] ", log.LstdFlags)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("weights.schema.json", bytes.NewReader(weightsSchemaJSON)); err != nil {
		return nil, fmt.Errorf("adding weights schema: %w", err)
	}
	schema, err := compiler.Compile("weights.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling weights schema: %w", err)
	}
	return &Planner{provider: provider, schema: schema, logger: logger}, nil
}

// Plan asks the model for weights and validates the reply against the
// schema, retrying with error feedback when the output is malformed.
func (p *Planner) Plan(ctx context.Context, interests string) (models.WeightedPreferences, error) {
	basePrompt := "User's travel interests: " + interests
	opts := llm.Options{Temperature: 0.3, MaxTokens: 512}

	prompt := basePrompt
	var lastErr error
	for attempt := 0; attempt <= plannerMaxRetries; attempt++ {
		raw, err := llm.CompletePrompt(ctx, p.provider, plannerSystemPrompt, prompt, opts)
		if err != nil {
			return models.WeightedPreferences{}, fmt.Errorf("planner completion: %w", err)
		}

		cleaned := llm.StripCodeFences(raw)
		prefs, err := p.decode(cleaned)
		if err == nil {
			return prefs, nil
		}
		lastErr = err
		p.logger.Printf("weights rejected (attempt %d/%d): %v", attempt+1, plannerMaxRetries+1, err)

		prompt = fmt.Sprintf("%s\n\nYour previous response was not valid. Error: %v\nPrevious response: %.500s\nPlease respond with ONLY valid JSON, no markdown, no explanation.",
			basePrompt, err, raw)
	}
	return models.WeightedPreferences{}, fmt.Errorf("planner output invalid after %d attempts: %w", plannerMaxRetries+1, lastErr)
}

func (p *Planner) decode(cleaned string) (models.WeightedPreferences, error) {
	var generic interface{}
	if err := json.Unmarshal([]byte(cleaned), &generic); err != nil {
		return models.WeightedPreferences{}, fmt.Errorf("parsing weights JSON: %w", err)
	}
	if err := p.schema.Validate(generic); err != nil {
		return models.WeightedPreferences{}, fmt.Errorf("validating weights: %w", err)
	}
	var prefs models.WeightedPreferences
	if err := json.Unmarshal([]byte(cleaned), &prefs); err != nil {
		return models.WeightedPreferences{}, fmt.Errorf("decoding weights: %w", err)
	}
	return prefs, nil
}

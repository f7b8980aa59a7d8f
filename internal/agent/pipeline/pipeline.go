package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/atlasiq/atlasiq/internal/cache"
	"github.com/atlasiq/atlasiq/internal/countries"
	"github.com/atlasiq/atlasiq/internal/llm"
	"github.com/atlasiq/atlasiq/models"
)

const (
	insightSystemPrompt = `You are a travel expert. Given a country name and a user's travel interests, write a brief 2-3 sentence insight about why this country would be a great match for them. Be specific and enthusiastic. Do not use markdown formatting.`

	explanationSystemPrompt = `You are a travel advisor. Given a ranked list of top countries with their scores and a user's interests, write a brief 3-4 sentence explanation of why these countries were chosen as the top picks. Reference specific strengths of the top picks. Do not use markdown formatting.`

	recommendTopN     = 5
	recommendCacheTTL = 30 * time.Minute
)

// Pipeline runs the recommendation flow: plan weights, rank the catalogue,
// then generate per-country insights and an overall explanation.
type Pipeline struct {
	provider  llm.Provider
	planner   *Planner
	countries *countries.Service
	cache     cache.Cache
	logger    *log.Logger
}

func New(provider llm.Provider, planner *Planner, catalogue *countries.Service, store cache.Cache, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(log.Writer(), "[PIPELINE] ", log.LstdFlags)
	}
	return &Pipeline{
		provider:  provider,
		planner:   planner,
		countries: catalogue,
		cache:     store,
		logger:    logger,
	}
}

// Recommend produces ranked country picks for free-text interests. Results
// are cached by the interests string.
func (p *Pipeline) Recommend(ctx context.Context, interests string) (*models.RecommendationResponse, error) {
	interests = strings.TrimSpace(interests)
	if interests == "" {
		return nil, fmt.Errorf("interests cannot be empty")
	}

	cacheKey := "recommend:" + interests
	var cached models.RecommendationResponse
	if hit, err := p.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	prefs, err := p.planner.Plan(ctx, interests)
	if err != nil {
		return nil, err
	}

	ranked := countries.Rank(p.countries.All(), prefs, recommendTopN)
	if len(ranked) == 0 {
		return nil, fmt.Errorf("no countries to rank")
	}

	insights := make([]string, len(ranked))
	var explanation string

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range ranked {
		i, r := i, r
		g.Go(func() error {
			text, err := p.insight(gctx, r.Country.Name, interests, r.Score)
			if err != nil {
				return err
			}
			insights[i] = text
			return nil
		})
	}
	g.Go(func() error {
		text, err := p.explanation(gctx, ranked, interests)
		if err != nil {
			return err
		}
		explanation = text
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores := make([]models.CountryScore, 0, len(ranked))
	for i, r := range ranked {
		scores = append(scores, models.CountryScore{
			Code:    r.Country.Code,
			Name:    r.Country.Name,
			Score:   r.Score,
			Insight: insights[i],
		})
	}

	parsed, _ := json.Marshal(prefs.WeightDict())
	response := &models.RecommendationResponse{
		Rankings:        scores,
		Explanation:     explanation,
		InterestsParsed: string(parsed),
	}

	if err := p.cache.Set(ctx, cacheKey, response, recommendCacheTTL); err != nil {
		p.logger.Printf("caching recommendation failed: %v", err)
	}
	return response, nil
}

func (p *Pipeline) insight(ctx context.Context, country, interests string, score float64) (string, error) {
	prompt := fmt.Sprintf("Country: %s\nMatch score: %v/10\nUser interests: %s\n\nWrite a short insight about why %s matches these interests.",
		country, score, interests, country)
	text, err := llm.CompletePrompt(ctx, p.provider, insightSystemPrompt, prompt, llm.Options{Temperature: 0.7, MaxTokens: 200})
	if err != nil {
		return "", fmt.Errorf("insight for %s: %w", country, err)
	}
	return strings.TrimSpace(text), nil
}

func (p *Pipeline) explanation(ctx context.Context, ranked []countries.Scored, interests string) (string, error) {
	var list strings.Builder
	for _, r := range ranked {
		fmt.Fprintf(&list, "- %s (score: %v)\n", r.Country.Name, r.Score)
	}
	prompt := fmt.Sprintf("User interests: %s\n\nTop ranked countries:\n%s\nExplain why these countries are the best matches.",
		interests, list.String())
	text, err := llm.CompletePrompt(ctx, p.provider, explanationSystemPrompt, prompt, llm.Options{Temperature: 0.7, MaxTokens: 300})
	if err != nil {
		return "", fmt.Errorf("explanation: %w", err)
	}
	return strings.TrimSpace(text), nil
}

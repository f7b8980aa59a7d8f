package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/atlasiq/atlasiq/internal/countries"
	"github.com/atlasiq/atlasiq/models"
)

// countrySummary is the per-country shape shared by the catalogue tools.
type countrySummary struct {
	Name    string             `json:"name"`
	Code    string             `json:"code"`
	Climate string             `json:"climate"`
	Scores  map[string]float64 `json:"scores"`
}

func summarize(c models.Country) countrySummary {
	return countrySummary{Name: c.Name, Code: c.Code, Climate: c.Climate, Scores: c.ScoreFields()}
}

// SearchCountries filters the catalogue by name, climate, or a minimum score.
type SearchCountries struct {
	Countries *countries.Service
}

func (SearchCountries) Name() string { return "search_countries" }

func (SearchCountries) Description() string {
	return "Search and filter countries by name, climate type, or minimum score in a category. " +
		"Returns up to 20 matching countries with all their scores."
}

func (SearchCountries) Parameters() []Param {
	return []Param{
		{"query", "(optional) Country name substring to search for"},
		{"climate", "(optional) Filter by climate: tropical, arid, temperate, continental"},
		{"min_score_field", "(optional) Score field name to filter by minimum value"},
		{"min_score_value", "(optional) Minimum score value (0-10)"},
	}
}

func (t SearchCountries) Execute(_ context.Context, params map[string]interface{}) (string, error) {
	query := strings.TrimSpace(strParam(params, "query"))
	climate := strings.ToLower(strParam(params, "climate"))
	minField := strParam(params, "min_score_field")
	minValue := floatParam(params, "min_score_value", 0)

	candidates := t.Countries.All()
	if query != "" {
		candidates = t.Countries.SearchByName(query, 0)
	}

	var results []countrySummary
	for _, c := range candidates {
		if climate != "" && climate != strings.ToLower(c.Climate) {
			continue
		}
		if minField != "" {
			score, ok := c.ScoreFields()[minField]
			if !ok || score < minValue {
				continue
			}
		}
		results = append(results, summarize(c))
	}

	if len(results) == 0 {
		return marshal(map[string]interface{}{
			"results": []countrySummary{},
			"message": "No countries matched your criteria.",
		})
	}
	total := len(results)
	if len(results) > 20 {
		results = results[:20]
	}
	return marshal(map[string]interface{}{"results": results, "total": total})
}

// GetCountryDetails returns the full record for one country.
type GetCountryDetails struct {
	Countries *countries.Service
}

func (GetCountryDetails) Name() string { return "get_country_details" }

func (GetCountryDetails) Description() string {
	return "Get full details for a specific country by its ISO 3166-1 alpha-2 code " +
		"(e.g. 'JP' for Japan, 'TH' for Thailand)."
}

func (GetCountryDetails) Parameters() []Param {
	return []Param{{"code", "(required) ISO 3166-1 alpha-2 country code, uppercase"}}
}

func (t GetCountryDetails) Execute(_ context.Context, params map[string]interface{}) (string, error) {
	code := strParam(params, "code")
	c, ok := t.Countries.ByCode(code)
	if !ok {
		return errorJSON(fmt.Sprintf("Country not found for code: %s", code)), nil
	}
	return marshal(map[string]interface{}{
		"name":    c.Name,
		"code":    c.Code,
		"climate": c.Climate,
		"lat":     c.Lat,
		"lng":     c.Lng,
		"scores":  c.ScoreFields(),
	})
}

// CompareCountries builds a side-by-side comparison of 2-4 countries.
type CompareCountries struct {
	Countries *countries.Service
}

func (CompareCountries) Name() string { return "compare_countries" }

func (CompareCountries) Description() string {
	return "Compare 2-4 countries side by side on all scores. Provide an array of ISO country codes."
}

func (CompareCountries) Parameters() []Param {
	return []Param{{"codes", `(required) Array of 2-4 ISO country codes, e.g. ["JP", "TH"]`}}
}

func (t CompareCountries) Execute(_ context.Context, params map[string]interface{}) (string, error) {
	codes := strSliceParam(params, "codes")
	if len(codes) < 2 {
		return errorJSON("Provide at least 2 country codes to compare."), nil
	}
	if len(codes) > 4 {
		codes = codes[:4]
	}

	var comparison []countrySummary
	for _, code := range codes {
		if c, ok := t.Countries.ByCode(code); ok {
			comparison = append(comparison, summarize(c))
		}
	}
	if len(comparison) < 2 {
		return errorJSON("Could not find enough countries for comparison."), nil
	}
	return marshal(map[string]interface{}{"comparison": comparison})
}

// GetTravelTips derives safety/budget levels and highlights from the scores.
type GetTravelTips struct {
	Countries *countries.Service
}

func (GetTravelTips) Name() string { return "get_travel_tips" }

func (GetTravelTips) Description() string {
	return "Get structured travel tips for a country including safety level, budget level, " +
		"climate, and highlights derived from real data."
}

func (GetTravelTips) Parameters() []Param {
	return []Param{{"code", "(required) ISO 3166-1 alpha-2 country code"}}
}

func (t GetTravelTips) Execute(_ context.Context, params map[string]interface{}) (string, error) {
	code := strParam(params, "code")
	c, ok := t.Countries.ByCode(code)
	if !ok {
		return errorJSON(fmt.Sprintf("Country not found for code: %s", code)), nil
	}

	var safetyLevel string
	switch {
	case c.SafetyIndex >= 8:
		safetyLevel = "Very Safe"
	case c.SafetyIndex >= 6:
		safetyLevel = "Safe"
	case c.SafetyIndex >= 4:
		safetyLevel = "Exercise Caution"
	default:
		safetyLevel = "High Risk"
	}

	var budgetLevel string
	switch {
	case c.CostOfLiving >= 7:
		budgetLevel = "Budget-Friendly"
	case c.CostOfLiving >= 4:
		budgetLevel = "Moderate"
	default:
		budgetLevel = "Expensive"
	}

	var highlights []string
	if c.BeachScore >= 7 {
		highlights = append(highlights, "Great beaches")
	}
	if c.FoodScore >= 7 {
		highlights = append(highlights, "Excellent cuisine")
	}
	if c.CulturalScore >= 7 {
		highlights = append(highlights, "Rich culture & history")
	}
	if c.AdventureScore >= 7 {
		highlights = append(highlights, "Adventure activities")
	}
	if c.NightlifeScore >= 7 {
		highlights = append(highlights, "Vibrant nightlife")
	}
	if c.SightseeingScore >= 7 {
		highlights = append(highlights, "Top sightseeing")
	}
	if len(highlights) == 0 {
		highlights = []string{"General tourism"}
	}

	return marshal(map[string]interface{}{
		"country":              c.Name,
		"safety_level":         safetyLevel,
		"safety_score":         c.SafetyIndex,
		"budget_level":         budgetLevel,
		"cost_score":           c.CostOfLiving,
		"climate":              c.Climate,
		"highlights":           highlights,
		"infrastructure_score": c.InfrastructureScore,
	})
}

// RankByPreference ranks all countries on a single score field.
type RankByPreference struct {
	Countries *countries.Service
}

func (RankByPreference) Name() string { return "rank_by_preference" }

func (RankByPreference) Description() string {
	return "Rank all countries by a specific score field and return the top N. Fields: " +
		strings.Join(models.ScoreFieldNames, ", ") + "."
}

func (RankByPreference) Parameters() []Param {
	return []Param{
		{"field", "(required) The score field to rank by"},
		{"top_n", "(optional) Number of top results to return, default 10"},
	}
}

func (t RankByPreference) Execute(_ context.Context, params map[string]interface{}) (string, error) {
	field := strParam(params, "field")
	topN := intParam(params, "top_n", 10)

	valid := false
	for _, name := range models.ScoreFieldNames {
		if name == field {
			valid = true
			break
		}
	}
	if !valid {
		return errorJSON(fmt.Sprintf("Invalid field: %s. Valid fields: %s",
			field, strings.Join(models.ScoreFieldNames, ", "))), nil
	}

	all := append([]models.Country(nil), t.Countries.All()...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ScoreFields()[field] > all[j].ScoreFields()[field]
	})
	if topN > 0 && topN < len(all) {
		all = all[:topN]
	}

	type ranked struct {
		Rank  int     `json:"rank"`
		Name  string  `json:"name"`
		Code  string  `json:"code"`
		Score float64 `json:"score"`
	}
	results := make([]ranked, 0, len(all))
	for i, c := range all {
		results = append(results, ranked{Rank: i + 1, Name: c.Name, Code: c.Code, Score: c.ScoreFields()[field]})
	}
	return marshal(map[string]interface{}{"field": field, "top": results})
}

func marshal(v interface{}) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

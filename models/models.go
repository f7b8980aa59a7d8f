package models

// Country is one record from the embedded catalogue. Scores are 0-10.
type Country struct {
	Name                string  `json:"name"`
	Code                string  `json:"code"`
	Lat                 float64 `json:"lat"`
	Lng                 float64 `json:"lng"`
	Climate             string  `json:"climate"`
	SafetyIndex         float64 `json:"safety_index"`
	BeachScore          float64 `json:"beach_score"`
	NightlifeScore      float64 `json:"nightlife_score"`
	CostOfLiving        float64 `json:"cost_of_living"`
	SightseeingScore    float64 `json:"sightseeing_score"`
	CulturalScore       float64 `json:"cultural_score"`
	AdventureScore      float64 `json:"adventure_score"`
	FoodScore           float64 `json:"food_score"`
	InfrastructureScore float64 `json:"infrastructure_score"`
}

// ScoreFields returns the scorable fields keyed by their JSON names.
func (c Country) ScoreFields() map[string]float64 {
	return map[string]float64{
		"safety_index":         c.SafetyIndex,
		"beach_score":          c.BeachScore,
		"nightlife_score":      c.NightlifeScore,
		"cost_of_living":       c.CostOfLiving,
		"sightseeing_score":    c.SightseeingScore,
		"cultural_score":       c.CulturalScore,
		"adventure_score":      c.AdventureScore,
		"food_score":           c.FoodScore,
		"infrastructure_score": c.InfrastructureScore,
	}
}

// ScoreFieldNames lists the valid score field names in a stable order.
var ScoreFieldNames = []string{
	"safety_index",
	"beach_score",
	"nightlife_score",
	"cost_of_living",
	"sightseeing_score",
	"cultural_score",
	"adventure_score",
	"food_score",
	"infrastructure_score",
}

// WeightedPreferences holds per-category weights (0.0-1.0) parsed from the
// user's free-text interests, plus an optional climate preference.
type WeightedPreferences struct {
	SafetyIndex         float64 `json:"safety_index"`
	BeachScore          float64 `json:"beach_score"`
	NightlifeScore      float64 `json:"nightlife_score"`
	CostOfLiving        float64 `json:"cost_of_living"`
	SightseeingScore    float64 `json:"sightseeing_score"`
	CulturalScore       float64 `json:"cultural_score"`
	AdventureScore      float64 `json:"adventure_score"`
	FoodScore           float64 `json:"food_score"`
	InfrastructureScore float64 `json:"infrastructure_score"`
	ClimatePreference   string  `json:"climate_preference"`
}

// WeightDict returns the numeric weights keyed by score field name.
func (w WeightedPreferences) WeightDict() map[string]float64 {
	return map[string]float64{
		"safety_index":         w.SafetyIndex,
		"beach_score":          w.BeachScore,
		"nightlife_score":      w.NightlifeScore,
		"cost_of_living":       w.CostOfLiving,
		"sightseeing_score":    w.SightseeingScore,
		"cultural_score":       w.CulturalScore,
		"adventure_score":      w.AdventureScore,
		"food_score":           w.FoodScore,
		"infrastructure_score": w.InfrastructureScore,
	}
}

// Place is a normalized Google Places record. The full record is returned to
// API callers; the agent only ever sees the slim projection.
type Place struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	PriceLevel  int      `json:"price_level"`
	IsOpen      *bool    `json:"is_open"`
	Types       []string `json:"types"`
	PhotoURL    string   `json:"photo_url"`
	MapsURL     string   `json:"maps_url"`
}

// SlimPlace is the reduced projection fed into the model context.
type SlimPlace struct {
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Address     string  `json:"address"`
	IsOpen      *bool   `json:"is_open,omitempty"`
}

// Slim projects a Place down to the fields the model is allowed to see.
func (p Place) Slim() SlimPlace {
	return SlimPlace{
		Name:        p.Name,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		Address:     p.Address,
		IsOpen:      p.IsOpen,
	}
}

// SlimPlaces projects a full result set.
func SlimPlaces(places []Place) []SlimPlace {
	slim := make([]SlimPlace, 0, len(places))
	for _, p := range places {
		slim = append(slim, p.Slim())
	}
	return slim
}

// CountryScore is one entry in a recommendation ranking.
type CountryScore struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Insight string  `json:"insight,omitempty"`
}

// RecommendationResponse is the payload returned by POST /recommendations.
type RecommendationResponse struct {
	Rankings        []CountryScore `json:"rankings"`
	Explanation     string         `json:"explanation,omitempty"`
	InterestsParsed string         `json:"interests_parsed,omitempty"`
}

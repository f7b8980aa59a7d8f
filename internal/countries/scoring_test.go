package countries

import (
	"testing"

	"github.com/atlasiq/atlasiq/models"
)

func testCountry() models.Country {
	return models.Country{
		Name:        "Testland",
		Code:        "TL",
		Climate:     "tropical",
		BeachScore:  8,
		FoodScore:   6,
		SafetyIndex: 4,
	}
}

func TestScoreWeightedAverage(t *testing.T) {
	c := testCountry()
	prefs := models.WeightedPreferences{BeachScore: 1.0, FoodScore: 0.5}

	// (8*1.0 + 6*0.5) / 1.5 = 7.33
	got := Score(c, prefs)
	if got != 7.33 {
		t.Fatalf("expected 7.33, got %v", got)
	}
}

func TestScoreClimateBonus(t *testing.T) {
	c := testCountry()
	prefs := models.WeightedPreferences{BeachScore: 1.0, ClimatePreference: "tropical"}

	// (8 + 1.0*0.5) / 1.0 = 8.5
	got := Score(c, prefs)
	if got != 8.5 {
		t.Fatalf("expected 8.5, got %v", got)
	}

	prefs.ClimatePreference = "arid"
	if got := Score(c, prefs); got != 8 {
		t.Fatalf("expected 8 without climate match, got %v", got)
	}
}

func TestScoreZeroWeights(t *testing.T) {
	if got := Score(testCountry(), models.WeightedPreferences{}); got != 0 {
		t.Fatalf("expected 0 for zero weights, got %v", got)
	}
}

func TestRankOrdersAndLimits(t *testing.T) {
	a := models.Country{Name: "A", Code: "AA", BeachScore: 9}
	b := models.Country{Name: "B", Code: "BB", BeachScore: 5}
	c := models.Country{Name: "C", Code: "CC", BeachScore: 7}
	prefs := models.WeightedPreferences{BeachScore: 1.0}

	ranked := Rank([]models.Country{a, b, c}, prefs, 2)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	if ranked[0].Country.Code != "AA" || ranked[1].Country.Code != "CC" {
		t.Fatalf("unexpected order: %s, %s", ranked[0].Country.Code, ranked[1].Country.Code)
	}
}

func TestServiceByCode(t *testing.T) {
	svc, err := NewService(nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	jp, ok := svc.ByCode("jp")
	if !ok {
		t.Fatal("expected JP to exist (case-insensitive)")
	}
	if jp.Name != "Japan" {
		t.Fatalf("expected Japan, got %s", jp.Name)
	}

	if _, ok := svc.ByCode("XX"); ok {
		t.Fatal("expected XX to be unknown")
	}
}

func TestServiceSearchByName(t *testing.T) {
	svc, err := NewService(nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	hits := svc.SearchByName("japan", 5)
	if len(hits) == 0 {
		t.Fatal("expected at least one hit for japan")
	}
	if hits[0].Code != "JP" {
		t.Fatalf("expected JP first, got %s", hits[0].Code)
	}

	// Substring fallback: partial word that the tokenizer will not match.
	hits = svc.SearchByName("jap", 5)
	found := false
	for _, h := range hits {
		if h.Code == "JP" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected substring fallback to find JP for 'jap'")
	}
}

package react

import (
	"regexp"
	"strings"
)

// Patterns that indicate the user wants specific local places. Any single
// match forces a grounding search before the model sees the conversation.
var placesPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(restaurants?|food|eat|eating|dine|dining|biryani|pizza|burger|sushi|ramen|tacos?|noodles?|kebab|cafe|cafes|coffee|tea\s+house|bakery|bakeries|dessert|ice\s*cream|brunch|breakfast|lunch|dinner|street\s+food)\b`),
	regexp.MustCompile(`(?i)\b(hotels?|hostels?|resorts?|stays?|accommodation|lodge|motel|airbnb|guesthouse)\b`),
	regexp.MustCompile(`(?i)\b(shopping|mall|market|bazaar|stores?|boutique|souvenir)\b`),
	regexp.MustCompile(`(?i)\b(attractions?|sightseeing|museums?|temples?|church|mosque|monuments?|landmarks?|parks?|gardens?|zoo|aquarium|palace|fort|castle|ruins?|gallery|galleries)\b`),
	regexp.MustCompile(`(?i)\b(nightlife|clubs?|disco|lounge|pubs?|bars?|brewery|breweries|rooftop)\b`),
	regexp.MustCompile(`(?i)\b(places?\s+to\s+(visit|go|see|eat|stay|shop|explore|check\s*out|hang\s*out))\b`),
	regexp.MustCompile(`(?i)\b(things?\s+to\s+do)\b`),
	regexp.MustCompile(`(?i)\b(best|top|popular|famous|recommended|good|great|must[\s-]*(visit|see|try|eat))\s+(places?|spots?|restaurants?|cafes?|hotels?|bars?|joints?)\b`),
	regexp.MustCompile(`(?i)\b(where\s+to\s+(eat|stay|shop|visit|go|drink|hang))\b`),
	regexp.MustCompile(`(?i)\b(what\s+to\s+(eat|see|do|visit))\b`),
	regexp.MustCompile(`(?i)\b(best\s+.{0,20}\s+in\s+\w+)\b`),
}

// NeedsPlacesSearch reports whether the message is asking about specific
// local places.
func NeedsPlacesSearch(message string) bool {
	for _, p := range placesPatterns {
		if p.MatchString(message) {
			return true
		}
	}
	return false
}

// ExtractUserQuery strips the conventional context prefix the chat handler
// adds, returning just what the user typed.
func ExtractUserQuery(message string) string {
	if _, after, ok := strings.Cut(message, "User says:"); ok {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(message)
}

var locationContextRe = regexp.MustCompile(`looking at (.+?)\s*(?:\([A-Z]{2}\))?\s*on the globe`)

// ExtractLocationContext pulls the place name out of the context prefix,
// e.g. "The user is looking at Ohio (US) on the globe." → "Ohio".
func ExtractLocationContext(message string) string {
	m := locationContextRe.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Words that mean "the place I'm looking at" — ambiguous for a places API.
var (
	deicticRe    = regexp.MustCompile(`(?i)\b(here|nearby|around here|close\s*by|in this area|this place|this area|near\s*here|over here)\b`)
	spacesRe     = regexp.MustCompile(`\s{2,}`)
	inLocationRe = regexp.MustCompile(`(?i)\bin\s+\w{2,}`)
)

// StripDeicticWords removes context-dependent location words ("here",
// "nearby") that confuse a places search once an explicit location is
// appended.
func StripDeicticWords(query string) string {
	cleaned := deicticRe.ReplaceAllString(query, "")
	return strings.TrimSpace(spacesRe.ReplaceAllString(cleaned, " "))
}

// BuildSearchQuery turns a raw user query plus an optional location context
// into the query sent to the places service. The location is appended only
// when the cleaned query does not already carry an "in <place>" clause.
func BuildSearchQuery(query, locationContext string) string {
	clean := StripDeicticWords(query)
	if clean == "" {
		clean = query
	}
	if locationContext != "" && !inLocationRe.MatchString(clean) {
		return clean + " in " + locationContext
	}
	return clean
}

package react

import "testing"

func TestNeedsPlacesSearch(t *testing.T) {
	cases := []struct {
		query string
		want  bool
	}{
		{"best restaurants in Tokyo", true},
		{"hello, how are you?", false},
		{"what's the history of Japan", false},
		{"things to do in Lisbon", true},
		{"where to eat tonight", true},
		{"top spots for photos", true},
		{"I need a hotel near the station", true},
		{"nightlife recommendations", true},
		{"what is the capital of France", false},
		{"compare Japan and Thailand for safety", false},
	}
	for _, c := range cases {
		if got := NeedsPlacesSearch(c.query); got != c.want {
			t.Errorf("NeedsPlacesSearch(%q) = %v, want %v", c.query, got, c.want)
		}
	}
}

func TestExtractUserQuery(t *testing.T) {
	msg := "The user is looking at Ohio (US) on the globe. User says: any good pizza here?"
	if got := ExtractUserQuery(msg); got != "any good pizza here?" {
		t.Fatalf("got %q", got)
	}
	if got := ExtractUserQuery("plain message"); got != "plain message" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractLocationContext(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"The user is looking at Ohio (US) on the globe. User says: hi", "Ohio"},
		{"The user is looking at Paris on the globe. User says: hi", "Paris"},
		{"User says: hi", ""},
	}
	for _, c := range cases {
		if got := ExtractLocationContext(c.msg); got != c.want {
			t.Errorf("ExtractLocationContext(%q) = %q, want %q", c.msg, got, c.want)
		}
	}
}

func TestStripDeicticWords(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"coffee shops near here", "coffee shops"},
		{"restaurants nearby", "restaurants"},
		{"bars in this area", "bars"},
		{"sushi in Tokyo", "sushi in Tokyo"},
	}
	for _, c := range cases {
		if got := StripDeicticWords(c.in); got != c.want {
			t.Errorf("StripDeicticWords(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuildSearchQuery(t *testing.T) {
	cases := []struct {
		query, ctx, want string
	}{
		{"coffee shops near here", "Paris", "coffee shops in Paris"},
		{"best sushi in Tokyo", "Paris", "best sushi in Tokyo"},
		{"hotels nearby", "", "hotels"},
		{"here", "Rome", "here in Rome"},
	}
	for _, c := range cases {
		if got := BuildSearchQuery(c.query, c.ctx); got != c.want {
			t.Errorf("BuildSearchQuery(%q, %q) = %q, want %q", c.query, c.ctx, got, c.want)
		}
	}
}

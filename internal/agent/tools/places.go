package tools

import (
	"context"

	"github.com/atlasiq/atlasiq/internal/places"
	"github.com/atlasiq/atlasiq/models"
)

// PlacesToolName is referenced by the agent loop, which special-cases this
// tool to guarantee a single fetch per invocation.
const PlacesToolName = "search_nearby_places"

// SearchNearbyPlaces looks up real venues through the places service and
// returns the slim projection the model is allowed to see.
type SearchNearbyPlaces struct {
	Places places.Searcher
}

func (SearchNearbyPlaces) Name() string { return PlacesToolName }

func (SearchNearbyPlaces) Description() string {
	return "Search for real places, restaurants, attractions, sightseeing spots, hotels, cafes, etc. " +
		"using Google Places. Use this whenever the user asks for specific local businesses, food spots, " +
		"things to do, sightseeing, or places to visit. Include the location in the query text " +
		"(e.g. 'biryani restaurants in Hyderabad'). Coordinates are optional — if you have them " +
		"(from user location), pass them; otherwise just put the location name in the query and " +
		"Google will find it."
}

func (SearchNearbyPlaces) Parameters() []Param {
	return []Param{
		{"query", "(required) What to search for INCLUDING the location, e.g. 'biryani restaurants in India', 'coffee shops in Paris'"},
		{"lat", "(optional) Latitude — pass if user's location is known, otherwise omit or use 0"},
		{"lng", "(optional) Longitude — pass if user's location is known, otherwise omit or use 0"},
		{"radius", "(optional) Search radius in meters. Use 5000 for 'near me' queries. Omit or use 0 for city/country queries where location is in the query text"},
	}
}

func (t SearchNearbyPlaces) Execute(ctx context.Context, params map[string]interface{}) (string, error) {
	query := strParam(params, "query")
	if query == "" {
		return errorJSON("query is required"), nil
	}
	lat := floatParam(params, "lat", 0)
	lng := floatParam(params, "lng", 0)
	radius := intParam(params, "radius", 0)

	// Without coordinates a radius is meaningless: let Google infer the
	// location from the query text instead.
	if lat == 0 && lng == 0 {
		radius = 0
	}

	found, err := t.Places.Search(ctx, query, lat, lng, radius, 10)
	if err != nil {
		return "", err
	}
	return PlacesObservation(found)
}

// PlacesObservation renders the slim projection of a places result as a tool
// observation.
func PlacesObservation(found []models.Place) (string, error) {
	if len(found) == 0 {
		return marshal(map[string]interface{}{
			"results": []models.SlimPlace{},
			"message": "No places found nearby.",
		})
	}
	slim := models.SlimPlaces(found)
	return marshal(map[string]interface{}{"results": slim, "total": len(slim)})
}

package countries

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/blevesearch/bleve"

	"github.com/atlasiq/atlasiq/models"
)

//go:embed countries.json
var catalogueJSON []byte

// Service serves the embedded country catalogue. The catalogue is loaded once
// at startup and read-only afterwards, so it is safe to share across
// concurrent requests.
type Service struct {
	countries []models.Country
	byCode    map[string]models.Country
	index     bleve.Index
	logger    *log.Logger
}

type indexDoc struct {
	Name    string `json:"name"`
	Climate string `json:"climate"`
}

// NewService parses the embedded catalogue and builds an in-memory search
// index over country names.
func NewService(logger *log.Logger) (*Service, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[COUNTRIES] ", log.LstdFlags)
	}

	var countries []models.Country
	if err := json.Unmarshal(catalogueJSON, &countries); err != nil {
		return nil, fmt.Errorf("parse country catalogue: %w", err)
	}
	if len(countries) == 0 {
		return nil, fmt.Errorf("country catalogue is empty")
	}

	byCode := make(map[string]models.Country, len(countries))
	for _, c := range countries {
		byCode[c.Code] = c
	}

	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("build country index: %w", err)
	}
	for _, c := range countries {
		if err := index.Index(c.Code, indexDoc{Name: c.Name, Climate: c.Climate}); err != nil {
			return nil, fmt.Errorf("index %s: %w", c.Code, err)
		}
	}

	logger.Printf("catalogue loaded: %d countries", len(countries))
	return &Service{countries: countries, byCode: byCode, index: index, logger: logger}, nil
}

// All returns the full catalogue.
func (s *Service) All() []models.Country {
	return s.countries
}

// ByCode looks up a country by ISO 3166-1 alpha-2 code, case-insensitively.
func (s *Service) ByCode(code string) (models.Country, bool) {
	c, ok := s.byCode[strings.ToUpper(code)]
	return c, ok
}

// SearchByName matches countries whose name matches the query, using the
// bleve index for tokenized matches and a substring scan as a safety net for
// partial words.
func (s *Service) SearchByName(query string, limit int) []models.Country {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = len(s.countries)
	}

	seen := make(map[string]bool)
	var out []models.Country

	match := bleve.NewMatchQuery(query)
	match.SetField("name")
	req := bleve.NewSearchRequestOptions(match, limit, 0, false)
	if res, err := s.index.Search(req); err == nil {
		for _, hit := range res.Hits {
			if c, ok := s.byCode[hit.ID]; ok && !seen[c.Code] {
				seen[c.Code] = true
				out = append(out, c)
			}
		}
	} else {
		s.logger.Printf("index search failed for %q: %v", query, err)
	}

	lower := strings.ToLower(query)
	for _, c := range s.countries {
		if len(out) >= limit {
			break
		}
		if !seen[c.Code] && strings.Contains(strings.ToLower(c.Name), lower) {
			seen[c.Code] = true
			out = append(out, c)
		}
	}
	return out
}

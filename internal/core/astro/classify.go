package astro

import (
	"fmt"
	"strings"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

// Interpretation is the reading attached to one (planet, line type) pair:
// an overall sentiment plus the themes that line carries.
type Interpretation struct {
	Sentiment domain.Sentiment `json:"sentiment"`
	Keywords  []string         `json:"keywords"`
}

type interpKey struct {
	planet domain.Planet
	line   domain.LineType
}

// Classify returns the interpretation for a (planet, line type) pair. The
// table is total over every valid planet and line type; a miss means the
// table and the planet enumeration have drifted apart, which is a
// programmer error, so it panics rather than inventing a default. The
// returned keyword slice is a copy the caller owns.
func Classify(p domain.Planet, lt domain.LineType) Interpretation {
	in, ok := interpretations[interpKey{p, lt}]
	if !ok {
		panic(fmt.Sprintf("classify: no interpretation for planet %q line %q", p, lt))
	}
	return Interpretation{
		Sentiment: in.Sentiment,
		Keywords:  append([]string(nil), in.Keywords...),
	}
}

// MatchesKeyword reports whether the pair's keyword set contains the query
// or any of its aliases. Matching is case-insensitive; "love" also hits
// lines themed "romance" or "relationships".
func MatchesKeyword(p domain.Planet, lt domain.LineType, keyword string) bool {
	in := Classify(p, lt)
	q := strings.ToLower(strings.TrimSpace(keyword))
	terms := append([]string{q}, keywordAliases[q]...)
	for _, term := range terms {
		for _, k := range in.Keywords {
			if k == term {
				return true
			}
		}
	}
	return false
}

// keywordAliases expands common query words into the vocabulary the
// interpretation table actually uses.
var keywordAliases = map[string][]string{
	"love":   {"romance", "relationships"},
	"work":   {"career", "profession"},
	"money":  {"wealth", "prosperity", "fortune"},
	"home":   {"family", "roots"},
	"travel": {"adventure", "journeys"},
	"health": {"vitality", "healing"},
}

var interpretations = map[interpKey]Interpretation{
	{domain.Sun, domain.MC}:  {domain.Positive, []string{"career", "recognition", "vitality", "leadership"}},
	{domain.Sun, domain.IC}:  {domain.Positive, []string{"roots", "identity", "renewal"}},
	{domain.Sun, domain.ASC}: {domain.Positive, []string{"vitality", "charisma", "confidence"}},
	{domain.Sun, domain.DSC}: {domain.Positive, []string{"partnership", "admiration", "warmth"}},

	{domain.Moon, domain.MC}:  {domain.Neutral, []string{"reputation", "sensitivity", "visibility"}},
	{domain.Moon, domain.IC}:  {domain.Positive, []string{"home", "family", "comfort", "belonging"}},
	{domain.Moon, domain.ASC}: {domain.Neutral, []string{"intuition", "moods", "openness"}},
	{domain.Moon, domain.DSC}: {domain.Neutral, []string{"nurturing", "closeness", "attachment"}},

	{domain.Mercury, domain.MC}:  {domain.Positive, []string{"communication", "profession", "ideas"}},
	{domain.Mercury, domain.IC}:  {domain.Neutral, []string{"study", "reflection", "writing"}},
	{domain.Mercury, domain.ASC}: {domain.Neutral, []string{"curiosity", "wit", "restlessness"}},
	{domain.Mercury, domain.DSC}: {domain.Neutral, []string{"dialogue", "negotiation", "contracts"}},

	{domain.Venus, domain.MC}:  {domain.Positive, []string{"artistry", "prosperity", "charm"}},
	{domain.Venus, domain.IC}:  {domain.Positive, []string{"beauty", "family", "harmony"}},
	{domain.Venus, domain.ASC}: {domain.Positive, []string{"romance", "magnetism", "grace"}},
	{domain.Venus, domain.DSC}: {domain.Positive, []string{"relationships", "marriage", "affection"}},

	{domain.Mars, domain.MC}:  {domain.Challenging, []string{"ambition", "competition", "burnout"}},
	{domain.Mars, domain.IC}:  {domain.Challenging, []string{"friction", "restlessness", "tension"}},
	{domain.Mars, domain.ASC}: {domain.Challenging, []string{"courage", "impulsiveness", "accidents"}},
	{domain.Mars, domain.DSC}: {domain.Challenging, []string{"conflict", "rivalry", "passion"}},

	{domain.Jupiter, domain.MC}:  {domain.Positive, []string{"success", "expansion", "fortune"}},
	{domain.Jupiter, domain.IC}:  {domain.Positive, []string{"abundance", "contentment", "generosity"}},
	{domain.Jupiter, domain.ASC}: {domain.Positive, []string{"optimism", "adventure", "opportunity"}},
	{domain.Jupiter, domain.DSC}: {domain.Positive, []string{"benefactors", "luck", "growth"}},

	{domain.Saturn, domain.MC}:  {domain.Challenging, []string{"discipline", "authority", "burden"}},
	{domain.Saturn, domain.IC}:  {domain.Challenging, []string{"duty", "solitude", "foundations"}},
	{domain.Saturn, domain.ASC}: {domain.Challenging, []string{"restriction", "maturity", "caution"}},
	{domain.Saturn, domain.DSC}: {domain.Challenging, []string{"commitment", "distance", "endurance"}},

	{domain.Uranus, domain.MC}:  {domain.Neutral, []string{"innovation", "upheaval", "independence"}},
	{domain.Uranus, domain.IC}:  {domain.Challenging, []string{"disruption", "instability", "relocation"}},
	{domain.Uranus, domain.ASC}: {domain.Neutral, []string{"originality", "freedom", "eccentricity"}},
	{domain.Uranus, domain.DSC}: {domain.Challenging, []string{"unpredictability", "separation", "excitement"}},

	{domain.Neptune, domain.MC}:  {domain.Neutral, []string{"inspiration", "idealism", "confusion"}},
	{domain.Neptune, domain.IC}:  {domain.Neutral, []string{"dreams", "retreat", "nostalgia"}},
	{domain.Neptune, domain.ASC}: {domain.Neutral, []string{"imagination", "healing", "escapism"}},
	{domain.Neptune, domain.DSC}: {domain.Challenging, []string{"illusion", "fantasy", "deception"}},

	{domain.Pluto, domain.MC}:  {domain.Challenging, []string{"power", "transformation", "control"}},
	{domain.Pluto, domain.IC}:  {domain.Challenging, []string{"upheaval", "secrets", "regeneration"}},
	{domain.Pluto, domain.ASC}: {domain.Challenging, []string{"intensity", "compulsion", "rebirth"}},
	{domain.Pluto, domain.DSC}: {domain.Challenging, []string{"obsession", "struggle", "depth"}},

	{domain.NorthNode, domain.MC}:  {domain.Positive, []string{"destiny", "calling", "growth"}},
	{domain.NorthNode, domain.IC}:  {domain.Positive, []string{"belonging", "settling", "heritage"}},
	{domain.NorthNode, domain.ASC}: {domain.Positive, []string{"purpose", "journeys", "encounters"}},
	{domain.NorthNode, domain.DSC}: {domain.Positive, []string{"alliances", "meetings", "fate"}},

	{domain.Lilith, domain.MC}:  {domain.Challenging, []string{"notoriety", "defiance", "scandal"}},
	{domain.Lilith, domain.IC}:  {domain.Challenging, []string{"estrangement", "secrets", "resentment"}},
	{domain.Lilith, domain.ASC}: {domain.Neutral, []string{"independence", "allure", "rawness"}},
	{domain.Lilith, domain.DSC}: {domain.Challenging, []string{"taboo", "betrayal", "fascination"}},
}

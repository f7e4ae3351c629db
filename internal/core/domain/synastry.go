package domain

import (
	"encoding/json"
	"fmt"
)

// Sentiment is the qualitative tone a (planet, line type) pairing carries.
type Sentiment int

const (
	Positive Sentiment = iota
	Neutral
	Challenging
)

var sentimentNames = [...]string{"positive", "neutral", "challenging"}

// Valid reports whether s is a known sentiment.
func (s Sentiment) Valid() bool { return s >= Positive && s <= Challenging }

func (s Sentiment) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Sentiment(%d)", int(s))
	}
	return sentimentNames[s]
}

// ParseSentiment converts a wire name ("positive", ...) to a Sentiment.
func ParseSentiment(str string) (Sentiment, error) {
	for i, name := range sentimentNames {
		if name == str {
			return Sentiment(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sentiment %q", str)
}

func (s Sentiment) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshal sentiment: invalid value %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *Sentiment) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSentiment(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// OverlapKind is the six-value classification of a geographic coincidence
// between two charts' corresponding lines.
type OverlapKind int

const (
	Harmonious OverlapKind = iota
	SlightlyPositive
	NeutralOverlap
	Tension
	SlightlyChallenging
	ChallengingOverlap
)

var overlapKindNames = [...]string{
	"harmonious", "slightly_positive", "neutral_overlap",
	"tension", "slightly_challenging", "challenging",
}

// OverlapKinds returns all six buckets in display order.
func OverlapKinds() []OverlapKind {
	return []OverlapKind{
		Harmonious, SlightlyPositive, NeutralOverlap,
		Tension, SlightlyChallenging, ChallengingOverlap,
	}
}

// Valid reports whether k is a known overlap kind.
func (k OverlapKind) Valid() bool { return k >= Harmonious && k <= ChallengingOverlap }

func (k OverlapKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("OverlapKind(%d)", int(k))
	}
	return overlapKindNames[k]
}

// ParseOverlapKind converts a wire name ("harmonious", ...) to an OverlapKind.
func ParseOverlapKind(s string) (OverlapKind, error) {
	for i, name := range overlapKindNames {
		if name == s {
			return OverlapKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown overlap kind %q", s)
}

func (k OverlapKind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("marshal overlap kind: invalid value %d", int(k))
	}
	return json.Marshal(k.String())
}

func (k *OverlapKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseOverlapKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

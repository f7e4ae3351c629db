package domain

import (
	"encoding/json"
	"fmt"
)

// LineType is one of the four angularity lines a planet projects.
type LineType int

const (
	MC LineType = iota // culmination meridian
	IC                 // anti-culmination meridian
	ASC                // rising curve
	DSC                // setting curve
)

var lineTypeNames = [...]string{"MC", "IC", "ASC", "DSC"}

// LineTypes returns all four line types in canonical order.
func LineTypes() []LineType { return []LineType{MC, IC, ASC, DSC} }

// Valid reports whether lt is a known line type.
func (lt LineType) Valid() bool { return lt >= MC && lt <= DSC }

// IsMeridian reports whether the line is a single meridian (MC or IC) rather
// than a horizon curve.
func (lt LineType) IsMeridian() bool { return lt == MC || lt == IC }

func (lt LineType) String() string {
	if !lt.Valid() {
		return fmt.Sprintf("LineType(%d)", int(lt))
	}
	return lineTypeNames[lt]
}

// ParseLineType converts a wire name ("MC", "ASC", ...) to a LineType.
func ParseLineType(s string) (LineType, error) {
	for i, name := range lineTypeNames {
		if name == s {
			return LineType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown line type %q", s)
}

func (lt LineType) MarshalJSON() ([]byte, error) {
	if !lt.Valid() {
		return nil, fmt.Errorf("marshal line type: invalid value %d", int(lt))
	}
	return json.Marshal(lt.String())
}

func (lt *LineType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLineType(s)
	if err != nil {
		return err
	}
	*lt = parsed
	return nil
}

// SourceTag marks which chart a line belongs to when charts are overlaid.
type SourceTag int

const (
	SourceOwn SourceTag = iota
	SourcePartner
	SourceTransit
	SourceComposite
)

var sourceTagNames = [...]string{"own", "partner", "transit", "composite"}

// Valid reports whether st is a known source tag.
func (st SourceTag) Valid() bool { return st >= SourceOwn && st <= SourceComposite }

func (st SourceTag) String() string {
	if !st.Valid() {
		return fmt.Sprintf("SourceTag(%d)", int(st))
	}
	return sourceTagNames[st]
}

// ParseSourceTag converts a wire name ("own", "partner", ...) to a SourceTag.
func ParseSourceTag(s string) (SourceTag, error) {
	for i, name := range sourceTagNames {
		if name == s {
			return SourceTag(i), nil
		}
	}
	return 0, fmt.Errorf("unknown source tag %q", s)
}

func (st SourceTag) MarshalJSON() ([]byte, error) {
	if !st.Valid() {
		return nil, fmt.Errorf("marshal source tag: invalid value %d", int(st))
	}
	return json.Marshal(st.String())
}

func (st *SourceTag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseSourceTag(s)
	if err != nil {
		return err
	}
	*st = parsed
	return nil
}

// InfluenceBand grades how strongly a line influences a location, from the
// distance between them.
type InfluenceBand int

const (
	VeryStrong InfluenceBand = iota
	Strong
	Moderate
	Weak
)

var influenceBandNames = [...]string{"very_strong", "strong", "moderate", "weak"}

// Valid reports whether b is a known band.
func (b InfluenceBand) Valid() bool { return b >= VeryStrong && b <= Weak }

func (b InfluenceBand) String() string {
	if !b.Valid() {
		return fmt.Sprintf("InfluenceBand(%d)", int(b))
	}
	return influenceBandNames[b]
}

// ParseInfluenceBand converts a wire name ("very_strong", ...) to a band.
func ParseInfluenceBand(s string) (InfluenceBand, error) {
	for i, name := range influenceBandNames {
		if name == s {
			return InfluenceBand(i), nil
		}
	}
	return 0, fmt.Errorf("unknown influence band %q", s)
}

func (b InfluenceBand) MarshalJSON() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("marshal influence band: invalid value %d", int(b))
	}
	return json.Marshal(b.String())
}

func (b *InfluenceBand) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseInfluenceBand(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

package domain

// PlanetPosition is a body's computed position for one instant. All angles
// are degrees; positions are immutable once produced.
type PlanetPosition struct {
	Planet         Planet  `json:"planet"`
	EclipticLon    float64 `json:"ecliptic_lon"` // [0, 360)
	EclipticLat    float64 `json:"ecliptic_lat"`
	RightAscension float64 `json:"right_ascension"` // [0, 360)
	Declination    float64 `json:"declination"`     // [-90, 90]
	DistanceAU     float64 `json:"distance_au"`
}

// SiderealTime is Greenwich sidereal time as a single degree value [0, 360)
// for a given instant and reference longitude.
type SiderealTime float64

// Chart is a fully computed natal or composite chart. Lines always holds
// every generated curve; display filtering happens downstream so callers can
// re-filter without recomputing.
type Chart struct {
	ProfileID    string           `json:"profile_id,omitempty"`
	Positions    []PlanetPosition `json:"positions"`
	SiderealTime SiderealTime     `json:"sidereal_time"`
	Lines        []AstroLine      `json:"lines"`
}

// AstroLine is one angularity curve: an ordered, finite sequence of
// latitude/longitude points. ASC/DSC curves terminate wherever the required
// latitude would exceed 90°−|declination|; MC/IC lines run pole to pole on a
// single meridian and are always exactly 180° of longitude apart.
type AstroLine struct {
	ID       string     `json:"id"`
	Planet   Planet     `json:"planet"`
	Type     LineType   `json:"type"`
	Points   []GeoPoint `json:"points"`
	Source   SourceTag  `json:"source"`
	Strength float64    `json:"strength"` // display weighting, (0, 1]
}

// NearestLineResult pairs a line with its distance from a query point and
// the influence band that distance falls into.
type NearestLineResult struct {
	Line     AstroLine     `json:"line"`
	Distance float64       `json:"distance"` // degrees, >= 0
	Band     InfluenceBand `json:"band"`
}

// SynastryOverlap records a geographic coincidence between two charts'
// corresponding lines. Anchor is the closest-approach point used for
// nearby-city annotation.
type SynastryOverlap struct {
	Planet    Planet      `json:"planet"`
	Type      LineType    `json:"type"`
	Kind      OverlapKind `json:"kind"`
	Proximity float64     `json:"proximity"` // degrees
	Anchor    GeoPoint    `json:"anchor"`
}

// LineActivation is one transiting-to-natal aspect inside orb.
type LineActivation struct {
	Transiting Planet    `json:"transiting"`
	Natal      Planet    `json:"natal"`
	Aspect     Aspect    `json:"aspect"`
	Intensity  Intensity `json:"intensity"`
	Residual   float64   `json:"residual"` // degrees from exactness
}

// OverlapGroup is one of the six BondSummary buckets.
type OverlapGroup struct {
	Kind         OverlapKind       `json:"kind"`
	Overlaps     []SynastryOverlap `json:"overlaps"`
	Description  string            `json:"description"`
	NearbyCities []CityRef         `json:"nearby_cities,omitempty"`
}

// BondSummary partitions a synastry comparison into the six overlap buckets.
// All six groups are always present, possibly empty.
type BondSummary struct {
	Groups []OverlapGroup `json:"groups"`
}

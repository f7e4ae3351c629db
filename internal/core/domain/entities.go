package domain

import (
	"fmt"
	"strings"
	"time"
)

// CivilDate is a calendar date in the proleptic Gregorian calendar.
// It marshals to its canonical "2006-01-02" form.
type CivilDate struct {
	Year  int
	Month int
	Day   int
}

// ParseCivilDate parses "2006-01-02" and validates the result.
func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return CivilDate{}, fmt.Errorf("parse date %q: %w", s, ErrInvalidBirthData)
	}
	return CivilDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d CivilDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *CivilDate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseCivilDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate rejects dates that do not exist on the calendar.
func (d CivilDate) Validate() error {
	if d.Year < 1 || d.Year > 3000 {
		return fmt.Errorf("year %d out of range 1-3000: %w", d.Year, ErrInvalidBirthData)
	}
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("month %d out of range 1-12: %w", d.Month, ErrInvalidBirthData)
	}
	if d.Day < 1 || d.Day > daysInMonth(d.Year, d.Month) {
		return fmt.Errorf("day %d invalid for %04d-%02d: %w", d.Day, d.Year, d.Month, ErrInvalidBirthData)
	}
	return nil
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// CivilTime is a wall-clock time of day. It marshals to "15:04".
type CivilTime struct {
	Hour   int
	Minute int
}

// ParseCivilTime parses "15:04" and validates the result.
func ParseCivilTime(s string) (CivilTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return CivilTime{}, fmt.Errorf("parse time %q: %w", s, ErrInvalidBirthData)
	}
	return CivilTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t CivilTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t CivilTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *CivilTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseCivilTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Validate rejects out-of-range clock fields.
func (t CivilTime) Validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("hour %d out of range 0-23: %w", t.Hour, ErrInvalidBirthData)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("minute %d out of range 0-59: %w", t.Minute, ErrInvalidBirthData)
	}
	return nil
}

// BirthProfile is the normalized birth record supplied by collaborators:
// calendar date, local civil time, and the birth coordinates. The longitude
// doubles as the reference longitude for civil-time interpretation.
type BirthProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      CivilDate `json:"date"`
	Time      CivilTime `json:"time"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Watched   bool      `json:"watched"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate fails fast on impossible birth data.
func (p BirthProfile) Validate() error {
	if err := p.Date.Validate(); err != nil {
		return err
	}
	if err := p.Time.Validate(); err != nil {
		return err
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %.4f out of range -90..90: %w", p.Lat, ErrInvalidBirthData)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude %.4f out of range -180..180: %w", p.Lon, ErrInvalidBirthData)
	}
	return nil
}

// City is one entry of the curated world-city list.
type City struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Country    string   `json:"country"`
	Location   GeoPoint `json:"location"`
	Population int64    `json:"population"`
	Distance   *float64 `json:"distance,omitempty"` // computed field, meters
}

// CityRef is a lightweight nearby-city annotation.
type CityRef struct {
	Name       string  `json:"name"`
	Country    string  `json:"country"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	DistanceKm float64 `json:"distance_km"`
}

// CityHotspot is a city that sits inside a line's influence band.
type CityHotspot struct {
	City     City          `json:"city"`
	Line     AstroLine     `json:"line"`
	Distance float64       `json:"distance"` // degrees to the line
	Band     InfluenceBand `json:"band"`
}

// BondReport is a stored bond summary for a pair of profiles.
type BondReport struct {
	ID        string      `json:"id"`
	ProfileA  string      `json:"profile_a"`
	ProfileB  string      `json:"profile_b"`
	Summary   BondSummary `json:"summary"`
	CreatedAt time.Time   `json:"created_at"`
}

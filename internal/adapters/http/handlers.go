package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

// queryFloat parses a required float query parameter. Zero is a legal value
// for coordinates, so presence is checked before parsing.
func queryFloat(c *fiber.Ctx, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, fmt.Errorf("%s query parameter is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}

// queryPoint parses and validates required lat/lon query parameters.
func queryPoint(c *fiber.Ctx) (domain.GeoPoint, error) {
	lat, err := queryFloat(c, "lat")
	if err != nil {
		return domain.GeoPoint{}, err
	}
	lon, err := queryFloat(c, "lon")
	if err != nil {
		return domain.GeoPoint{}, err
	}
	if lat < -90 || lat > 90 {
		return domain.GeoPoint{}, fmt.Errorf("lat must be within -90..90")
	}
	if lon < -180 || lon > 180 {
		return domain.GeoPoint{}, fmt.Errorf("lon must be within -180..180")
	}
	return domain.GeoPoint{Lat: lat, Lon: lon}, nil
}

// ---- Profiles ----

type createProfileRequest struct {
	Name    string  `json:"name"`
	Date    string  `json:"date"` // YYYY-MM-DD
	Time    string  `json:"time"` // HH:MM
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Watched bool    `json:"watched"`
}

// CreateProfileHandler registers a new birth profile.
func CreateProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		date, err := domain.ParseCivilDate(req.Date)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		birthTime, err := domain.ParseCivilTime(req.Time)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		profile := domain.BirthProfile{
			Name:    req.Name,
			Date:    date,
			Time:    birthTime,
			Lat:     req.Lat,
			Lon:     req.Lon,
			Watched: req.Watched,
		}
		if err := deps.Profiles.Create(c.Context(), &profile); err != nil {
			return errDomain(c, err)
		}

		return c.Status(201).JSON(profile)
	}
}

// ListProfilesHandler returns stored profiles, newest first.
func ListProfilesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		offset := c.QueryInt("offset", 0)

		profiles, err := deps.Profiles.List(c.Context(), limit, offset)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(profiles)
	}
}

// GetProfileHandler returns a single profile by ID.
func GetProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "profile id is required")
		}
		profile, err := deps.Profiles.GetByID(c.Context(), id)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(profile)
	}
}

// DeleteProfileHandler removes a profile along with its cached charts.
func DeleteProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "profile id is required")
		}
		if err := deps.Profiles.Delete(c.Context(), id); err != nil {
			return errDomain(c, err)
		}
		return c.SendStatus(204)
	}
}

// SetWatchedHandler toggles transit notifications for a profile.
func SetWatchedHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "profile id is required")
		}

		var req struct {
			Watched bool `json:"watched"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		if err := deps.Profiles.SetWatched(c.Context(), id, req.Watched); err != nil {
			return errDomain(c, err)
		}
		return c.JSON(fiber.Map{"id": id, "watched": req.Watched})
	}
}

// ---- Charts and lines ----

// ProfileChartHandler returns the full computed chart for a profile.
func ProfileChartHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "profile id is required")
		}
		includeMinor := c.QueryBool("include_minor", false)

		chart, err := deps.Charts.ForProfile(c.Context(), id, includeMinor)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(chart)
	}
}

// ProfileLinesHandler returns a profile's angularity lines as a paginated list.
func ProfileLinesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "profile id is required")
		}
		includeMinor := c.QueryBool("include_minor", false)

		chart, err := deps.Charts.ForProfile(c.Context(), id, includeMinor)
		if err != nil {
			return errDomain(c, err)
		}

		page, pg := paginate(c, chart.Lines, 20, 100)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// NearestLinesHandler ranks a profile's lines by distance from a point.
func NearestLinesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "profile id is required")
		}

		point, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		maxResults := c.QueryInt("max_results", 5)
		hideMild := c.QueryBool("hide_mild", false)
		includeMinor := c.QueryBool("include_minor", false)

		results, err := deps.Charts.NearestToPoint(c.Context(), id, point, maxResults, hideMild, includeMinor)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(results)
	}
}

// LinesByKeywordHandler filters a profile's lines by a life-theme keyword.
func LinesByKeywordHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "profile id is required")
		}
		keyword := c.Query("q")
		if keyword == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		includeMinor := c.QueryBool("include_minor", false)

		lines, err := deps.Charts.LinesByKeyword(c.Context(), id, keyword, includeMinor)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(lines)
	}
}

// ---- Synastry ----

// synastryPair pulls the two profile IDs from the a/b query parameters.
func synastryPair(c *fiber.Ctx) (string, string, error) {
	a := c.Query("a")
	b := c.Query("b")
	if a == "" || b == "" {
		return "", "", fmt.Errorf("a and b query parameters (profile IDs) are required")
	}
	return a, b, nil
}

// CompositeChartHandler returns the midpoint chart for a pair of profiles.
func CompositeChartHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, b, err := synastryPair(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		includeMinor := c.QueryBool("include_minor", false)

		chart, err := deps.Synastry.CompositeChart(c.Context(), a, b, includeMinor)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(chart)
	}
}

// SynastryOverlayHandler returns both charts' lines plus tagged overlaps.
func SynastryOverlayHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, b, err := synastryPair(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		includeMinor := c.QueryBool("include_minor", false)

		lines, overlaps, err := deps.Synastry.Overlay(c.Context(), a, b, includeMinor)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(fiber.Map{
			"lines":    lines,
			"overlaps": overlaps,
		})
	}
}

// BondSummaryHandler returns the grouped overlap narrative for a pair.
func BondSummaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, b, err := synastryPair(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		includeMinor := c.QueryBool("include_minor", false)

		summary, err := deps.Synastry.BondSummary(c.Context(), a, b, includeMinor)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(summary)
	}
}

// ---- Reports ----

type issueReportRequest struct {
	ProfileA     string `json:"profile_a"`
	ProfileB     string `json:"profile_b"`
	IncludeMinor bool   `json:"include_minor"`
}

// IssueReportHandler computes and stores a bond report for a pair.
func IssueReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req issueReportRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.ProfileA == "" || req.ProfileB == "" {
			return errBadRequest(c, "profile_a and profile_b are required")
		}
		if req.ProfileA == req.ProfileB {
			return errBadRequest(c, "profile_a and profile_b must differ")
		}

		report, err := deps.Reports.Issue(c.Context(), req.ProfileA, req.ProfileB, req.IncludeMinor)
		if err != nil {
			return errDomain(c, err)
		}
		return c.Status(201).JSON(report)
	}
}

// GetReportHandler returns a stored bond report by ID.
func GetReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "report id is required")
		}
		report, err := deps.Reports.GetByID(c.Context(), id)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(report)
	}
}

// ListReportsHandler lists reports that involve a profile.
func ListReportsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profileID := c.Query("profile_id")
		if profileID == "" {
			return errBadRequest(c, "profile_id query parameter is required")
		}
		limit := c.QueryInt("limit", 20)

		reports, err := deps.Reports.ListByProfile(c.Context(), profileID, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(reports)
	}
}

// DeleteReportHandler removes a stored report.
func DeleteReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "report id is required")
		}
		if err := deps.Reports.Delete(c.Context(), id); err != nil {
			return errDomain(c, err)
		}
		return c.SendStatus(204)
	}
}

// ---- Transits ----

// ProfileTransitsHandler returns line activations for a profile on a scrub
// date (today when the date parameter is absent).
func ProfileTransitsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "profile id is required")
		}

		var (
			activations []domain.LineActivation
			err         error
		)
		if raw := c.Query("date"); raw != "" {
			date, perr := domain.ParseCivilDate(raw)
			if perr != nil {
				return errBadRequest(c, perr.Error())
			}
			activations, err = deps.Transits.ActivationsOn(c.Context(), id, date)
		} else {
			activations, err = deps.Transits.ActivationsToday(c.Context(), id)
		}
		if err != nil {
			return errDomain(c, err)
		}

		page, pg := paginate(c, activations, 50, 200)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// LegacyTransitsHandler is the pre-1.0 query-parameter variant of the
// per-profile transits endpoint. It is kept for old clients and carries
// deprecation headers; see SetupRoutes.
func LegacyTransitsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profileID := c.Query("profile_id")
		if profileID == "" {
			return errBadRequest(c, "profile_id query parameter is required")
		}

		var (
			activations []domain.LineActivation
			err         error
		)
		if raw := c.Query("date"); raw != "" {
			date, perr := domain.ParseCivilDate(raw)
			if perr != nil {
				return errBadRequest(c, perr.Error())
			}
			activations, err = deps.Transits.ActivationsOn(c.Context(), profileID, date)
		} else {
			activations, err = deps.Transits.ActivationsToday(c.Context(), profileID)
		}
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(activations)
	}
}

// ---- Hotspots ----

// CityHotspotsHandler returns major cities sitting under a profile's lines.
func CityHotspotsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "profile id is required")
		}
		minPopulation := int64(c.QueryInt("min_population", 0))
		limit := c.QueryInt("limit", 50)
		includeMinor := c.QueryBool("include_minor", false)

		hotspots, err := deps.Hotspots.MajorCities(c.Context(), id, minPopulation, limit, includeMinor)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(hotspots)
	}
}

// ViewportHotspotsHandler scans a circular viewport for cities under lines.
func ViewportHotspotsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "profile id is required")
		}

		center, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		radius := c.QueryFloat("radius", 0)
		if radius <= 0 || radius > 5_000_000 {
			return errBadRequest(c, "radius must be between 1 and 5000000 meters")
		}
		limit := c.QueryInt("limit", 50)
		includeMinor := c.QueryBool("include_minor", false)

		hotspots, err := deps.Hotspots.ScanViewport(c.Context(), id, center, radius, limit, includeMinor)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(hotspots)
	}
}

// ---- Cities ----

// SearchCitiesHandler performs fuzzy search on city names, optionally biased
// toward a point.
func SearchCitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		limit := c.QueryInt("limit", 20)

		var near *domain.GeoPoint
		if c.Query("lat") != "" || c.Query("lon") != "" {
			point, err := queryPoint(c)
			if err != nil {
				return errBadRequest(c, err.Error())
			}
			near = &point
		}

		cities, err := deps.Cities.Search(c.Context(), query, near, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(cities)
	}
}

// NearbyCitiesHandler returns cities within a radius of a point.
func NearbyCitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		point, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		radius := c.QueryFloat("radius", 100_000)
		if radius <= 0 || radius > 1_000_000 {
			return errBadRequest(c, "radius must be between 1 and 1000000 meters")
		}
		limit := c.QueryInt("limit", 20)

		cities, err := deps.Cities.FindNearby(c.Context(), point.Lat, point.Lon, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(cities)
	}
}

// ---- Stats ----

// AtlasStats holds row counts from the atlas tables.
type AtlasStats struct {
	Profiles   int    `json:"profiles"`
	Watched    int    `json:"watched"`
	Cities     int    `json:"cities"`
	Reports    int    `json:"reports"`
	LastReport string `json:"last_report,omitempty"`
}

// AtlasStatsHandler returns row counts from the atlas tables.
func AtlasStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats AtlasStats
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM birth_profiles),
				(SELECT count(*) FROM birth_profiles WHERE watched),
				(SELECT count(*) FROM cities),
				(SELECT count(*) FROM bond_reports),
				COALESCE((SELECT max(created_at)::text FROM bond_reports), '')
		`)
		if err := row.Scan(&stats.Profiles, &stats.Watched, &stats.Cities,
			&stats.Reports, &stats.LastReport); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

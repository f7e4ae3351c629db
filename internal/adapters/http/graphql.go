package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/selenevara/astroatlas/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	profileType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.Fields{
			"id":      &graphql.Field{Type: graphql.String},
			"name":    &graphql.Field{Type: graphql.String},
			"date":    &graphql.Field{Type: graphql.String},
			"time":    &graphql.Field{Type: graphql.String},
			"lat":     &graphql.Field{Type: graphql.Float},
			"lon":     &graphql.Field{Type: graphql.Float},
			"watched": &graphql.Field{Type: graphql.Boolean},
			"created_at": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					switch v := p.Source.(type) {
					case *domain.BirthProfile:
						return v.CreatedAt.Format(time.RFC3339), nil
					case domain.BirthProfile:
						return v.CreatedAt.Format(time.RFC3339), nil
					}
					return nil, nil
				},
			},
		},
	})

	positionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PlanetPosition",
		Fields: graphql.Fields{
			"planet":          &graphql.Field{Type: graphql.String},
			"ecliptic_lon":    &graphql.Field{Type: graphql.Float},
			"ecliptic_lat":    &graphql.Field{Type: graphql.Float},
			"right_ascension": &graphql.Field{Type: graphql.Float},
			"declination":     &graphql.Field{Type: graphql.Float},
			"distance_au":     &graphql.Field{Type: graphql.Float},
		},
	})

	lineType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AstroLine",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"planet":   &graphql.Field{Type: graphql.String},
			"type":     &graphql.Field{Type: graphql.String},
			"source":   &graphql.Field{Type: graphql.String},
			"strength": &graphql.Field{Type: graphql.Float},
			"points":   &graphql.Field{Type: graphql.NewList(geoPointType)},
		},
	})

	chartType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Chart",
		Fields: graphql.Fields{
			"profile_id": &graphql.Field{Type: graphql.String},
			"sidereal_time": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if chart, ok := p.Source.(*domain.Chart); ok {
						return float64(chart.SiderealTime), nil
					}
					return nil, nil
				},
			},
			"positions": &graphql.Field{Type: graphql.NewList(positionType)},
			"lines":     &graphql.Field{Type: graphql.NewList(lineType)},
		},
	})

	nearestLineType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearestLine",
		Fields: graphql.Fields{
			"line":     &graphql.Field{Type: lineType},
			"distance": &graphql.Field{Type: graphql.Float},
			"band":     &graphql.Field{Type: graphql.String},
		},
	})

	cityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "City",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"country":    &graphql.Field{Type: graphql.String},
			"location":   &graphql.Field{Type: geoPointType},
			"population": &graphql.Field{Type: graphql.Int},
			"distance":   &graphql.Field{Type: graphql.Float},
		},
	})

	hotspotType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CityHotspot",
		Fields: graphql.Fields{
			"city":     &graphql.Field{Type: cityType},
			"line":     &graphql.Field{Type: lineType},
			"distance": &graphql.Field{Type: graphql.Float},
			"band":     &graphql.Field{Type: graphql.String},
		},
	})

	activationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LineActivation",
		Fields: graphql.Fields{
			"transiting": &graphql.Field{Type: graphql.String},
			"natal":      &graphql.Field{Type: graphql.String},
			"aspect":     &graphql.Field{Type: graphql.String},
			"intensity":  &graphql.Field{Type: graphql.String},
			"residual":   &graphql.Field{Type: graphql.Float},
		},
	})

	cityRefType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CityRef",
		Fields: graphql.Fields{
			"name":        &graphql.Field{Type: graphql.String},
			"country":     &graphql.Field{Type: graphql.String},
			"lat":         &graphql.Field{Type: graphql.Float},
			"lon":         &graphql.Field{Type: graphql.Float},
			"distance_km": &graphql.Field{Type: graphql.Float},
		},
	})

	overlapType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SynastryOverlap",
		Fields: graphql.Fields{
			"planet":    &graphql.Field{Type: graphql.String},
			"type":      &graphql.Field{Type: graphql.String},
			"kind":      &graphql.Field{Type: graphql.String},
			"proximity": &graphql.Field{Type: graphql.Float},
			"anchor":    &graphql.Field{Type: geoPointType},
		},
	})

	groupType := graphql.NewObject(graphql.ObjectConfig{
		Name: "OverlapGroup",
		Fields: graphql.Fields{
			"kind":          &graphql.Field{Type: graphql.String},
			"description":   &graphql.Field{Type: graphql.String},
			"overlaps":      &graphql.Field{Type: graphql.NewList(overlapType)},
			"nearby_cities": &graphql.Field{Type: graphql.NewList(cityRefType)},
		},
	})

	bondSummaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BondSummary",
		Fields: graphql.Fields{
			"groups": &graphql.Field{Type: graphql.NewList(groupType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"profile": &graphql.Field{
				Type:        profileType,
				Description: "Get a birth profile by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Profiles.GetByID(p.Context, id)
				},
			},
			"profiles": &graphql.Field{
				Type:        graphql.NewList(profileType),
				Description: "List stored birth profiles",
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit := p.Args["limit"].(int)
					offset := p.Args["offset"].(int)
					return deps.Profiles.List(p.Context, limit, offset)
				},
			},
			"chart": &graphql.Field{
				Type:        chartType,
				Description: "Full computed chart for a profile",
				Args: graphql.FieldConfigArgument{
					"profile_id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"include_minor": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["profile_id"].(string)
					includeMinor := p.Args["include_minor"].(bool)
					return deps.Charts.ForProfile(p.Context, id, includeMinor)
				},
			},
			"nearestLines": &graphql.Field{
				Type:        graphql.NewList(nearestLineType),
				Description: "Lines ranked by distance from a point",
				Args: graphql.FieldConfigArgument{
					"profile_id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lat":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"max_results":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 5},
					"hide_mild":     &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
					"include_minor": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["profile_id"].(string)
					point := domain.GeoPoint{
						Lat: p.Args["lat"].(float64),
						Lon: p.Args["lon"].(float64),
					}
					maxResults := p.Args["max_results"].(int)
					hideMild := p.Args["hide_mild"].(bool)
					includeMinor := p.Args["include_minor"].(bool)
					return deps.Charts.NearestToPoint(p.Context, id, point, maxResults, hideMild, includeMinor)
				},
			},
			"bondSummary": &graphql.Field{
				Type:        bondSummaryType,
				Description: "Grouped overlap narrative for a pair of profiles",
				Args: graphql.FieldConfigArgument{
					"a":             &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"b":             &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"include_minor": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					a := p.Args["a"].(string)
					b := p.Args["b"].(string)
					includeMinor := p.Args["include_minor"].(bool)
					return deps.Synastry.BondSummary(p.Context, a, b, includeMinor)
				},
			},
			"activations": &graphql.Field{
				Type:        graphql.NewList(activationType),
				Description: "Transiting-to-natal activations for a profile",
				Args: graphql.FieldConfigArgument{
					"profile_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"date":       &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["profile_id"].(string)
					if raw, ok := p.Args["date"].(string); ok && raw != "" {
						date, err := domain.ParseCivilDate(raw)
						if err != nil {
							return nil, err
						}
						return deps.Transits.ActivationsOn(p.Context, id, date)
					}
					return deps.Transits.ActivationsToday(p.Context, id)
				},
			},
			"searchCities": &graphql.Field{
				Type:        graphql.NewList(cityType),
				Description: "Search cities by name (fuzzy matching)",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := p.Args["query"].(string)
					limit := p.Args["limit"].(int)
					return deps.Cities.Search(p.Context, q, nil, limit)
				},
			},
			"cityHotspots": &graphql.Field{
				Type:        graphql.NewList(hotspotType),
				Description: "Major cities sitting under a profile's lines",
				Args: graphql.FieldConfigArgument{
					"profile_id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"min_population": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":          &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["profile_id"].(string)
					minPopulation := int64(p.Args["min_population"].(int))
					limit := p.Args["limit"].(int)
					return deps.Hotspots.MajorCities(p.Context, id, minPopulation, limit, false)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}

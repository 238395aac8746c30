package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/profile"
	"github.com/samirrijal/trailview/internal/core/variants"
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

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	pointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RoutePoint",
		Fields: graphql.Fields{
			"lon": &graphql.Field{Type: graphql.Float},
			"lat": &graphql.Field{Type: graphql.Float},
			"ele": &graphql.Field{Type: graphql.Float},
		},
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Route",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.String},
			"slug":   &graphql.Field{Type: graphql.String},
			"name":   &graphql.Field{Type: graphql.String},
			"source": &graphql.Field{Type: graphql.String},
			"points": &graphql.Field{Type: graphql.NewList(pointType)},
			"point_count": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if r, ok := p.Source.(domain.Route); ok {
						return len(r.Points), nil
					}
					if r, ok := p.Source.(*domain.Route); ok {
						return len(r.Points), nil
					}
					return nil, nil
				},
			},
		},
	})

	sampleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ElevationSample",
		Fields: graphql.Fields{
			"elevation": &graphql.Field{Type: graphql.Float},
			"distance":  &graphql.Field{Type: graphql.Float},
		},
	})

	summaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProfileSummary",
		Fields: graphql.Fields{
			"points":            &graphql.Field{Type: graphql.Int},
			"distance":          &graphql.Field{Type: graphql.Float},
			"min_elevation":     &graphql.Field{Type: graphql.Float},
			"max_elevation":     &graphql.Field{Type: graphql.Float},
			"ascent":            &graphql.Field{Type: graphql.Float},
			"descent":           &graphql.Field{Type: graphql.Float},
			"geodesic_length_m": &graphql.Field{Type: graphql.Float},
			"bounds":            &graphql.Field{Type: boundsType},
		},
	})

	cameraType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Camera",
		Fields: graphql.Fields{
			"center":  &graphql.Field{Type: geoPointType},
			"zoom":    &graphql.Field{Type: graphql.Float},
			"pitch":   &graphql.Field{Type: graphql.Float},
			"bearing": &graphql.Field{Type: graphql.Float},
		},
	})

	variantType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Variant",
		Fields: graphql.Fields{
			"name":               &graphql.Field{Type: graphql.String},
			"title":              &graphql.Field{Type: graphql.String},
			"map_style":          &graphql.Field{Type: graphql.String},
			"projection":         &graphql.Field{Type: graphql.String},
			"theme":              &graphql.Field{Type: graphql.String},
			"line_color":         &graphql.Field{Type: graphql.String},
			"line_width":         &graphql.Field{Type: graphql.Float},
			"line_opacity":       &graphql.Field{Type: graphql.Float},
			"camera":             &graphql.Field{Type: cameraType},
			"distance_decimals":  &graphql.Field{Type: graphql.Int},
			"elevation_decimals": &graphql.Field{Type: graphql.Int},
			"rotate_deg_per_sec": &graphql.Field{Type: graphql.Float},
			"popup_index":        &graphql.Field{Type: graphql.Int},
			"popup_text":         &graphql.Field{Type: graphql.String},
			"finish_flag":        &graphql.Field{Type: graphql.Boolean},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"routes": &graphql.Field{
				Type:        graphql.NewList(routeType),
				Description: "List stored routes (points omitted)",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Routes.List(p.Context)
				},
			},
			"route": &graphql.Field{
				Type:        routeType,
				Description: "Get a route by slug",
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Routes.GetBySlug(p.Context, p.Args["slug"].(string))
				},
			},
			"profile": &graphql.Field{
				Type:        graphql.NewList(sampleType),
				Description: "Elevation profile of a route",
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"unit": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: string(profile.UnitKilometers)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					unit, err := profile.ParseUnit(p.Args["unit"].(string))
					if err != nil {
						return nil, err
					}
					return deps.Profiles.Profile(p.Context, p.Args["slug"].(string), unit)
				},
			},
			"summary": &graphql.Field{
				Type:        summaryType,
				Description: "Aggregate figures for a route",
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Profiles.Summary(p.Context, p.Args["slug"].(string))
				},
			},
			"variants": &graphql.Field{
				Type:        graphql.NewList(variantType),
				Description: "All page variants",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return variants.List(), nil
				},
			},
			"variant": &graphql.Field{
				Type:        variantType,
				Description: "Get a page variant by name",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return variants.Lookup(p.Args["name"].(string))
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
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}

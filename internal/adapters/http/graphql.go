package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
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

	facilityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Facility",
		Fields: graphql.Fields{
			"id":                 &graphql.Field{Type: graphql.Int},
			"name":               &graphql.Field{Type: graphql.String},
			"type":               &graphql.Field{Type: graphql.String},
			"location":           &graphql.Field{Type: geoPointType},
			"distance_to_path_m": &graphql.Field{Type: graphql.Float},
		},
	})

	weightType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Weight",
		Fields: graphql.Fields{
			"name":   &graphql.Field{Type: graphql.String},
			"weight": &graphql.Field{Type: graphql.Float},
		},
	})

	landuseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Landuse",
		Fields: graphql.Fields{
			"score": &graphql.Field{Type: graphql.Float},
			"label": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"defaultWeights": &graphql.Field{
				Type:        graphql.NewList(weightType),
				Description: "Stock scoring factor weights",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var out []map[string]interface{}
					for name, w := range domain.DefaultWeights() {
						out = append(out, map[string]interface{}{
							"name":   name,
							"weight": w,
						})
					}
					return out, nil
				},
			},
			"landuseScore": &graphql.Field{
				Type:        landuseType,
				Description: "Land-use suitability near a point",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					score, label := deps.Gateway.LanduseScore(p.Context, domain.GeoPoint{Lat: lat, Lon: lon})
					return map[string]interface{}{
						"score": score,
						"label": label,
					}, nil
				},
			},
			"facilities": &graphql.Field{
				Type:        graphql.NewList(facilityType),
				Description: "Live facilities of one category inside a bounding box",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"south":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"west":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"north":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"east":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category := domain.Category(p.Args["category"].(string))
					if !isLiveCategory(category) {
						return nil, fmt.Errorf("unknown category: %s", category)
					}
					bounds := domain.Bounds{
						MinLat: p.Args["south"].(float64),
						MinLon: p.Args["west"].(float64),
						MaxLat: p.Args["north"].(float64),
						MaxLon: p.Args["east"].(float64),
					}
					return deps.Gateway.QueryFacilities(p.Context, bounds, category)
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

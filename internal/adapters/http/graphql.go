package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/ports"
	"github.com/samirrijal/skysurvey/internal/core/usecases"
)

// buildSchema creates the GraphQL schema wired to our services. Fields
// resolve through the json tags of the domain types.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	pointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Point",
		Fields: graphql.Fields{
			"x": &graphql.Field{Type: graphql.Float},
			"y": &graphql.Field{Type: graphql.Float},
		},
	})

	pointInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PointInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"x": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"y": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BoundingBox",
		Fields: graphql.Fields{
			"min_x": &graphql.Field{Type: graphql.Float},
			"max_x": &graphql.Field{Type: graphql.Float},
			"min_y": &graphql.Field{Type: graphql.Float},
			"max_y": &graphql.Field{Type: graphql.Float},
		},
	})

	flightPathType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FlightPath",
		Fields: graphql.Fields{
			"pattern":         &graphql.Field{Type: graphql.String},
			"subdivisions":    &graphql.Field{Type: graphql.Int},
			"waypoint_count":  &graphql.Field{Type: graphql.Int},
			"distance_meters": &graphql.Field{Type: graphql.Float},
			"waypoints":       &graphql.Field{Type: graphql.NewList(pointType)},
			"bounds":          &graphql.Field{Type: boundsType},
			"estimated_seconds": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if fp, ok := p.Source.(*domain.FlightPath); ok {
						return fp.EstimatedDuration.Seconds(), nil
					}
					return nil, nil
				},
			},
		},
	})

	paramsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FlightParams",
		Fields: graphql.Fields{
			"altitude":           &graphql.Field{Type: graphql.Float},
			"overlap":            &graphql.Field{Type: graphql.Int},
			"speed":              &graphql.Field{Type: graphql.Float},
			"auto_return":        &graphql.Field{Type: graphql.Boolean},
			"obstacle_avoidance": &graphql.Field{Type: graphql.Boolean},
			"geofencing":         &graphql.Field{Type: graphql.Boolean},
		},
	})

	droneType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Drone",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"name":             &graphql.Field{Type: graphql.String},
			"model":            &graphql.Field{Type: graphql.String},
			"status":           &graphql.Field{Type: graphql.String},
			"battery":          &graphql.Field{Type: graphql.Int},
			"location":         &graphql.Field{Type: graphql.String},
			"online":           &graphql.Field{Type: graphql.Boolean},
			"flight_hours":     &graphql.Field{Type: graphql.Float},
			"sensors":          &graphql.Field{Type: graphql.NewList(graphql.String)},
			"last_maintenance": &graphql.Field{Type: graphql.DateTime},
		},
	})

	missionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mission",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":             &graphql.Field{Type: graphql.String},
				"name":           &graphql.Field{Type: graphql.String},
				"location":       &graphql.Field{Type: graphql.String},
				"drone_id":       &graphql.Field{Type: graphql.String},
				"pattern":        &graphql.Field{Type: graphql.String},
				"subdivisions":   &graphql.Field{Type: graphql.Int},
				"area":           &graphql.Field{Type: graphql.NewList(pointType)},
				"params":         &graphql.Field{Type: paramsType},
				"status":         &graphql.Field{Type: graphql.String},
				"progress":       &graphql.Field{Type: graphql.Int},
				"waypoint_count": &graphql.Field{Type: graphql.Int},
				"scheduled_at":   &graphql.Field{Type: graphql.DateTime},
				"started_at":     &graphql.Field{Type: graphql.DateTime},
				"completed_at":   &graphql.Field{Type: graphql.DateTime},
				"created_at":     &graphql.Field{Type: graphql.DateTime},
				"drone": &graphql.Field{
					Type: droneType,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						m := missionSource(p.Source)
						if m == nil {
							return nil, nil
						}
						return deps.Fleet.GetByID(p.Context, m.DroneID)
					},
				},
				"flight_path": &graphql.Field{
					Type:        flightPathType,
					Description: "Regenerated on every request",
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						m := missionSource(p.Source)
						if m == nil {
							return nil, nil
						}
						return deps.Missions.FlightPath(p.Context, m.ID)
					},
				},
			}
		}),
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"missions": &graphql.Field{
				Type:        graphql.NewList(missionType),
				Description: "List missions, newest first",
				Args: graphql.FieldConfigArgument{
					"status":   &graphql.ArgumentConfig{Type: graphql.String},
					"drone_id": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					status, _ := p.Args["status"].(string)
					droneID, _ := p.Args["drone_id"].(string)
					return deps.Missions.List(p.Context, ports.MissionFilter{
						Status:  domain.MissionStatus(status),
						DroneID: droneID,
					})
				},
			},
			"mission": &graphql.Field{
				Type:        missionType,
				Description: "Get a mission by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Missions.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"drones": &graphql.Field{
				Type:        graphql.NewList(droneType),
				Description: "List the fleet",
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					status, _ := p.Args["status"].(string)
					return deps.Fleet.List(p.Context, domain.DroneStatus(status))
				},
			},
			"drone": &graphql.Field{
				Type:        droneType,
				Description: "Get a drone by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Fleet.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"flightPath": &graphql.Field{
				Type:        flightPathType,
				Description: "Plan a coverage path over a polygon",
				Args: graphql.FieldConfigArgument{
					"polygon":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(pointInput)))},
					"pattern":      &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "grid"},
					"subdivisions": &graphql.ArgumentConfig{Type: graphql.Int},
					"speed":        &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pattern, err := coverage.ParsePattern(p.Args["pattern"].(string))
					if err != nil {
						return nil, err
					}
					req := usecases.PathRequest{Pattern: pattern}
					if raw, ok := p.Args["polygon"].([]interface{}); ok {
						req.Area = make(coverage.Polygon, 0, len(raw))
						for _, item := range raw {
							pt, err := pointFromInput(item)
							if err != nil {
								return nil, err
							}
							req.Area = append(req.Area, pt)
						}
					}
					if s, ok := p.Args["subdivisions"].(int); ok {
						if s < 1 {
							return nil, coverage.ErrInvalidSubdivisions
						}
						req.Subdivisions = s
					}
					if v, ok := p.Args["speed"].(float64); ok {
						req.Speed = v
					}
					return deps.Paths.Generate(p.Context, req)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// missionSource unwraps the parent of a Mission field; lists yield values,
// single lookups pointers.
func missionSource(src interface{}) *domain.Mission {
	switch m := src.(type) {
	case domain.Mission:
		return &m
	case *domain.Mission:
		return m
	}
	return nil
}

func pointFromInput(v interface{}) (coverage.Point, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return coverage.Point{}, fmt.Errorf("point must be an object")
	}
	x, okX := toFloat(m["x"])
	y, okY := toFloat(m["y"])
	if !okX || !okY {
		return coverage.Point{}, fmt.Errorf("point needs numeric x and y")
	}
	return coverage.Point{X: x, Y: y}, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
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

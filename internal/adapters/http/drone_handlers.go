package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/skysurvey/internal/core/domain"
)

// ListDronesHandler returns the fleet, optionally filtered by status.
func ListDronesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		drones, err := deps.Fleet.List(c.UserContext(), domain.DroneStatus(c.Query("status")))
		if err != nil {
			return errFromService(c, err)
		}
		if drones == nil {
			drones = []domain.Drone{}
		}
		return c.JSON(drones)
	}
}

// GetDroneHandler returns a single drone.
func GetDroneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := deps.Fleet.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(d)
	}
}
